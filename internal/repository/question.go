package repository

import (
	"context"

	"cbt-server/internal/domain"
)

// QuestionRepository defines persistence operations for Question documents.
type QuestionRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, question *domain.Question) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Question, error)
	Delete(ctx context.Context, id string) error
}
