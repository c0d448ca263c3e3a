package repository

import (
	"context"

	"cbt-server/internal/domain"
)

// ExamRepository defines persistence operations for Exam documents.
type ExamRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, exam *domain.Exam) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Exam, error)
	List(ctx context.Context) ([]domain.Exam, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Exam, error)
	Delete(ctx context.Context, id string) error
}
