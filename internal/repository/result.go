package repository

import (
	"context"

	"cbt-server/internal/domain"
)

// ResultRepository defines persistence operations for Result documents.
// Results are never deleted through the API.
type ResultRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, result *domain.Result) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Result, error)
	List(ctx context.Context) ([]domain.Result, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Result, error)
}
