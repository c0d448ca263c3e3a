package service

import (
	"context"
	"time"

	"cbt-server/internal/domain"
	"cbt-server/internal/repository"
)

// ResultService coordinates result level operations backed by the repository.
type ResultService interface {
	Create(ctx context.Context, result *domain.Result) (*domain.Result, error)
	Get(ctx context.Context, id string) (*domain.Result, error)
	List(ctx context.Context) ([]domain.Result, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Result, error)
}

type resultService struct {
	results repository.ResultRepository
}

func NewResultService(results repository.ResultRepository) ResultService {
	return &resultService{results: results}
}

func (s *resultService) Create(ctx context.Context, result *domain.Result) (*domain.Result, error) {
	if result.SubmittedAt == nil {
		now := time.Now().UTC()
		result.SubmittedAt = &now
	}
	if result.Total > 0 && result.Percent == 0 {
		result.Percent = result.Score / result.Total * 100
	}

	if _, err := s.results.Create(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *resultService) Get(ctx context.Context, id string) (*domain.Result, error) {
	return s.results.GetByID(ctx, id)
}

func (s *resultService) List(ctx context.Context) ([]domain.Result, error) {
	return s.results.List(ctx)
}

func (s *resultService) Update(ctx context.Context, id string, fields map[string]any) (*domain.Result, error) {
	delete(fields, "_id")
	return s.results.Update(ctx, id, fields)
}
