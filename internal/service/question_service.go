package service

import (
	"context"

	"cbt-server/internal/domain"
	"cbt-server/internal/repository"
)

// QuestionService coordinates question level operations backed by the repository.
type QuestionService interface {
	Create(ctx context.Context, question *domain.Question) (*domain.Question, error)
	Get(ctx context.Context, id string) (*domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Question, error)
	Delete(ctx context.Context, id string) error
}

type questionService struct {
	questions repository.QuestionRepository
}

func NewQuestionService(questions repository.QuestionRepository) QuestionService {
	return &questionService{questions: questions}
}

func (s *questionService) Create(ctx context.Context, question *domain.Question) (*domain.Question, error) {
	if _, err := s.questions.Create(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *questionService) Get(ctx context.Context, id string) (*domain.Question, error) {
	return s.questions.GetByID(ctx, id)
}

func (s *questionService) List(ctx context.Context) ([]domain.Question, error) {
	return s.questions.List(ctx)
}

func (s *questionService) Update(ctx context.Context, id string, fields map[string]any) (*domain.Question, error) {
	delete(fields, "_id")
	return s.questions.Update(ctx, id, fields)
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	return s.questions.Delete(ctx, id)
}
