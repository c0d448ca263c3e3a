package service

import (
	"context"
	"errors"

	"cbt-server/internal/domain"
	"cbt-server/internal/repository"
)

// ErrEmptyTitle guards against persistence of an exam without a title.
var ErrEmptyTitle = errors.New("exam title is required")

// ExamService coordinates exam level operations backed by the repository.
type ExamService interface {
	Create(ctx context.Context, exam *domain.Exam) (*domain.Exam, error)
	Get(ctx context.Context, id string) (*domain.Exam, error)
	List(ctx context.Context) ([]domain.Exam, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.Exam, error)
	Delete(ctx context.Context, id string) error
}

type examService struct {
	exams repository.ExamRepository
}

func NewExamService(exams repository.ExamRepository) ExamService {
	return &examService{exams: exams}
}

func (s *examService) Create(ctx context.Context, exam *domain.Exam) (*domain.Exam, error) {
	if exam.Title == "" {
		return nil, ErrEmptyTitle
	}
	if exam.Type == "" {
		exam.Type = "objective"
	}
	if exam.QuestionCount == 0 {
		exam.QuestionCount = len(exam.Questions)
	}

	if _, err := s.exams.Create(ctx, exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *examService) Get(ctx context.Context, id string) (*domain.Exam, error) {
	return s.exams.GetByID(ctx, id)
}

func (s *examService) List(ctx context.Context) ([]domain.Exam, error) {
	return s.exams.List(ctx)
}

func (s *examService) Update(ctx context.Context, id string, fields map[string]any) (*domain.Exam, error) {
	delete(fields, "_id")
	return s.exams.Update(ctx, id, fields)
}

func (s *examService) Delete(ctx context.Context, id string) error {
	return s.exams.Delete(ctx, id)
}
