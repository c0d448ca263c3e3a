package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cbt-server/internal/domain"
	"cbt-server/internal/repository"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when registering a username or email that is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
)

const bcryptCost = 12

// RegisterInput carries the already-validated, already-sanitized registration fields.
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	FullName   string
	Phone      string
	TenantSlug string
	Role       domain.Role
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, login, password string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, fields map[string]any) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := in.Role
	if role == "" {
		role = domain.RoleStudent
	}

	user := &domain.User{
		Username:       in.Username,
		Email:          in.Email,
		Phone:          in.Phone,
		FullName:       in.FullName,
		TenantSlug:     in.TenantSlug,
		PasswordHash:   string(hash),
		Role:           role,
		IsDefaultAdmin: role == domain.RoleAdmin,
		IsActive:       true,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}
	return stripSecrets(user), nil
}

func (s *userService) Authenticate(ctx context.Context, login, password string) (*domain.User, error) {
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	user.LastLogin = &now
	return stripSecrets(user), nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return stripSecrets(user), nil
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Update rewrites the named fields. The password key is always stripped:
// password changes go through a dedicated flow, never a generic update.
func (s *userService) Update(ctx context.Context, id string, fields map[string]any) (*domain.User, error) {
	delete(fields, "password")
	delete(fields, "_id")

	user, err := s.users.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return stripSecrets(user), nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func stripSecrets(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	clean := *user
	clean.PasswordHash = ""
	return &clean
}
