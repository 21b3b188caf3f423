package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-hrv-engine/internal/core/domain"
)

type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

type AuthService struct {
	repo   domain.UserRepository
	tokens TokenIssuer
}

func NewAuthService(repo domain.UserRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{
		repo:   repo,
		tokens: tokens,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	id := uuid.NewString()
	user, err := domain.NewUser(id, input.Email)
	if err != nil {
		return nil, err
	}

	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("auth service: failed to create user: %w", err)
	}

	return user, nil
}

// Login returns a signed token. Unknown emails and wrong passwords both map
// to ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth service: failed to load user: %w", err)
	}

	if err := user.CheckPassword(input.Password); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.tokens.GenerateToken(user.ID)
}
