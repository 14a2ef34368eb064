package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/Jomkit/KitchenSync/internal/auth"
	"github.com/Jomkit/KitchenSync/internal/repository"
	apperrors "github.com/Jomkit/KitchenSync/pkg/errors"
)

// AuthService authenticates users and issues access tokens.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.Manager
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(users repository.UserRepository, tokens *auth.Manager, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Login verifies the credentials and returns a signed access token. A
// missing user and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.Unauthorized("Invalid credentials")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", apperrors.Internal(err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role),
	)

	return token, nil
}
