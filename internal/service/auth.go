package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"lessonbook/internal/repository"
)

// AuthService gates the bot behind a shared password. The Telegram user ID
// of an authorized user is the owner ID for everything they import.
type AuthService struct {
	userRepo    repository.UserRepository
	botPassword string
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repository.UserRepository, botPassword string) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		botPassword: botPassword,
	}
}

// CheckPassword verifies the submitted password, ignoring surrounding whitespace
func (s *AuthService) CheckPassword(password string) bool {
	if s.botPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(password)), []byte(s.botPassword)) == 1
}

// IsAuthorized checks if user is authorized
func (s *AuthService) IsAuthorized(ctx context.Context, userID int64) (bool, error) {
	ok, err := s.userRepo.IsAuthorized(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("check authorization: %w", err)
	}
	return ok, nil
}

// AuthorizeUser authorizes a user
func (s *AuthService) AuthorizeUser(ctx context.Context, userID int64) error {
	if err := s.userRepo.AuthorizeUser(ctx, userID); err != nil {
		return fmt.Errorf("authorize: %w", err)
	}
	return nil
}

// EnsureUserExists creates user record if doesn't exist
func (s *AuthService) EnsureUserExists(ctx context.Context, userID int64) error {
	if err := s.userRepo.EnsureUserExists(ctx, userID); err != nil {
		return fmt.Errorf("register user: %w", err)
	}
	return nil
}
