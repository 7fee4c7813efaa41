// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/evntly/event-platform/internal/auth"
	"github.com/evntly/event-platform/internal/model"
	"github.com/evntly/event-platform/internal/repository"
)

// ErrInvalidCredentials is returned on a failed login or password check.
var ErrInvalidCredentials = errors.New("invalid email or password")

const minPasswordLength = 6

// AuthService handles signup, login, and profile management.
type AuthService struct {
	users  repository.UserStore
	tokens *auth.TokenManager
}

// NewAuthService constructs an AuthService with its dependencies.
func NewAuthService(users repository.UserStore, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Signup validates the request, creates the account, and issues a token.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.AuthResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if req.Name == "" {
		return nil, invalidf("name is required")
	}
	if !isValidEmail(req.Email) {
		return nil, invalidf("a valid email is required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, invalidf("password must be at least %d characters", minPasswordLength)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, req.Name, req.Email, hash)
	if err != nil {
		return nil, err
	}
	return s.respondWithToken(user)
}

// Login authenticates by email and password and issues a token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, invalidf("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.respondWithToken(user)
}

// CurrentUser returns the authenticated user's account.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile edits the caller's name and email.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if req.Name == "" {
		return nil, invalidf("name is required")
	}
	if !isValidEmail(req.Email) {
		return nil, invalidf("a valid email is required")
	}
	return s.users.UpdateProfile(ctx, userID, req.Name, req.Email)
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req model.ChangePasswordRequest) error {
	if len(req.NewPassword) < minPasswordLength {
		return invalidf("new password must be at least %d characters", minPasswordLength)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

func (s *AuthService) respondWithToken(user *model.User) (*model.AuthResponse, error) {
	token, err := s.tokens.Mint(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.AuthResponse{Token: token, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// isValidEmail does a basic structural check (no external deps).
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
