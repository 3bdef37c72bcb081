package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/solvesphere/solvesphere/internal/domain"
)

// ErrEmailTaken is returned when signing up with a registered email.
var ErrEmailTaken = fmt.Errorf("email already registered")

// ErrBadCredentials is returned when sign-in fails. The message never
// says whether the email or the password was wrong.
var ErrBadCredentials = fmt.Errorf("invalid email or password")

// Signup creates an account and returns a signed token.
func (s *Service) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		return nil, fmt.Errorf("display name is required")
	}

	existing, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		UserID:       newID("user"),
		Email:        email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.auth.IssueToken(user.UserID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{Token: token, User: user}, nil
}

// Signin verifies credentials and returns a signed token.
func (s *Service) Signin(ctx context.Context, req *domain.SigninRequest) (*domain.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || !s.auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, ErrBadCredentials
	}

	token, err := s.auth.IssueToken(user.UserID, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{Token: token, User: user}, nil
}

// GetUser retrieves a user.
func (s *Service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.GetUser(ctx, userID)
}

// UpdateProfile edits the caller's own profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update *domain.User) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	if update.DisplayName != "" {
		user.DisplayName = update.DisplayName
	}
	if update.AvatarURL != "" {
		user.AvatarURL = update.AvatarURL
	}
	if update.Bio != "" {
		user.Bio = update.Bio
	}
	user.UpdatedAt = time.Now()

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
