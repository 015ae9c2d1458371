package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/estatehub/estatehub-admin/internal/crypto"
	"github.com/estatehub/estatehub-admin/internal/model"
	"github.com/estatehub/estatehub-admin/internal/repository"
)

// AuthService handles admin sign-in for the panel.
type AuthService struct {
	repo      *repository.UserRepository
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.UserRepository, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		repo:      repo,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Authenticate checks admin credentials. Unknown emails, wrong passwords
// and non-admin accounts all yield ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (model.Actor, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return model.Actor{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.Actor{}, ErrInvalidCredentials
		}
		return model.Actor{}, err
	}

	match, err := crypto.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return model.Actor{}, err
	}
	if !match || user.UserType != model.UserTypeAdmin {
		return model.Actor{}, ErrInvalidCredentials
	}

	return model.Actor{UserID: user.ID, Email: user.Email}, nil
}

// Login authenticates an admin and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, model.Actor, error) {
	actor, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", model.Actor{}, err
	}

	token, err := crypto.GenerateToken(actor.UserID, actor.Email, string(model.UserTypeAdmin), s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return "", model.Actor{}, err
	}
	return token, actor, nil
}

// SessionTTL is how long issued session tokens stay valid.
func (s *AuthService) SessionTTL() time.Duration {
	return s.jwtExpiry
}
