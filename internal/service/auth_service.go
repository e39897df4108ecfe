package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/health-tracker/internal/repository"
	"github.com/iliyamo/health-tracker/internal/utils"
)

// invalidCredentials is shared by every login failure so the response never
// reveals whether the email exists.
const invalidCredentials = "invalid credentials"

// AuthService registers users and issues access tokens.
type AuthService struct {
	users      UserStore
	secret     string
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(users UserStore, secret string, tokenTTL time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		secret:     secret,
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a user and returns its id.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (uint64, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return 0, NewValidationError("name, email and password are required")
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return 0, NewConflictError("email already registered")
	case !errors.Is(err, repository.ErrNotFound):
		return 0, err
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	id, err := s.users.Create(ctx, name, email, hash)
	if errors.Is(err, repository.ErrEmailExists) {
		// lost a race with a concurrent registration
		return 0, NewConflictError("email already registered")
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Login verifies credentials and returns a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (utils.AccessToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return utils.AccessToken{}, NewValidationError("email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.AccessToken{}, NewAuthError(invalidCredentials)
	}
	if err != nil {
		return utils.AccessToken{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return utils.AccessToken{}, NewAuthError(invalidCredentials)
	}

	tok, err := utils.NewAccessToken(s.secret, u.ID, s.tokenTTL, s.now())
	if err != nil {
		return utils.AccessToken{}, fmt.Errorf("sign token: %w", err)
	}
	return tok, nil
}

// Authenticate resolves a raw bearer token to a user id.
func (s *AuthService) Authenticate(raw string) (uint64, error) {
	uid, err := utils.ParseAccessToken(s.secret, raw)
	if err != nil {
		return 0, NewAuthError("invalid token")
	}
	return uid, nil
}
