// Package service contains the application services: auth, the credential
// vault and character composition.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	pkgcrypto "github.com/and161185/persona-keeper/internal/crypto"
	"github.com/and161185/persona-keeper/internal/errs"
	"github.com/and161185/persona-keeper/internal/limiter"
	"github.com/and161185/persona-keeper/internal/model"
	"github.com/and161185/persona-keeper/internal/repository"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (model.Tokens, error)
}

// AuthService defines registration and login of the local auth provider.
type AuthService interface {
	// Register creates a new user with secure password hashing.
	Register(ctx context.Context, email, password string) (userID string, err error)
	// Login applies rate limiting by (email, ip) and issues an access token.
	Login(ctx context.Context, email, password, ip string) (model.Tokens, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	tokens TokenIssuer
	lim    limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tokens TokenIssuer, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tokens: tokens, lim: lim}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user record with a per-user salt.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" || !strings.Contains(email, "@") {
		return "", fmt.Errorf("%w: email and password are required", errs.ErrValidation)
	}
	uid, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	hash, salt, err := pkgcrypto.HashPassword([]byte(password))
	if err != nil {
		return "", err
	}
	u := &model.User{ID: uid, Email: email, PwdHash: hash, PwdSalt: salt}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return "", err
		}
		return "", fmt.Errorf("%w: create user: %w", errs.ErrPersistence, err)
	}
	return uid.String(), nil
}

// Login authenticates with rate limiting by (email, ip).
func (s *AuthServiceImpl) Login(ctx context.Context, email, password, ip string) (model.Tokens, error) {
	email = normalizeEmail(email)
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Tokens{}, fmt.Errorf("%w: limiter: %w", errs.ErrPersistence, err)
	}
	if !allowed {
		return model.Tokens{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return model.Tokens{}, fmt.Errorf("%w: get user: %w", errs.ErrPersistence, err)
	}
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), u.PwdSalt, u.PwdHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Tokens{}, errs.ErrRateLimited
		}
		// unknown email and wrong password look the same to the caller
		return model.Tokens{}, errs.ErrUnauthenticated
	}

	// best-effort reset
	_ = s.lim.Success(ctx, email, ipHash)

	return s.tokens.Issue(u.ID)
}
