// Package auth issues and resolves bearer access tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/persona-keeper/internal/errs"
	"github.com/and161185/persona-keeper/internal/model"
)

// Resolver maps a bearer token to the acting user identity.
type Resolver interface {
	// Resolve returns the user ID or an error wrapping errs.ErrUnauthenticated.
	Resolve(token string) (uuid.UUID, error)
}

// Tokens issues and verifies HS256 JWT access tokens.
type Tokens struct {
	signKey []byte
	ttl     time.Duration
	leeway  time.Duration
	now     func() time.Time
}

// NewTokens constructs a token issuer/resolver.
func NewTokens(signKey []byte, ttl time.Duration) *Tokens {
	return &Tokens{signKey: signKey, ttl: ttl, leeway: 30 * time.Second, now: time.Now}
}

// Issue creates a signed HS256 JWT for the given subject.
func (t *Tokens) Issue(userID uuid.UUID) (model.Tokens, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.signKey)
	if err != nil {
		return model.Tokens{}, err
	}
	return model.Tokens{AccessToken: signed, ExpiresAt: exp}, nil
}

// Resolve verifies signature, algorithm and time claims, and returns sub as UUID.
func (t *Tokens) Resolve(token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, fmt.Errorf("%w: empty token", errs.ErrUnauthenticated)
	}
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tk *jwt.Token) (any, error) {
		if tk.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return t.signKey, nil
	},
		jwt.WithLeeway(t.leeway),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("%w: invalid token", errs.ErrUnauthenticated)
	}

	id, err := uuid.FromString(claims.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", errs.ErrUnauthenticated)
	}
	return id, nil
}
