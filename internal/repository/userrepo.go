// Package repository defines storage interfaces implemented by concrete backends.
// Every owned-entity method takes the acting owner as a mandatory predicate.
package repository

import (
	"context"

	"github.com/and161185/persona-keeper/internal/model"
)

// UserRepository stores accounts of the local auth provider.
type UserRepository interface {
	// Create inserts a new user; a taken email yields errs.ErrAlreadyExists.
	Create(ctx context.Context, u *model.User) error
	// GetByEmail loads a user by normalized email or returns errs.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}
