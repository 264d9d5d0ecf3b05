package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/persona-keeper/internal/model"
)

// CredentialRepository stores sealed third-party credentials.
type CredentialRepository interface {
	// Create inserts c and fills CreatedAt. A (owner, service) clash yields errs.ErrAlreadyExists.
	Create(ctx context.Context, c *model.Credential) error
	// ExistsForService reports whether owner already has a credential for svc.
	ExistsForService(ctx context.Context, owner uuid.UUID, svc model.Service) (bool, error)
	// ListByOwner returns the ciphertext-free projection, newest first.
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]model.CredentialRecord, error)
	// DeleteOwned deletes id only if it belongs to owner and reports whether a row went away.
	DeleteOwned(ctx context.Context, owner, id uuid.UUID) (bool, error)
	// GetForService loads the sealed credential or returns errs.ErrNotFound.
	GetForService(ctx context.Context, owner uuid.UUID, svc model.Service) (*model.Credential, error)
}
