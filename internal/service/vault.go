package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/persona-keeper/internal/errs"
	"github.com/and161185/persona-keeper/internal/model"
	"github.com/and161185/persona-keeper/internal/repository"
)

// Sealer encrypts and decrypts credential material. *crypto.Sealer implements it.
type Sealer interface {
	Seal(plaintext, aad []byte) ([]byte, error)
	Open(blob, aad []byte) ([]byte, error)
}

// VaultService stores third-party API keys encrypted at rest.
// None of its externally reachable methods return secret material.
type VaultService interface {
	// Store seals plaintext and persists it as owner's credential for svc.
	Store(ctx context.Context, owner uuid.UUID, svc, plaintext string) (model.CredentialRecord, error)
	// List returns owner's credentials, newest first, without ciphertext.
	List(ctx context.Context, owner uuid.UUID) ([]model.CredentialRecord, error)
	// Remove deletes owner's credential id; a missing or foreign id is a silent no-op.
	Remove(ctx context.Context, owner, id uuid.UUID) error
}

var _ VaultService = (*Vault)(nil)

// Vault implements VaultService and the internal-only Reveal.
type Vault struct {
	repo   repository.CredentialRepository
	sealer Sealer
}

// NewVault constructs a vault. The sealer carries the master-key-derived key.
func NewVault(repo repository.CredentialRepository, sealer Sealer) *Vault {
	return &Vault{repo: repo, sealer: sealer}
}

// credentialAAD binds a ciphertext to its owner and service slot.
func credentialAAD(owner uuid.UUID, svc model.Service) []byte {
	aad := make([]byte, 0, len(owner)+1+len(svc))
	aad = append(aad, owner.Bytes()...)
	aad = append(aad, '|')
	return append(aad, string(svc)...)
}

// Store validates input, rejects duplicates before doing crypto work, seals
// and inserts. The unique constraint catches a racing insert.
func (v *Vault) Store(ctx context.Context, owner uuid.UUID, svc, plaintext string) (model.CredentialRecord, error) {
	if owner == uuid.Nil {
		return model.CredentialRecord{}, errs.ErrUnauthenticated
	}
	service, err := model.ParseService(svc)
	if err != nil {
		return model.CredentialRecord{}, err
	}
	if strings.TrimSpace(plaintext) == "" {
		return model.CredentialRecord{}, fmt.Errorf("%w: empty api key", errs.ErrValidation)
	}

	exists, err := v.repo.ExistsForService(ctx, owner, service)
	if err != nil {
		return model.CredentialRecord{}, fmt.Errorf("%w: check existing: %w", errs.ErrPersistence, err)
	}
	if exists {
		return model.CredentialRecord{}, errs.ErrDuplicateCredential
	}

	blob, err := v.sealer.Seal([]byte(plaintext), credentialAAD(owner, service))
	if err != nil {
		if !errors.Is(err, errs.ErrCrypto) {
			err = fmt.Errorf("%w: %w", errs.ErrCrypto, err)
		}
		return model.CredentialRecord{}, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return model.CredentialRecord{}, err
	}
	c := &model.Credential{ID: id, Owner: owner, Service: service, Ciphertext: blob}
	if err := v.repo.Create(ctx, c); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return model.CredentialRecord{}, errs.ErrDuplicateCredential
		}
		return model.CredentialRecord{}, fmt.Errorf("%w: insert credential: %w", errs.ErrPersistence, err)
	}
	return model.CredentialRecord{ID: c.ID, Service: c.Service, CreatedAt: c.CreatedAt}, nil
}

// List returns the projection of owner's credentials.
func (v *Vault) List(ctx context.Context, owner uuid.UUID) ([]model.CredentialRecord, error) {
	if owner == uuid.Nil {
		return nil, errs.ErrUnauthenticated
	}
	out, err := v.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: list credentials: %w", errs.ErrPersistence, err)
	}
	return out, nil
}

// Remove issues one owner-scoped delete. Whether a row matched is not reported.
func (v *Vault) Remove(ctx context.Context, owner, id uuid.UUID) error {
	if owner == uuid.Nil {
		return errs.ErrUnauthenticated
	}
	if id == uuid.Nil {
		return fmt.Errorf("%w: empty credential id", errs.ErrValidation)
	}
	if _, err := v.repo.DeleteOwned(ctx, owner, id); err != nil {
		return fmt.Errorf("%w: delete credential: %w", errs.ErrPersistence, err)
	}
	return nil
}

// Reveal decrypts owner's credential for svc for outbound provider calls.
// It returns ok=false with a nil error when no credential exists. It must
// not be wired to any externally facing handler.
func (v *Vault) Reveal(ctx context.Context, owner uuid.UUID, svc model.Service) (string, bool, error) {
	if owner == uuid.Nil {
		return "", false, errs.ErrUnauthenticated
	}
	if !svc.Valid() {
		return "", false, fmt.Errorf("%w: unknown service %q", errs.ErrValidation, svc)
	}
	c, err := v.repo.GetForService(ctx, owner, svc)
	if errors.Is(err, errs.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: load credential: %w", errs.ErrPersistence, err)
	}
	pt, err := v.sealer.Open(c.Ciphertext, credentialAAD(owner, svc))
	if err != nil {
		if !errors.Is(err, errs.ErrCrypto) {
			err = fmt.Errorf("%w: %w", errs.ErrCrypto, err)
		}
		return "", false, err
	}
	return string(pt), true, nil
}
