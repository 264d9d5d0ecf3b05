package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/persona-keeper/internal/model"
)

// CredentialRepo implements CredentialRepository using PostgreSQL.
type CredentialRepo struct{ db *DB }

// NewCredentialRepo constructs a credential repository.
func NewCredentialRepo(db *DB) *CredentialRepo { return &CredentialRepo{db: db} }

// Create inserts a sealed credential. The (owner_id, service) unique
// constraint backstops the service-level duplicate check.
func (r *CredentialRepo) Create(ctx context.Context, c *model.Credential) error {
	const q = `
INSERT INTO credentials (id, owner_id, service, ciphertext)
VALUES ($1, $2, $3, $4)
RETURNING created_at`
	row := r.db.Pool.QueryRow(ctx, q, c.ID, c.Owner, string(c.Service), c.Ciphertext)
	return mapErr(row.Scan(&c.CreatedAt))
}

// ExistsForService reports whether owner already stores a credential for svc.
func (r *CredentialRepo) ExistsForService(ctx context.Context, owner uuid.UUID, svc model.Service) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM credentials WHERE owner_id=$1 AND service=$2)`
	var ok bool
	if err := r.db.Pool.QueryRow(ctx, q, owner, string(svc)).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// ListByOwner selects only id, service and created_at; ciphertext never leaves the table here.
func (r *CredentialRepo) ListByOwner(ctx context.Context, owner uuid.UUID) ([]model.CredentialRecord, error) {
	const q = `
SELECT id, service, created_at
FROM credentials
WHERE owner_id=$1
ORDER BY created_at DESC, id`
	rows, err := r.db.Pool.Query(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.CredentialRecord{}
	for rows.Next() {
		var (
			rec model.CredentialRecord
			svc string
		)
		if err := rows.Scan(&rec.ID, &svc, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Service = model.Service(svc)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteOwned removes the row only when both id and owner match.
func (r *CredentialRepo) DeleteOwned(ctx context.Context, owner, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM credentials WHERE id=$1 AND owner_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, owner)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// GetForService loads the sealed credential for (owner, svc).
func (r *CredentialRepo) GetForService(ctx context.Context, owner uuid.UUID, svc model.Service) (*model.Credential, error) {
	const q = `
SELECT id, owner_id, service, ciphertext, created_at
FROM credentials WHERE owner_id=$1 AND service=$2`
	var (
		c model.Credential
		s string
	)
	err := r.db.Pool.QueryRow(ctx, q, owner, string(svc)).Scan(&c.ID, &c.Owner, &s, &c.Ciphertext, &c.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	c.Service = model.Service(s)
	return &c, nil
}
