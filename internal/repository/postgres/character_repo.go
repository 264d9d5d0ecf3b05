package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/persona-keeper/internal/model"
)

// CharacterRepo implements CharacterRepository using PostgreSQL.
type CharacterRepo struct{ db *DB }

// NewCharacterRepo constructs a character repository.
func NewCharacterRepo(db *DB) *CharacterRepo { return &CharacterRepo{db: db} }

// Create inserts a character shell.
func (r *CharacterRepo) Create(ctx context.Context, c *model.Character) error {
	const q = `
INSERT INTO characters (id, owner_id, name, description)
VALUES ($1, $2, $3, $4)
RETURNING created_at`
	row := r.db.Pool.QueryRow(ctx, q, c.ID, c.Owner, c.Name, nullable(c.Description))
	return mapErr(row.Scan(&c.CreatedAt))
}

// ListByOwner returns owner's characters, newest first.
func (r *CharacterRepo) ListByOwner(ctx context.Context, owner uuid.UUID) ([]model.Character, error) {
	const q = `
SELECT id, owner_id, name, description, created_at
FROM characters
WHERE owner_id=$1
ORDER BY created_at DESC, id`
	rows, err := r.db.Pool.Query(ctx, q, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Character{}
	for rows.Next() {
		var (
			c    model.Character
			desc *string
		)
		if err := rows.Scan(&c.ID, &c.Owner, &c.Name, &desc, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Description = deref(desc)
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetOwned loads one of owner's characters.
func (r *CharacterRepo) GetOwned(ctx context.Context, owner, id uuid.UUID) (*model.Character, error) {
	const q = `
SELECT id, owner_id, name, description, created_at
FROM characters WHERE id=$1 AND owner_id=$2`
	var (
		c    model.Character
		desc *string
	)
	if err := r.db.Pool.QueryRow(ctx, q, id, owner).Scan(&c.ID, &c.Owner, &c.Name, &desc, &c.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	c.Description = deref(desc)
	return &c, nil
}
