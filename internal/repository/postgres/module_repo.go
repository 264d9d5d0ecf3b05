package postgres

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/persona-keeper/internal/model"
)

// ModuleRepo implements PromptModuleRepository using PostgreSQL.
type ModuleRepo struct{ db *DB }

// NewModuleRepo constructs a prompt module repository.
func NewModuleRepo(db *DB) *ModuleRepo { return &ModuleRepo{db: db} }

// Create inserts a prompt module.
func (r *ModuleRepo) Create(ctx context.Context, m *model.PromptModule) error {
	const q = `
INSERT INTO prompt_modules (id, owner_id, module_type, name, content)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at`
	row := r.db.Pool.QueryRow(ctx, q, m.ID, m.Owner, string(m.Type), nullable(m.Name), m.Content)
	return mapErr(row.Scan(&m.CreatedAt))
}

// Link associates a module with a character.
func (r *ModuleRepo) Link(ctx context.Context, link model.CharacterModule) error {
	const q = `INSERT INTO character_modules (character_id, module_id) VALUES ($1, $2)`
	_, err := r.db.Pool.Exec(ctx, q, link.CharacterID, link.ModuleID)
	return mapErr(err)
}

// ListForCharacter joins through character_modules; both parents are owner-scoped.
// Modules come back in the order they were linked.
func (r *ModuleRepo) ListForCharacter(ctx context.Context, owner, characterID uuid.UUID) ([]model.PromptModule, error) {
	const q = `
SELECT m.id, m.owner_id, m.module_type, m.name, m.content, m.created_at
FROM character_modules cm
JOIN characters c ON c.id = cm.character_id
JOIN prompt_modules m ON m.id = cm.module_id
WHERE cm.character_id=$1 AND c.owner_id=$2 AND m.owner_id=$2
ORDER BY cm.link_seq ASC`
	rows, err := r.db.Pool.Query(ctx, q, characterID, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PromptModule{}
	for rows.Next() {
		var (
			m    model.PromptModule
			typ  string
			name *string
		)
		if err := rows.Scan(&m.ID, &m.Owner, &typ, &name, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Type = model.ModuleType(typ)
		m.Name = deref(name)
		out = append(out, m)
	}
	return out, rows.Err()
}
