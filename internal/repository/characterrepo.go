package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/persona-keeper/internal/model"
)

// CharacterRepository stores character shells.
type CharacterRepository interface {
	// Create inserts the shell and fills CreatedAt.
	Create(ctx context.Context, c *model.Character) error
	// ListByOwner returns owner's characters, newest first.
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]model.Character, error)
	// GetOwned loads one character of owner or returns errs.ErrNotFound.
	GetOwned(ctx context.Context, owner, id uuid.UUID) (*model.Character, error)
}

// PromptModuleRepository stores prompt modules and their character links.
type PromptModuleRepository interface {
	// Create inserts a module and fills CreatedAt.
	Create(ctx context.Context, m *model.PromptModule) error
	// Link inserts a character/module association row.
	Link(ctx context.Context, link model.CharacterModule) error
	// ListForCharacter returns owner's modules linked to characterID, oldest first.
	ListForCharacter(ctx context.Context, owner, characterID uuid.UUID) ([]model.PromptModule, error)
}
