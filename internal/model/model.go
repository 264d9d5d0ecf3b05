// Package model defines domain entities used by services and repositories.
package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/persona-keeper/internal/errs"
)

// Service identifies a third-party AI provider a credential belongs to.
type Service string

const (
	ServiceOpenAI   Service = "openai"
	ServiceClaude   Service = "claude"
	ServiceGemini   Service = "gemini"
	ServiceDeepSeek Service = "deepseek"
)

// Services lists every recognized provider in display order.
var Services = []Service{ServiceDeepSeek, ServiceGemini, ServiceOpenAI, ServiceClaude}

// ParseService normalizes s and reports errs.ErrValidation for unknown providers.
func ParseService(s string) (Service, error) {
	svc := Service(strings.ToLower(strings.TrimSpace(s)))
	if !svc.Valid() {
		return "", fmt.Errorf("%w: unknown service %q", errs.ErrValidation, s)
	}
	return svc, nil
}

// Valid reports whether the service is one of the recognized providers.
func (s Service) Valid() bool {
	switch s {
	case ServiceOpenAI, ServiceClaude, ServiceGemini, ServiceDeepSeek:
		return true
	}
	return false
}

// ModuleType tags the role a prompt module plays inside a character.
type ModuleType string

const (
	ModuleCharacterSetting    ModuleType = "character-setting"
	ModuleNotes               ModuleType = "notes"
	ModuleSpecialRequirements ModuleType = "special-requirements"
)

// ParseModuleType normalizes s and reports errs.ErrValidation for unknown types.
func ParseModuleType(s string) (ModuleType, error) {
	mt := ModuleType(strings.ToLower(strings.TrimSpace(s)))
	if !mt.Valid() {
		return "", fmt.Errorf("%w: unknown module type %q", errs.ErrValidation, s)
	}
	return mt, nil
}

// Valid reports whether the module type is recognized.
func (m ModuleType) Valid() bool {
	switch m {
	case ModuleCharacterSetting, ModuleNotes, ModuleSpecialRequirements:
		return true
	}
	return false
}

// Tokens collects an issued access token and its expiry.
type Tokens struct {
	AccessToken string
	ExpiresAt   time.Time
}

// User represents an account of the local auth provider. Passwords are never stored in plaintext.
type User struct {
	ID        uuid.UUID
	Email     string // unique, lower-cased
	PwdHash   []byte // Argon2id(password, PwdSalt)
	PwdSalt   []byte
	CreatedAt time.Time
}

// Credential is a stored third-party API key. Ciphertext is an opaque sealed blob.
type Credential struct {
	ID         uuid.UUID
	Owner      uuid.UUID
	Service    Service
	Ciphertext []byte
	CreatedAt  time.Time
}

// CredentialRecord is the caller-visible projection of a Credential.
// It has no secret material by construction.
type CredentialRecord struct {
	ID        uuid.UUID
	Service   Service
	CreatedAt time.Time
}

// Character is a named AI persona, the aggregate root for prompt modules.
type Character struct {
	ID          uuid.UUID
	Owner       uuid.UUID
	Name        string
	Description string // empty means absent
	CreatedAt   time.Time
}

// PromptModule is an independently owned block of character-defining text.
type PromptModule struct {
	ID        uuid.UUID
	Owner     uuid.UUID
	Type      ModuleType
	Name      string // empty means absent
	Content   string
	CreatedAt time.Time
}

// CharacterModule links a Character to a PromptModule.
type CharacterModule struct {
	CharacterID uuid.UUID
	ModuleID    uuid.UUID
}

// ModuleInput is one module payload supplied at character creation.
type ModuleInput struct {
	Type    string
	Name    string
	Content string
}

// NewCharacter is the creation request for a character and its modules.
type NewCharacter struct {
	Name        string
	Description string
	Modules     []ModuleInput
}

// CharacterDetail is a character together with its linked modules.
type CharacterDetail struct {
	Character Character
	Modules   []PromptModule
}
