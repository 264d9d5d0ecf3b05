// Package outbound attaches stored provider credentials to requests made on
// a user's behalf to third-party AI APIs.
package outbound

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/persona-keeper/internal/model"
)

// ErrNoCredential means the user has not stored a key for the provider.
var ErrNoCredential = errors.New("no credential stored for service")

// AnthropicVersion is sent with every Claude request.
const AnthropicVersion = "2023-06-01"

// Revealer decrypts a stored credential. *service.Vault implements it.
type Revealer interface {
	Reveal(ctx context.Context, owner uuid.UUID, svc model.Service) (string, bool, error)
}

// Authorizer sets provider-specific auth headers from the vault.
type Authorizer struct {
	vault Revealer
}

func NewAuthorizer(v Revealer) *Authorizer {
	return &Authorizer{vault: v}
}

// Authorize decrypts owner's key for svc and puts it on req.
func (a *Authorizer) Authorize(ctx context.Context, owner uuid.UUID, svc model.Service, req *http.Request) error {
	key, ok, err := a.vault.Reveal(ctx, owner, svc)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoCredential, svc)
	}
	switch svc {
	case model.ServiceOpenAI, model.ServiceDeepSeek:
		req.Header.Set("Authorization", "Bearer "+key)
	case model.ServiceClaude:
		req.Header.Set("x-api-key", key)
		req.Header.Set("anthropic-version", AnthropicVersion)
	case model.ServiceGemini:
		req.Header.Set("x-goog-api-key", key)
	}
	return nil
}

// BaseURL returns the API root of a provider.
func BaseURL(svc model.Service) string {
	switch svc {
	case model.ServiceOpenAI:
		return "https://api.openai.com/v1"
	case model.ServiceClaude:
		return "https://api.anthropic.com/v1"
	case model.ServiceGemini:
		return "https://generativelanguage.googleapis.com/v1beta"
	case model.ServiceDeepSeek:
		return "https://api.deepseek.com"
	}
	return ""
}
