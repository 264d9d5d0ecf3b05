// Package personav1 describes the persona.v1.PersonaService gRPC API: its
// messages, service descriptor, client and wire codec.
package personav1

import "google.golang.org/protobuf/types/known/timestamppb"

type RegisterRequest struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

func (x *RegisterRequest) GetEmail() string {
	if x != nil {
		return x.Email
	}
	return ""
}

func (x *RegisterRequest) GetPassword() string {
	if x != nil {
		return x.Password
	}
	return ""
}

type RegisterResponse struct {
	UserID string `json:"user_id,omitempty"`
}

func (x *RegisterResponse) GetUserID() string {
	if x != nil {
		return x.UserID
	}
	return ""
}

type LoginRequest struct {
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

func (x *LoginRequest) GetEmail() string {
	if x != nil {
		return x.Email
	}
	return ""
}

func (x *LoginRequest) GetPassword() string {
	if x != nil {
		return x.Password
	}
	return ""
}

type LoginResponse struct {
	AccessToken string                 `json:"access_token,omitempty"`
	ExpiresAt   *timestamppb.Timestamp `json:"expires_at,omitempty"`
}

func (x *LoginResponse) GetAccessToken() string {
	if x != nil {
		return x.AccessToken
	}
	return ""
}

func (x *LoginResponse) GetExpiresAt() *timestamppb.Timestamp {
	if x != nil {
		return x.ExpiresAt
	}
	return nil
}

// Credential is the listing view of a stored API key. It never carries key material.
type Credential struct {
	ID        string                 `json:"id,omitempty"`
	Service   string                 `json:"service,omitempty"`
	CreatedAt *timestamppb.Timestamp `json:"created_at,omitempty"`
}

func (x *Credential) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

func (x *Credential) GetService() string {
	if x != nil {
		return x.Service
	}
	return ""
}

func (x *Credential) GetCreatedAt() *timestamppb.Timestamp {
	if x != nil {
		return x.CreatedAt
	}
	return nil
}

type AddCredentialRequest struct {
	Service string `json:"service,omitempty"`
	APIKey  string `json:"api_key,omitempty"`
}

func (x *AddCredentialRequest) GetService() string {
	if x != nil {
		return x.Service
	}
	return ""
}

func (x *AddCredentialRequest) GetAPIKey() string {
	if x != nil {
		return x.APIKey
	}
	return ""
}

type AddCredentialResponse struct {
	Credential *Credential `json:"credential,omitempty"`
}

func (x *AddCredentialResponse) GetCredential() *Credential {
	if x != nil {
		return x.Credential
	}
	return nil
}

type ListCredentialsRequest struct{}

type ListCredentialsResponse struct {
	Credentials []*Credential `json:"credentials,omitempty"`
}

func (x *ListCredentialsResponse) GetCredentials() []*Credential {
	if x != nil {
		return x.Credentials
	}
	return nil
}

type RemoveCredentialRequest struct {
	ID string `json:"id,omitempty"`
}

func (x *RemoveCredentialRequest) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

type RemoveCredentialResponse struct{}

type ModuleInput struct {
	Type    string `json:"type,omitempty"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
}

func (x *ModuleInput) GetType() string {
	if x != nil {
		return x.Type
	}
	return ""
}

func (x *ModuleInput) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *ModuleInput) GetContent() string {
	if x != nil {
		return x.Content
	}
	return ""
}

type Character struct {
	ID          string                 `json:"id,omitempty"`
	Name        string                 `json:"name,omitempty"`
	Description string                 `json:"description,omitempty"`
	CreatedAt   *timestamppb.Timestamp `json:"created_at,omitempty"`
}

func (x *Character) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

func (x *Character) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *Character) GetDescription() string {
	if x != nil {
		return x.Description
	}
	return ""
}

func (x *Character) GetCreatedAt() *timestamppb.Timestamp {
	if x != nil {
		return x.CreatedAt
	}
	return nil
}

type PromptModule struct {
	ID        string                 `json:"id,omitempty"`
	Type      string                 `json:"type,omitempty"`
	Name      string                 `json:"name,omitempty"`
	Content   string                 `json:"content,omitempty"`
	CreatedAt *timestamppb.Timestamp `json:"created_at,omitempty"`
}

func (x *PromptModule) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

func (x *PromptModule) GetType() string {
	if x != nil {
		return x.Type
	}
	return ""
}

func (x *PromptModule) GetContent() string {
	if x != nil {
		return x.Content
	}
	return ""
}

type CreateCharacterRequest struct {
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Modules     []*ModuleInput `json:"modules,omitempty"`
}

func (x *CreateCharacterRequest) GetName() string {
	if x != nil {
		return x.Name
	}
	return ""
}

func (x *CreateCharacterRequest) GetDescription() string {
	if x != nil {
		return x.Description
	}
	return ""
}

func (x *CreateCharacterRequest) GetModules() []*ModuleInput {
	if x != nil {
		return x.Modules
	}
	return nil
}

type CreateCharacterResponse struct {
	Character *Character `json:"character,omitempty"`
}

func (x *CreateCharacterResponse) GetCharacter() *Character {
	if x != nil {
		return x.Character
	}
	return nil
}

type ListCharactersRequest struct{}

type ListCharactersResponse struct {
	Characters []*Character `json:"characters,omitempty"`
}

func (x *ListCharactersResponse) GetCharacters() []*Character {
	if x != nil {
		return x.Characters
	}
	return nil
}

type GetCharacterRequest struct {
	ID string `json:"id,omitempty"`
}

func (x *GetCharacterRequest) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

type GetCharacterResponse struct {
	Character *Character      `json:"character,omitempty"`
	Modules   []*PromptModule `json:"modules,omitempty"`
}

func (x *GetCharacterResponse) GetCharacter() *Character {
	if x != nil {
		return x.Character
	}
	return nil
}

func (x *GetCharacterResponse) GetModules() []*PromptModule {
	if x != nil {
		return x.Modules
	}
	return nil
}
