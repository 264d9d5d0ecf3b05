// Package convert maps domain models to and from PersonaService messages.
package convert

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"google.golang.org/protobuf/types/known/timestamppb"

	pb "github.com/and161185/persona-keeper/internal/api/personav1"
	"github.com/and161185/persona-keeper/internal/model"
)

func ts(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}

// ParseID parses a wire identifier, rejecting the nil UUID.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.FromString(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id: %w", err)
	}
	if id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("invalid id: nil uuid")
	}
	return id, nil
}

// --- Credentials ---

// ToWireCredential converts the ciphertext-free projection.
func ToWireCredential(r model.CredentialRecord) *pb.Credential {
	return &pb.Credential{ID: r.ID.String(), Service: string(r.Service), CreatedAt: ts(r.CreatedAt)}
}

func ToWireCredentials(rs []model.CredentialRecord) []*pb.Credential {
	out := make([]*pb.Credential, 0, len(rs))
	for _, r := range rs {
		out = append(out, ToWireCredential(r))
	}
	return out
}

// --- Characters ---

func ToWireCharacter(c model.Character) *pb.Character {
	return &pb.Character{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   ts(c.CreatedAt),
	}
}

func ToWireCharacters(cs []model.Character) []*pb.Character {
	out := make([]*pb.Character, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToWireCharacter(c))
	}
	return out
}

func ToWirePromptModule(m model.PromptModule) *pb.PromptModule {
	return &pb.PromptModule{
		ID:        m.ID.String(),
		Type:      string(m.Type),
		Name:      m.Name,
		Content:   m.Content,
		CreatedAt: ts(m.CreatedAt),
	}
}

// ToWireCharacterDetail converts a character with its linked modules.
func ToWireCharacterDetail(d model.CharacterDetail) *pb.GetCharacterResponse {
	mods := make([]*pb.PromptModule, 0, len(d.Modules))
	for _, m := range d.Modules {
		mods = append(mods, ToWirePromptModule(m))
	}
	return &pb.GetCharacterResponse{Character: ToWireCharacter(d.Character), Modules: mods}
}

// FromWireNewCharacter converts a creation request. Nil module entries are skipped.
func FromWireNewCharacter(in *pb.CreateCharacterRequest) model.NewCharacter {
	nc := model.NewCharacter{Name: in.GetName(), Description: in.GetDescription()}
	for _, m := range in.GetModules() {
		if m == nil {
			continue
		}
		nc.Modules = append(nc.Modules, model.ModuleInput{Type: m.GetType(), Name: m.GetName(), Content: m.GetContent()})
	}
	return nc
}
