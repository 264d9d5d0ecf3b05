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

// CharacterService composes characters out of prompt modules.
type CharacterService interface {
	// CreateCharacter inserts the character shell, then its modules and links
	// best-effort. Only the shell write decides success.
	CreateCharacter(ctx context.Context, owner uuid.UUID, in model.NewCharacter) (model.Character, error)
	// ListCharacters returns owner's characters, newest first.
	ListCharacters(ctx context.Context, owner uuid.UUID) ([]model.Character, error)
	// GetCharacter returns one of owner's characters with its linked modules.
	GetCharacter(ctx context.Context, owner, id uuid.UUID) (model.CharacterDetail, error)
}

type CharacterServiceImpl struct {
	chars   repository.CharacterRepository
	modules repository.PromptModuleRepository
	sink    ReportSink
}

var _ CharacterService = (*CharacterServiceImpl)(nil)

// NewCharacterService constructs the service. A nil sink discards reports.
func NewCharacterService(chars repository.CharacterRepository, modules repository.PromptModuleRepository, sink ReportSink) *CharacterServiceImpl {
	if sink == nil {
		sink = nopSink{}
	}
	return &CharacterServiceImpl{chars: chars, modules: modules, sink: sink}
}

type plannedModule struct {
	index int
	typ   model.ModuleType
	name  string
	body  string
}

// planModules drops blank inputs and validates the type of the rest.
func planModules(in []model.ModuleInput) ([]plannedModule, int, error) {
	var (
		out     []plannedModule
		dropped int
	)
	for i, m := range in {
		body := strings.TrimSpace(m.Content)
		if body == "" {
			dropped++
			continue
		}
		mt, err := model.ParseModuleType(m.Type)
		if err != nil {
			return nil, 0, fmt.Errorf("module %d: %w", i, err)
		}
		out = append(out, plannedModule{index: i, typ: mt, name: strings.TrimSpace(m.Name), body: body})
	}
	return out, dropped, nil
}

func (s *CharacterServiceImpl) CreateCharacter(ctx context.Context, owner uuid.UUID, in model.NewCharacter) (model.Character, error) {
	if owner == uuid.Nil {
		return model.Character{}, errs.ErrUnauthenticated
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Character{}, fmt.Errorf("%w: character name is required", errs.ErrValidation)
	}
	plan, dropped, err := planModules(in.Modules)
	if err != nil {
		return model.Character{}, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return model.Character{}, err
	}
	c := &model.Character{ID: id, Owner: owner, Name: name, Description: strings.TrimSpace(in.Description)}
	if err := s.chars.Create(ctx, c); err != nil {
		return model.Character{}, fmt.Errorf("%w: insert character: %w", errs.ErrPersistence, err)
	}

	rep := CompositionReport{
		CharacterID: c.ID,
		Owner:       owner,
		Requested:   len(in.Modules),
		Dropped:     dropped,
	}
	for _, p := range plan {
		mid, err := s.addModule(ctx, c, p)
		if err != nil {
			var mf ModuleFailure
			if errors.As(err, &mf) {
				rep.Failures = append(rep.Failures, mf)
			}
			continue
		}
		rep.Linked = append(rep.Linked, mid)
	}
	s.sink.Report(ctx, rep)

	return *c, nil
}

// addModule inserts one module and its link, returning a ModuleFailure on error.
func (s *CharacterServiceImpl) addModule(ctx context.Context, c *model.Character, p plannedModule) (uuid.UUID, error) {
	mid, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, ModuleFailure{Index: p.index, Type: p.typ, Stage: StageModule, Err: err}
	}
	m := &model.PromptModule{ID: mid, Owner: c.Owner, Type: p.typ, Name: p.name, Content: p.body}
	if err := s.modules.Create(ctx, m); err != nil {
		return uuid.Nil, ModuleFailure{Index: p.index, Type: p.typ, Stage: StageModule, Err: err}
	}
	if err := s.modules.Link(ctx, model.CharacterModule{CharacterID: c.ID, ModuleID: mid}); err != nil {
		return uuid.Nil, ModuleFailure{Index: p.index, Type: p.typ, Stage: StageLink, ModuleID: mid, Err: err}
	}
	return mid, nil
}

func (s *CharacterServiceImpl) ListCharacters(ctx context.Context, owner uuid.UUID) ([]model.Character, error) {
	if owner == uuid.Nil {
		return nil, errs.ErrUnauthenticated
	}
	out, err := s.chars.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("%w: list characters: %w", errs.ErrPersistence, err)
	}
	return out, nil
}

func (s *CharacterServiceImpl) GetCharacter(ctx context.Context, owner, id uuid.UUID) (model.CharacterDetail, error) {
	if owner == uuid.Nil {
		return model.CharacterDetail{}, errs.ErrUnauthenticated
	}
	if id == uuid.Nil {
		return model.CharacterDetail{}, fmt.Errorf("%w: empty character id", errs.ErrValidation)
	}
	c, err := s.chars.GetOwned(ctx, owner, id)
	if errors.Is(err, errs.ErrNotFound) {
		return model.CharacterDetail{}, errs.ErrNotFound
	}
	if err != nil {
		return model.CharacterDetail{}, fmt.Errorf("%w: load character: %w", errs.ErrPersistence, err)
	}
	mods, err := s.modules.ListForCharacter(ctx, owner, id)
	if err != nil {
		return model.CharacterDetail{}, fmt.Errorf("%w: load modules: %w", errs.ErrPersistence, err)
	}
	return model.CharacterDetail{Character: *c, Modules: mods}, nil
}
