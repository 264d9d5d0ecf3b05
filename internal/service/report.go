package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/persona-keeper/internal/model"
)

// Stage names the tail write that failed during character composition.
type Stage string

const (
	StageModule Stage = "module"
	StageLink   Stage = "link"
)

// ModuleFailure is one failed tail write. ModuleID is set when the module row
// was created but its link was not, leaving an orphaned module.
type ModuleFailure struct {
	Index    int
	Type     model.ModuleType
	Stage    Stage
	ModuleID uuid.UUID
	Err      error
}

func (f ModuleFailure) Error() string {
	return fmt.Sprintf("module %d (%s) %s write: %v", f.Index, f.Type, f.Stage, f.Err)
}

func (f ModuleFailure) Unwrap() error { return f.Err }

// CompositionReport summarizes the best-effort tail of CreateCharacter.
type CompositionReport struct {
	CharacterID uuid.UUID
	Owner       uuid.UUID
	Requested   int
	Dropped     int
	Linked      []uuid.UUID
	Failures    []ModuleFailure
}

// Partial reports whether any tail write failed.
func (r CompositionReport) Partial() bool { return len(r.Failures) > 0 }

// ReportSink receives composition reports. Implementations must not block for long.
type ReportSink interface {
	Report(ctx context.Context, r CompositionReport)
}

// LogSink writes failed tail writes to a zap logger.
type LogSink struct {
	Log *zap.Logger
}

func (s LogSink) Report(_ context.Context, r CompositionReport) {
	if s.Log == nil {
		return
	}
	for _, f := range r.Failures {
		fields := []zap.Field{
			zap.String("character_id", r.CharacterID.String()),
			zap.String("owner_id", r.Owner.String()),
			zap.Int("index", f.Index),
			zap.String("module_type", string(f.Type)),
			zap.String("stage", string(f.Stage)),
			zap.Error(f.Err),
		}
		if f.ModuleID != uuid.Nil {
			fields = append(fields, zap.String("orphan_module_id", f.ModuleID.String()))
		}
		s.Log.Warn("character composition partial", fields...)
	}
	if !r.Partial() {
		s.Log.Debug("character composed",
			zap.String("character_id", r.CharacterID.String()),
			zap.Int("linked", len(r.Linked)),
			zap.Int("dropped", r.Dropped))
	}
}

// MultiSink fans a report out to several sinks in order.
type MultiSink []ReportSink

func (m MultiSink) Report(ctx context.Context, r CompositionReport) {
	for _, s := range m {
		if s != nil {
			s.Report(ctx, r)
		}
	}
}

type nopSink struct{}

func (nopSink) Report(context.Context, CompositionReport) {}
