// Package persist keeps a value in a storage slot wrapped in a versioned
// envelope:
//
//	{"state": <value>, "version": N}
//
// A stored envelope whose version differs from the slot's is ignored as a
// whole; no field-level migration is attempted. Storage faults never reach
// the caller: a failed read is reported as absence and failed writes are
// dropped, both logged at warn level.
package persist

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/teamdeck/internal/client/storage"
	"github.com/dmitrijs2005/teamdeck/internal/logging"
)

type envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

type Slot[T any] struct {
	name    string
	version int
	store   storage.Storage
	logger  logging.Logger
}

func NewSlot[T any](store storage.Storage, name string, version int, logger logging.Logger) *Slot[T] {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Slot[T]{
		name:    name,
		version: version,
		store:   store,
		logger:  logger.With("slot", name),
	}
}

func (s *Slot[T]) Name() string { return s.name }
func (s *Slot[T]) Version() int { return s.version }

// Load returns the stored value and true, or the zero value and false when
// the slot is absent, unreadable or written under another version.
func (s *Slot[T]) Load(ctx context.Context) (T, bool) {
	var zero T

	raw, err := s.store.GetItem(ctx, s.name)
	if err != nil {
		s.logger.Warn(ctx, "slot read failed", "error", err)
		return zero, false
	}
	if raw == nil {
		return zero, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(*raw), &env); err != nil {
		s.logger.Warn(ctx, "slot is not a valid envelope", "error", err)
		return zero, false
	}
	if env.Version != s.version {
		s.logger.Info(ctx, "discarding slot written under another version",
			"stored_version", env.Version, "version", s.version)
		return zero, false
	}

	var v T
	if len(env.State) > 0 {
		if err := json.Unmarshal(env.State, &v); err != nil {
			s.logger.Warn(ctx, "slot state undecodable", "error", err)
			return zero, false
		}
	}
	return v, true
}

func (s *Slot[T]) Save(ctx context.Context, v T) {
	state, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn(ctx, "slot state unencodable", "error", err)
		return
	}
	b, err := json.Marshal(envelope{State: state, Version: s.version})
	if err != nil {
		s.logger.Warn(ctx, "slot envelope unencodable", "error", err)
		return
	}
	if err := s.store.SetItem(ctx, s.name, string(b)); err != nil {
		s.logger.Warn(ctx, "slot write failed", "error", err)
	}
}

func (s *Slot[T]) Clear(ctx context.Context) {
	if err := s.store.RemoveItem(ctx, s.name); err != nil {
		s.logger.Warn(ctx, "slot remove failed", "error", err)
	}
}
