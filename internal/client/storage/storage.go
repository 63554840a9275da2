// Package storage is the client's named-slot key/value store, the local
// persistence behind the auth store.
//
// SQLiteStorage keeps slots in a local SQLite database. Disabled stands in
// when no database can be opened; every call on it fails with
// ErrUnavailable, and Available reports false for it.
package storage

import (
	"context"
	"errors"
)

var ErrUnavailable = errors.New("local storage unavailable")

// probeKey is written and removed by Available.
const probeKey = "__storage_test__"

// Storage holds string values under slot names.
type Storage interface {
	// GetItem returns the slot's value, or nil when the slot is absent.
	GetItem(ctx context.Context, name string) (*string, error)
	SetItem(ctx context.Context, name, value string) error
	// RemoveItem deletes the slot; removing an absent slot is not an error.
	RemoveItem(ctx context.Context, name string) error
}

// Available reports whether s accepts writes, by writing and removing a
// probe slot.
func Available(ctx context.Context, s Storage) bool {
	if s == nil {
		return false
	}
	if err := s.SetItem(ctx, probeKey, probeKey); err != nil {
		return false
	}
	return s.RemoveItem(ctx, probeKey) == nil
}

// Disabled is a Storage that refuses every call.
type Disabled struct{}

func (Disabled) GetItem(context.Context, string) (*string, error) { return nil, ErrUnavailable }
func (Disabled) SetItem(context.Context, string, string) error    { return ErrUnavailable }
func (Disabled) RemoveItem(context.Context, string) error         { return ErrUnavailable }
