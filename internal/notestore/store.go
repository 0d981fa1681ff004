// Package notestore holds the ordered, in-memory collection of notes.
package notestore

import (
	"context"

	"github.com/starford/jotpad/internal/models"
)

// Store is the authoritative ordered set of notes for the running process.
// Consumers depend on this interface rather than a concrete backend.
type Store interface {
	// List returns all notes in insertion order, most recently added last.
	List(ctx context.Context) ([]models.Note, error)
	// Get returns the note with id or apperr.ErrNotFound.
	Get(ctx context.Context, id int64) (models.Note, error)
	// Upsert replaces the note with the same id in place, or appends it.
	Upsert(ctx context.Context, n models.Note) error
	// Remove deletes the note with id. Absent ids are ignored.
	Remove(ctx context.Context, id int64) error
	// Len returns the number of stored notes.
	Len(ctx context.Context) (int, error)
	Close() error
}

// Drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Verify backends satisfy Store at compile time.
var (
	_ Store = (*Memory)(nil)
	_ Store = (*SQLite)(nil)
)
