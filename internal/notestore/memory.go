package notestore

import (
	"context"
	"fmt"

	"github.com/starford/jotpad/internal/apperr"
	"github.com/starford/jotpad/internal/models"
)

// Memory keeps notes in a slice with an id index. It is not safe for
// concurrent use; callers serialize access.
type Memory struct {
	notes []models.Note
	pos   map[int64]int
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{pos: make(map[int64]int)}
}

func (m *Memory) List(_ context.Context) ([]models.Note, error) {
	out := make([]models.Note, len(m.notes))
	copy(out, m.notes)
	return out, nil
}

func (m *Memory) Get(_ context.Context, id int64) (models.Note, error) {
	i, ok := m.pos[id]
	if !ok {
		return models.Note{}, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	return m.notes[i], nil
}

func (m *Memory) Upsert(_ context.Context, n models.Note) error {
	if i, ok := m.pos[n.ID]; ok {
		m.notes[i] = n
		return nil
	}
	m.pos[n.ID] = len(m.notes)
	m.notes = append(m.notes, n)
	return nil
}

func (m *Memory) Remove(_ context.Context, id int64) error {
	i, ok := m.pos[id]
	if !ok {
		return nil
	}
	m.notes = append(m.notes[:i], m.notes[i+1:]...)
	delete(m.pos, id)
	for j := i; j < len(m.notes); j++ {
		m.pos[m.notes[j].ID] = j
	}
	return nil
}

func (m *Memory) Len(_ context.Context) (int, error) {
	return len(m.notes), nil
}

func (m *Memory) Close() error { return nil }
