// Package session implements the transient draft behind the create/edit modal.
//
// A Session never touches the note store. It only produces a candidate note
// that the caller commits.
package session

import (
	"strings"

	"github.com/starford/jotpad/internal/apperr"
	"github.com/starford/jotpad/internal/idgen"
	"github.com/starford/jotpad/internal/models"
)

// Session is the single edit draft. The zero value is closed.
type Session struct {
	mode    models.Mode
	title   string
	content string
	target  *int64
}

// OpenCreate opens an empty draft for a new note, discarding any open draft.
func (s *Session) OpenCreate() {
	s.Reset()
	s.mode = models.ModeCreating
}

// OpenEdit opens a draft pre-populated from n, discarding any open draft.
func (s *Session) OpenEdit(n models.Note) {
	id := n.ID
	s.mode = models.ModeEditing
	s.title = n.Title
	s.content = n.Content
	s.target = &id
}

// SetTitle replaces the draft title.
func (s *Session) SetTitle(text string) error {
	if s.mode == models.ModeClosed {
		return apperr.ErrSessionClosed
	}
	s.title = text
	return nil
}

// SetContent replaces the draft content.
func (s *Session) SetContent(text string) error {
	if s.mode == models.ModeClosed {
		return apperr.ErrSessionClosed
	}
	s.content = text
	return nil
}

// Candidate validates the draft and returns the note a save would commit.
// New notes draw their id from gen; edits reuse the target id.
// The session is left unchanged.
func (s *Session) Candidate(gen idgen.Generator) (models.Note, error) {
	if s.mode == models.ModeClosed {
		return models.Note{}, apperr.ErrSessionClosed
	}
	if strings.TrimSpace(s.title) == "" {
		return models.Note{}, apperr.ErrEmptyTitle
	}

	n := models.Note{Title: s.title, Content: s.content}
	if s.mode == models.ModeEditing {
		n.ID = *s.target
	} else {
		n.ID = gen.NextID()
	}
	return n, nil
}

// Target returns the id of the note being edited.
func (s *Session) Target() (int64, error) {
	switch s.mode {
	case models.ModeClosed:
		return 0, apperr.ErrSessionClosed
	case models.ModeCreating:
		return 0, apperr.ErrNoTarget
	}
	return *s.target, nil
}

// Reset closes the session and clears the draft.
func (s *Session) Reset() {
	*s = Session{}
}

// Mode returns the current mode.
func (s *Session) Mode() models.Mode {
	return s.mode
}

// State returns a snapshot for rendering.
func (s *Session) State() models.SessionState {
	st := models.SessionState{
		Mode:         s.mode,
		DraftTitle:   s.title,
		DraftContent: s.content,
	}
	if s.target != nil {
		id := *s.target
		st.TargetID = &id
	}
	return st
}
