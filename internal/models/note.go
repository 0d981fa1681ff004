// Package models defines the domain types for jotpad.
package models

import "fmt"

// Note is a user-created record. Title is never blank once committed.
type Note struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Summary returns the title-only row rendered by the list view.
func (n Note) Summary() NoteSummary {
	return NoteSummary{ID: n.ID, Title: n.Title}
}

// NoteSummary is a lightweight representation returned by list operations.
type NoteSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Mode is the state of the edit modal.
type Mode int

const (
	ModeClosed Mode = iota
	ModeCreating
	ModeEditing
)

var modeNames = [...]string{"closed", "creating", "editing"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("mode(%d)", int(m))
	}
	return modeNames[m]
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	for i, name := range modeNames {
		if name == string(b) {
			*m = Mode(i)
			return nil
		}
	}
	return fmt.Errorf("models: unknown mode %q", b)
}

// Screen is the top-level page shown by the presentation layer.
type Screen int

const (
	ScreenLanding Screen = iota
	ScreenList
)

func (s Screen) String() string {
	switch s {
	case ScreenLanding:
		return "landing"
	case ScreenList:
		return "list"
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Screen) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Screen) UnmarshalText(b []byte) error {
	switch string(b) {
	case "landing":
		*s = ScreenLanding
	case "list":
		*s = ScreenList
	default:
		return fmt.Errorf("models: unknown screen %q", b)
	}
	return nil
}

// SessionState is the render input for the edit modal.
type SessionState struct {
	Mode         Mode   `json:"mode"`
	DraftTitle   string `json:"draft_title"`
	DraftContent string `json:"draft_content"`
	TargetID     *int64 `json:"target_id,omitempty"`
}

// Open reports whether the modal is visible.
func (s SessionState) Open() bool {
	return s.Mode != ModeClosed
}
