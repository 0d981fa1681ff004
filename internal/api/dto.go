package api

import (
	"github.com/starford/jotpad/internal/models"
)

// DraftRequest is the body of PATCH /session/draft. Absent fields are left
// unchanged; an empty string clears the field.
type DraftRequest struct {
	Title   *string `json:"title,omitempty" example:"Groceries"`
	Content *string `json:"content,omitempty" example:"Milk, eggs"`
}

// NoteListResponse wraps the note list.
type NoteListResponse struct {
	Notes []models.NoteSummary `json:"notes" validate:"required"`
	Total int                  `json:"total" example:"2" validate:"required"`
}

// DeleteResponse is returned after a note is deleted.
type DeleteResponse struct {
	ID int64 `json:"id" example:"1718000000000" validate:"required"`
}

// ScreenResponse reports the current screen.
type ScreenResponse struct {
	Screen models.Screen `json:"screen" example:"list" validate:"required"`
}
