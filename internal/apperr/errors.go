package apperr

import "errors"

// EmptyTitleMessage is shown to the user when a save is rejected.
const EmptyTitleMessage = "Note title cannot be empty!"

var (
	ErrNotFound      = errors.New("not found")
	ErrEmptyTitle    = errors.New("note title cannot be empty")
	ErrSessionClosed = errors.New("no edit session is open")
	ErrNoTarget      = errors.New("edit session has no target note")
)
