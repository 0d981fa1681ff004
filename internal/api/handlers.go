package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/jotpad/internal/apperr"
	"github.com/starford/jotpad/internal/checksum"
	"github.com/starford/jotpad/internal/noteservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *noteservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *noteservice.Service) *Handler {
	return &Handler{svc: svc}
}

func noteID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// writeServiceError maps controller errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrEmptyTitle):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody(apperr.EmptyTitleMessage))
	case errors.Is(err, apperr.ErrSessionClosed), errors.Is(err, apperr.ErrNoTarget):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List note titles in display order
//	@Tags			notes
//	@Produce		json
//	@Param			If-None-Match	header	string	false	"ETag from a previous response"
//	@Success		200		{object}	NoteListResponse
//	@Success		304		"Not modified"
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Summaries(r.Context())
	if err != nil {
		writeServiceError(w, "list notes", err)
		return
	}

	body, err := json.Marshal(NoteListResponse{Notes: items, Total: len(items)})
	if err != nil {
		writeServiceError(w, "list notes", err)
		return
	}
	etag := checksum.ETag(body)
	w.Header().Set("ETag", etag)
	if checksum.Match(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// GetNote handles GET /api/notes/{id}.
//
//	@Summary		Get a single note
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		int	true	"Note id"
//	@Success		200	{object}	models.Note
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	n, err := h.svc.GetNote(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get note", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// View handles GET /api/view.
//
//	@Summary		Screen, note list and edit session in one snapshot
//	@Tags			view
//	@Produce		json
//	@Success		200	{object}	noteservice.View
//	@Security		BearerAuth
//	@Router			/view [get]
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	v, err := h.svc.View(r.Context())
	if err != nil {
		writeServiceError(w, "view", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// GetSession handles GET /api/session.
//
//	@Summary		Current edit session
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	models.SessionState
//	@Security		BearerAuth
//	@Router			/session [get]
func (h *Handler) GetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Session())
}

// OpenCreate handles POST /api/session/create.
//
//	@Summary		Open the modal for a new note
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	models.SessionState
//	@Security		BearerAuth
//	@Router			/session/create [post]
func (h *Handler) OpenCreate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.OpenCreate(r.Context()))
}

// OpenEdit handles POST /api/session/edit/{id}.
//
//	@Summary		Open the modal on an existing note
//	@Tags			session
//	@Produce		json
//	@Param			id	path		int	true	"Note id"
//	@Success		200	{object}	models.SessionState
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/session/edit/{id} [post]
func (h *Handler) OpenEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	st, err := h.svc.OpenEdit(r.Context(), id)
	if err != nil {
		writeServiceError(w, "open edit", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// UpdateDraft handles PATCH /api/session/draft.
//
//	@Summary		Change the draft title and/or content
//	@Tags			session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		DraftRequest	true	"Fields to change"
//	@Success		200		{object}	models.SessionState
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/session/draft [patch]
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var req DraftRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Title == nil && req.Content == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("title or content is required"))
		return
	}

	st, err := h.svc.SetDraft(r.Context(), req.Title, req.Content)
	if err != nil {
		writeServiceError(w, "set draft", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Save handles POST /api/session/save.
//
//	@Summary		Commit the draft
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	models.Note
//	@Failure		409	{object}	errResponse
//	@Failure		422	{object}	errResponse	"Blank title; the session stays open"
//	@Security		BearerAuth
//	@Router			/session/save [post]
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Save(r.Context())
	if err != nil {
		writeServiceError(w, "save note", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Cancel handles POST /api/session/cancel.
//
//	@Summary		Discard the draft without changing any note
//	@Tags			session
//	@Success		204	"Session closed"
//	@Security		BearerAuth
//	@Router			/session/cancel [post]
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.svc.Cancel(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles POST /api/session/delete.
//
//	@Summary		Delete the note being edited
//	@Tags			session
//	@Produce		json
//	@Success		200	{object}	DeleteResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/session/delete [post]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.Delete(r.Context())
	if err != nil {
		writeServiceError(w, "delete note", err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{ID: id})
}

// Start handles POST /api/screen/start.
//
//	@Summary		Leave the landing page for the note list
//	@Tags			screen
//	@Produce		json
//	@Success		200	{object}	ScreenResponse
//	@Security		BearerAuth
//	@Router			/screen/start [post]
func (h *Handler) Start(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ScreenResponse{Screen: h.svc.Start()})
}

// Back handles POST /api/screen/back.
//
//	@Summary		Return to the landing page
//	@Tags			screen
//	@Produce		json
//	@Success		200	{object}	ScreenResponse
//	@Security		BearerAuth
//	@Router			/screen/back [post]
func (h *Handler) Back(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ScreenResponse{Screen: h.svc.Back()})
}

// GetScreen handles GET /api/screen.
//
//	@Summary		Current screen
//	@Tags			screen
//	@Produce		json
//	@Success		200	{object}	ScreenResponse
//	@Security		BearerAuth
//	@Router			/screen [get]
func (h *Handler) GetScreen(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ScreenResponse{Screen: h.svc.Screen()})
}
