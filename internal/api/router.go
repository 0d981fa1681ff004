package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/jotpad/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/view", h.View)

	r.Get("/notes", h.ListNotes)
	r.Get("/notes/{id}", h.GetNote)

	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Post("/create", h.OpenCreate)
		r.Post("/edit/{id}", h.OpenEdit)
		r.Patch("/draft", h.UpdateDraft)
		r.Post("/save", h.Save)
		r.Post("/cancel", h.Cancel)
		r.Post("/delete", h.Delete)
	})

	r.Get("/screen", h.GetScreen)
	r.Post("/screen/start", h.Start)
	r.Post("/screen/back", h.Back)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
