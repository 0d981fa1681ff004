// Package noteservice is the top-level controller that turns user events
// into note store mutations and edit session transitions.
package noteservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/jotpad/internal/apperr"
	"github.com/starford/jotpad/internal/idgen"
	"github.com/starford/jotpad/internal/models"
	"github.com/starford/jotpad/internal/notestore"
	"github.com/starford/jotpad/internal/session"
)

// Note change kinds passed to Notifier.NoteChanged.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// Notifier receives state changes, typically to push them to clients.
type Notifier interface {
	NoteChanged(kind string, id int64)
	SessionChanged(st models.SessionState)
	ScreenChanged(s models.Screen)
}

// View is everything the presentation layer needs to draw one frame.
type View struct {
	Screen  models.Screen        `json:"screen"`
	Notes   []models.NoteSummary `json:"notes"`
	Session models.SessionState  `json:"session"`
}

// Service owns the note store, the single edit session and the current
// screen. Every event is applied under one lock, one at a time.
type Service struct {
	mu       sync.Mutex
	store    notestore.Store
	sess     session.Session
	screen   models.Screen
	ids      idgen.Generator
	notifier Notifier
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator sets the id strategy for new notes.
func WithIDGenerator(g idgen.Generator) Option {
	return func(s *Service) { s.ids = g }
}

// WithNotifier sets the change listener.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a controller over store. It starts on the landing
// screen with the edit session closed.
func NewService(store notestore.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		screen:   models.ScreenLanding,
		ids:      idgen.NewClock(),
		notifier: nopNotifier{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notes returns every note in display order.
func (s *Service) Notes(ctx context.Context) ([]models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List(ctx)
}

// Summaries returns the title-only rows for the list view.
func (s *Service) Summaries(ctx context.Context) ([]models.NoteSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaries(ctx)
}

func (s *Service) summaries(ctx context.Context) ([]models.NoteSummary, error) {
	notes, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.NoteSummary, len(notes))
	for i, n := range notes {
		out[i] = n.Summary()
	}
	return out, nil
}

// GetNote returns a single note.
func (s *Service) GetNote(ctx context.Context, id int64) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Get(ctx, id)
}

// Session returns the current edit session state.
func (s *Service) Session() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess.State()
}

// View returns a consistent snapshot of screen, list and session.
func (s *Service) View(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.summaries(ctx)
	if err != nil {
		return View{}, err
	}
	return View{Screen: s.screen, Notes: items, Session: s.sess.State()}, nil
}

// OpenCreate opens the modal with an empty draft.
func (s *Service) OpenCreate(_ context.Context) models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess.OpenCreate()
	return s.sessionChanged()
}

// OpenEdit opens the modal pre-populated from the note with id.
func (s *Service) OpenEdit(ctx context.Context, id int64) (models.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.store.Get(ctx, id)
	if err != nil {
		return models.SessionState{}, err
	}
	s.sess.OpenEdit(n)
	return s.sessionChanged(), nil
}

// SetDraftTitle replaces the draft title of the open session.
func (s *Service) SetDraftTitle(_ context.Context, text string) (models.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sess.SetTitle(text); err != nil {
		return models.SessionState{}, err
	}
	return s.sess.State(), nil
}

// SetDraftContent replaces the draft content of the open session.
func (s *Service) SetDraftContent(_ context.Context, text string) (models.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sess.SetContent(text); err != nil {
		return models.SessionState{}, err
	}
	return s.sess.State(), nil
}

// SetDraft applies the non-nil fields to the open session in one step.
// When the session is closed nothing changes.
func (s *Service) SetDraft(_ context.Context, title, content *string) (models.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess.Mode() == models.ModeClosed {
		return models.SessionState{}, apperr.ErrSessionClosed
	}
	if title != nil {
		_ = s.sess.SetTitle(*title)
	}
	if content != nil {
		_ = s.sess.SetContent(*content)
	}
	return s.sess.State(), nil
}

// Save commits the draft. A blank title returns apperr.ErrEmptyTitle and
// leaves both the session and the store untouched.
func (s *Service) Save(ctx context.Context) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	editing := s.sess.Mode() == models.ModeEditing
	n, err := s.sess.Candidate(s.ids)
	if err != nil {
		return models.Note{}, err
	}
	if err := s.store.Upsert(ctx, n); err != nil {
		return models.Note{}, fmt.Errorf("save note %d: %w", n.ID, err)
	}

	kind := KindCreated
	if editing {
		kind = KindUpdated
	}
	s.logger.Debug("note saved", slog.Int64("id", n.ID), slog.String("kind", kind))
	s.notifier.NoteChanged(kind, n.ID)

	s.sess.Reset()
	s.sessionChanged()
	return n, nil
}

// Cancel discards the draft without touching the store.
func (s *Service) Cancel(_ context.Context) models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess.Mode() == models.ModeClosed {
		return s.sess.State()
	}
	s.sess.Reset()
	return s.sessionChanged()
}

// Delete removes the note being edited and closes the session.
// It is only valid while editing an existing note.
func (s *Service) Delete(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.sess.Target()
	if err != nil {
		return 0, err
	}
	if err := s.store.Remove(ctx, id); err != nil {
		return 0, fmt.Errorf("delete note %d: %w", id, err)
	}

	s.logger.Debug("note deleted", slog.Int64("id", id))
	s.notifier.NoteChanged(KindDeleted, id)

	s.sess.Reset()
	s.sessionChanged()
	return id, nil
}

// Screen returns the current screen.
func (s *Service) Screen() models.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

// Start leaves the landing page for the note list.
func (s *Service) Start() models.Screen {
	return s.setScreen(models.ScreenList)
}

// Back returns to the landing page.
func (s *Service) Back() models.Screen {
	return s.setScreen(models.ScreenLanding)
}

func (s *Service) setScreen(to models.Screen) models.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.screen != to {
		s.screen = to
		s.notifier.ScreenChanged(to)
	}
	return s.screen
}

func (s *Service) sessionChanged() models.SessionState {
	st := s.sess.State()
	s.notifier.SessionChanged(st)
	return st
}

type nopNotifier struct{}

func (nopNotifier) NoteChanged(string, int64)          {}
func (nopNotifier) SessionChanged(models.SessionState) {}
func (nopNotifier) ScreenChanged(models.Screen)        {}
