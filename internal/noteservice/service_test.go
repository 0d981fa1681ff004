package noteservice

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starford/jotpad/internal/apperr"
	"github.com/starford/jotpad/internal/idgen"
	"github.com/starford/jotpad/internal/models"
	"github.com/starford/jotpad/internal/notestore"
)

type recorder struct {
	notes    []string
	sessions []models.Mode
	screens  []models.Screen
}

func (r *recorder) NoteChanged(kind string, _ int64) { r.notes = append(r.notes, kind) }
func (r *recorder) SessionChanged(st models.SessionState) {
	r.sessions = append(r.sessions, st.Mode)
}
func (r *recorder) ScreenChanged(s models.Screen) { r.screens = append(r.screens, s) }

func newTestService(t *testing.T) (*Service, *recorder) {
	t.Helper()
	rec := &recorder{}
	svc := NewService(notestore.NewMemory(),
		WithIDGenerator(idgen.NewSequence(100)),
		WithNotifier(rec),
	)
	return svc, rec
}

// create commits a note through the modal workflow.
func create(t *testing.T, svc *Service, title, content string) models.Note {
	t.Helper()
	ctx := context.Background()
	svc.OpenCreate(ctx)
	_, err := svc.SetDraftTitle(ctx, title)
	require.NoError(t, err)
	_, err = svc.SetDraftContent(ctx, content)
	require.NoError(t, err)
	n, err := svc.Save(ctx)
	require.NoError(t, err)
	return n
}

func notes(t *testing.T, svc *Service) []models.Note {
	t.Helper()
	out, err := svc.Notes(context.Background())
	require.NoError(t, err)
	return out
}

func TestService_ShoppingScenario(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.Empty(t, notes(t, svc))
	svc.OpenCreate(ctx)
	_, err := svc.SetDraftTitle(ctx, "Shopping")
	require.NoError(t, err)
	_, err = svc.SetDraftContent(ctx, "Milk, eggs")
	require.NoError(t, err)
	_, err = svc.Save(ctx)
	require.NoError(t, err)

	got := notes(t, svc)
	require.Len(t, got, 1)
	require.Equal(t, "Shopping", got[0].Title)
	require.Equal(t, "Milk, eggs", got[0].Content)
	require.False(t, svc.Session().Open())
}

func TestService_SaveCreatesWithFreshID(t *testing.T) {
	svc, rec := newTestService(t)
	first := create(t, svc, "First", "")

	n := create(t, svc, "Groceries", "")
	require.NotEqual(t, first.ID, n.ID)

	got := notes(t, svc)
	require.Len(t, got, 2)
	require.Equal(t, models.Note{ID: n.ID, Title: "Groceries", Content: ""}, got[1])
	require.Equal(t, []string{KindCreated, KindCreated}, rec.notes)
}

func TestService_SaveRejectsBlankTitle(t *testing.T) {
	for _, title := range []string{"", "   "} {
		svc, rec := newTestService(t)
		ctx := context.Background()
		existing := create(t, svc, "keep", "me")
		rec.notes = nil

		svc.OpenCreate(ctx)
		_, err := svc.SetDraftTitle(ctx, title)
		require.NoError(t, err)
		_, err = svc.SetDraftContent(ctx, "draft")
		require.NoError(t, err)

		_, err = svc.Save(ctx)
		require.ErrorIs(t, err, apperr.ErrEmptyTitle)

		require.Equal(t, []models.Note{existing}, notes(t, svc))
		require.Empty(t, rec.notes)

		st := svc.Session()
		require.Equal(t, models.ModeCreating, st.Mode)
		require.Equal(t, title, st.DraftTitle)
		require.Equal(t, "draft", st.DraftContent)
	}
}

func TestService_EditSaveReplacesInPlace(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	a := create(t, svc, "a", "1")
	b := create(t, svc, "b", "2")
	c := create(t, svc, "c", "3")

	st, err := svc.OpenEdit(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, models.ModeEditing, st.Mode)
	require.Equal(t, "b", st.DraftTitle)
	require.Equal(t, b.ID, *st.TargetID)

	_, err = svc.SetDraftTitle(ctx, "b2")
	require.NoError(t, err)
	saved, err := svc.Save(ctx)
	require.NoError(t, err)
	require.Equal(t, b.ID, saved.ID)

	got := notes(t, svc)
	require.Equal(t, []int64{a.ID, b.ID, c.ID}, []int64{got[0].ID, got[1].ID, got[2].ID})
	require.Equal(t, "b2", got[1].Title)
	require.Equal(t, "2", got[1].Content)
	require.Equal(t, KindUpdated, rec.notes[len(rec.notes)-1])
}

func TestService_EditCancelLeavesNoteUnchanged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	n := create(t, svc, "title", "content")
	before := notes(t, svc)

	_, err := svc.OpenEdit(ctx, n.ID)
	require.NoError(t, err)
	_, err = svc.SetDraftContent(ctx, "changed")
	require.NoError(t, err)
	st := svc.Cancel(ctx)

	require.False(t, st.Open())
	require.Equal(t, before, notes(t, svc))
}

func TestService_CreateCancelDoesNothing(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	svc.OpenCreate(ctx)
	_, err := svc.SetDraftTitle(ctx, "never saved")
	require.NoError(t, err)
	svc.Cancel(ctx)

	require.Empty(t, notes(t, svc))
	require.Empty(t, rec.notes)
	require.Equal(t, models.SessionState{}, svc.Session())
}

func TestService_DeleteRemovesOnlyTarget(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()
	a := create(t, svc, "a", "")
	b := create(t, svc, "b", "")
	c := create(t, svc, "c", "")

	_, err := svc.OpenEdit(ctx, b.ID)
	require.NoError(t, err)
	id, err := svc.Delete(ctx)
	require.NoError(t, err)
	require.Equal(t, b.ID, id)

	require.Equal(t, []models.Note{a, c}, notes(t, svc))
	require.False(t, svc.Session().Open())
	require.Equal(t, KindDeleted, rec.notes[len(rec.notes)-1])
}

func TestService_DeleteOnlyFromEditing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Delete(ctx)
	require.ErrorIs(t, err, apperr.ErrSessionClosed)

	svc.OpenCreate(ctx)
	_, err = svc.Delete(ctx)
	require.ErrorIs(t, err, apperr.ErrNoTarget)
	require.Equal(t, models.ModeCreating, svc.Session().Mode)
}

func TestService_ClosedSessionEvents(t *testing.T) {
	svc, rec := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetDraftTitle(ctx, "x")
	require.ErrorIs(t, err, apperr.ErrSessionClosed)
	_, err = svc.SetDraftContent(ctx, "x")
	require.ErrorIs(t, err, apperr.ErrSessionClosed)
	_, err = svc.Save(ctx)
	require.ErrorIs(t, err, apperr.ErrSessionClosed)

	svc.Cancel(ctx)
	require.Empty(t, rec.sessions)
}

func TestService_OpenEditUnknownID(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.OpenEdit(context.Background(), 404)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.False(t, svc.Session().Open())
}

func TestService_DuplicateTitlesAllowed(t *testing.T) {
	svc, _ := newTestService(t)
	a := create(t, svc, "same", "")
	b := create(t, svc, "same", "")
	require.NotEqual(t, a.ID, b.ID)
	require.Len(t, notes(t, svc), 2)
}

func TestService_ScreenNavigation(t *testing.T) {
	svc, rec := newTestService(t)
	require.Equal(t, models.ScreenLanding, svc.Screen())

	require.Equal(t, models.ScreenList, svc.Start())
	require.Equal(t, models.ScreenList, svc.Start())
	require.Equal(t, models.ScreenLanding, svc.Back())

	require.Equal(t, []models.Screen{models.ScreenList, models.ScreenLanding}, rec.screens)
}

func TestService_View(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	n := create(t, svc, "t", "long content")
	svc.Start()
	_, err := svc.OpenEdit(ctx, n.ID)
	require.NoError(t, err)

	v, err := svc.View(ctx)
	require.NoError(t, err)
	require.Equal(t, models.ScreenList, v.Screen)
	require.Equal(t, []models.NoteSummary{{ID: n.ID, Title: "t"}}, v.Notes)
	require.Equal(t, models.ModeEditing, v.Session.Mode)
}

func TestService_SessionEvents(t *testing.T) {
	svc, rec := newTestService(t)
	create(t, svc, "t", "")

	require.Equal(t, []models.Mode{models.ModeCreating, models.ModeClosed}, rec.sessions)
}

func ptr(s string) *string { return &s }

func TestService_SetDraftAppliesBothFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetDraft(ctx, ptr("t"), ptr("c"))
	require.ErrorIs(t, err, apperr.ErrSessionClosed)
	require.Equal(t, models.SessionState{}, svc.Session())

	svc.OpenCreate(ctx)
	st, err := svc.SetDraft(ctx, ptr("Title"), ptr("Body"))
	require.NoError(t, err)
	require.Equal(t, "Title", st.DraftTitle)
	require.Equal(t, "Body", st.DraftContent)

	st, err = svc.SetDraft(ctx, nil, ptr("Body 2"))
	require.NoError(t, err)
	require.Equal(t, "Title", st.DraftTitle)
	require.Equal(t, "Body 2", st.DraftContent)
}

func TestService_SetDraftRacingSaveNeverCommitsHalfADraft(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		svc := NewService(notestore.NewMemory(), WithIDGenerator(idgen.NewSequence(1)))
		svc.OpenCreate(ctx)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = svc.SetDraft(ctx, ptr("title"), ptr("content"))
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Save(ctx)
		}()
		wg.Wait()

		for _, n := range notes(t, svc) {
			require.Equal(t, models.Note{ID: n.ID, Title: "title", Content: "content"}, n)
		}
	}
}
