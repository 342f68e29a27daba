package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SophiaCH21/NoteBookApp/pkg/client/autosave"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu      sync.Mutex
	notes   map[uuid.UUID]Note
	deny    map[uuid.UUID]bool
	now     time.Time
	updates int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		notes: make(map[uuid.UUID]Note),
		deny:  make(map[uuid.UUID]bool),
		now:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeAPI) tick() time.Time {
	f.now = f.now.Add(time.Minute)
	return f.now
}

func (f *fakeAPI) ListNotes(context.Context) ([]Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Note, 0, len(f.notes))
	for _, n := range f.notes {
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeAPI) FilterNotes(_ context.Context, flt Filter) ([]Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Note, 0, len(f.notes))
	for _, n := range f.notes {
		switch {
		case flt.SearchTerm != "":
			if !strings.Contains(n.Title, flt.SearchTerm) && !strings.Contains(n.Content, flt.SearchTerm) {
				continue
			}
		case flt.FromDate != nil && flt.ToDate != nil:
			if n.CreatedAt.Before(*flt.FromDate) || n.CreatedAt.After(*flt.ToDate) {
				continue
			}
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeAPI) GetNote(_ context.Context, id uuid.UUID) (*Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deny[id] {
		return nil, &APIError{Status: 403}
	}
	n, ok := f.notes[id]
	if !ok {
		return nil, &APIError{Status: 404}
	}
	return &n, nil
}

func (f *fakeAPI) CreateNote(_ context.Context, title, content string) (*Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := Note{Id: uuid.New(), Title: title, Content: content, CreatedAt: f.tick()}
	f.notes[n.Id] = n
	return &n, nil
}

func (f *fakeAPI) UpdateNote(_ context.Context, id uuid.UUID, title, content string) (*Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates++
	if f.deny[id] {
		return nil, &APIError{Status: 403}
	}
	n, ok := f.notes[id]
	if !ok {
		return nil, &APIError{Status: 404}
	}
	at := f.tick()
	n.Title, n.Content, n.UpdatedAt = title, content, &at
	f.notes[id] = n
	return &n, nil
}

func (f *fakeAPI) DeleteNote(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.notes[id]; !ok {
		return &APIError{Status: 404}
	}
	delete(f.notes, id)
	return nil
}

// dropElsewhere removes a note as another session would.
func (f *fakeAPI) dropElsewhere(id uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.notes, id)
}

func (f *fakeAPI) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates
}

func titles(notes []Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Title)
	}
	return out
}

func TestWorkspace_SortsByRecent(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	ws := NewWorkspace(api)

	first, err := ws.Create(ctx, "first", "")
	require.NoError(t, err)
	_, err = ws.Create(ctx, "second", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"second", "first"}, titles(ws.Notes()))

	_, err = ws.Save(ctx, first.Id, "first edited", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"first edited", "second"}, titles(ws.Notes()))

	require.NoError(t, ws.Refresh(ctx))
	assert.Equal(t, []string{"first edited", "second"}, titles(ws.Notes()))
}

func TestWorkspace_LostNoteClearsSelection(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	ws := NewWorkspace(api)

	n, err := ws.Create(ctx, "doomed", "")
	require.NoError(t, err)
	_, ok := ws.Selected()
	require.True(t, ok)

	api.dropElsewhere(n.Id)

	_, err = ws.Save(ctx, n.Id, "edit", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, ok = ws.Selected()
	assert.False(t, ok)
	assert.Empty(t, ws.Notes())
}

func TestWorkspace_ForbiddenClearsSelection(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	ws := NewWorkspace(api)

	n, err := ws.Create(ctx, "shared?", "")
	require.NoError(t, err)
	api.deny[n.Id] = true

	_, err = ws.Select(ctx, n.Id)
	assert.ErrorIs(t, err, ErrForbidden)

	_, ok := ws.Selected()
	assert.False(t, ok)
}

func TestWorkspace_Delete(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	ws := NewWorkspace(api)

	keep, err := ws.Create(ctx, "keep", "")
	require.NoError(t, err)
	drop, err := ws.Create(ctx, "drop", "")
	require.NoError(t, err)

	require.NoError(t, ws.Delete(ctx, drop.Id))
	_, ok := ws.Selected()
	assert.False(t, ok)
	assert.Equal(t, []string{"keep"}, titles(ws.Notes()))

	_, err = ws.Select(ctx, keep.Id)
	require.NoError(t, err)
	sel, ok := ws.Selected()
	require.True(t, ok)
	assert.Equal(t, keep.Id, sel.Id)
}

func TestWorkspace_Filter(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	ws := NewWorkspace(api)

	groceries, err := ws.Create(ctx, "Groceries", "milk, eggs")
	require.NoError(t, err)
	_, err = ws.Create(ctx, "Meeting", "agenda")
	require.NoError(t, err)
	recipe, err := ws.Create(ctx, "Recipe", "eggs and flour")
	require.NoError(t, err)

	require.NoError(t, ws.Filter(ctx, Filter{SearchTerm: "eggs"}))
	assert.Equal(t, []string{"Recipe", "Groceries"}, titles(ws.Notes()))

	sel, ok := ws.Selected()
	require.True(t, ok, "selected note is still listed")
	assert.Equal(t, recipe.Id, sel.Id)

	from, to := groceries.CreatedAt, groceries.CreatedAt
	require.NoError(t, ws.Filter(ctx, Filter{FromDate: &from, ToDate: &to}))
	assert.Equal(t, []string{"Groceries"}, titles(ws.Notes()))

	_, ok = ws.Selected()
	assert.False(t, ok, "selection dropped once filtered out")

	require.NoError(t, ws.Filter(ctx, Filter{}))
	assert.Len(t, ws.Notes(), 3)
}

func TestWorkspace_AutosaveSelectedNote(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	ws := NewWorkspace(api)

	n, err := ws.Create(ctx, "draft", "")
	require.NoError(t, err)

	var reported atomic.Value
	saver := ws.Autosave(ctx, n.Id,
		autosave.WithDelay(10*time.Millisecond),
		autosave.WithErrorHandler(func(err error) { reported.Store(err) }),
	)
	t.Cleanup(saver.Stop)

	for _, body := range []string{"h", "he", "hel", "hello"} {
		saver.Edit(autosave.Draft{Title: "draft", Content: body})
	}

	require.Eventually(t, func() bool {
		sel, ok := ws.Selected()
		return ok && sel.Content == "hello" && saver.State() == autosave.Idle
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, api.updateCount(), "burst coalesces into one save")

	api.dropElsewhere(n.Id)
	saver.Edit(autosave.Draft{Title: "draft", Content: "hello again"})

	require.Eventually(t, func() bool {
		err, _ := reported.Load().(error)
		return errors.Is(err, ErrNotFound)
	}, time.Second, 5*time.Millisecond)

	_, ok := ws.Selected()
	assert.False(t, ok)
	assert.Empty(t, ws.Notes())
	assert.Equal(t, autosave.Idle, saver.State())
}
