package client

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/SophiaCH21/NoteBookApp/pkg/client/autosave"
	"github.com/google/uuid"
)

type NoteAPI interface {
	ListNotes(ctx context.Context) ([]Note, error)
	FilterNotes(ctx context.Context, f Filter) ([]Note, error)
	GetNote(ctx context.Context, id uuid.UUID) (*Note, error)
	CreateNote(ctx context.Context, title, content string) (*Note, error)
	UpdateNote(ctx context.Context, id uuid.UUID, title, content string) (*Note, error)
	DeleteNote(ctx context.Context, id uuid.UUID) error
}

// Workspace is the list view plus an optional selected note. Losing access to
// the selected note (deleted elsewhere, or not ours) drops back to the list.
type Workspace struct {
	api NoteAPI

	mu       sync.Mutex
	notes    []Note
	selected *Note
}

func NewWorkspace(api NoteAPI) *Workspace {
	return &Workspace{api: api}
}

func (w *Workspace) Notes() []Note {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.notes)
}

func (w *Workspace) Selected() (Note, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.selected == nil {
		return Note{}, false
	}
	return *w.selected, true
}

func (w *Workspace) Refresh(ctx context.Context) error {
	notes, err := w.api.ListNotes(ctx)
	if err != nil {
		return err
	}

	w.replace(notes)
	return nil
}

// Filter narrows the list to the server's filter result. The selection
// survives only if the selected note is still listed.
func (w *Workspace) Filter(ctx context.Context, f Filter) error {
	notes, err := w.api.FilterNotes(ctx, f)
	if err != nil {
		return err
	}

	w.replace(notes)
	return nil
}

func (w *Workspace) replace(notes []Note) {
	SortByRecent(notes)

	w.mu.Lock()
	defer w.mu.Unlock()

	w.notes = notes
	if w.selected != nil && !slices.ContainsFunc(notes, func(n Note) bool { return n.Id == w.selected.Id }) {
		w.selected = nil
	}
}

func (w *Workspace) Select(ctx context.Context, id uuid.UUID) (*Note, error) {
	n, err := w.api.GetNote(ctx, id)
	if err != nil {
		w.forgetOnLostAccess(id, err)
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.upsert(*n)
	w.selected = n
	return n, nil
}

func (w *Workspace) Create(ctx context.Context, title, content string) (*Note, error) {
	n, err := w.api.CreateNote(ctx, title, content)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.upsert(*n)
	w.selected = n
	return n, nil
}

func (w *Workspace) Save(ctx context.Context, id uuid.UUID, title, content string) (*Note, error) {
	n, err := w.api.UpdateNote(ctx, id, title, content)
	if err != nil {
		w.forgetOnLostAccess(id, err)
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.upsert(*n)
	if w.selected != nil && w.selected.Id == id {
		w.selected = n
	}
	return n, nil
}

// Autosave starts an autosaver whose saves go through Save for note id, so a
// note lost mid-edit clears the selection like any other save.
func (w *Workspace) Autosave(ctx context.Context, id uuid.UUID, opts ...autosave.Option) *autosave.Autosaver {
	return autosave.New(ctx, func(ctx context.Context, d autosave.Draft) error {
		_, err := w.Save(ctx, id, d.Title, d.Content)
		return err
	}, opts...)
}

func (w *Workspace) Delete(ctx context.Context, id uuid.UUID) error {
	err := w.api.DeleteNote(ctx, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		w.forgetOnLostAccess(id, err)
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.remove(id)

	return err
}

func (w *Workspace) forgetOnLostAccess(id uuid.UUID, err error) {
	if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrForbidden) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.remove(id)
}

// remove must be called with mu held.
func (w *Workspace) remove(id uuid.UUID) {
	w.notes = slices.DeleteFunc(w.notes, func(n Note) bool { return n.Id == id })
	if w.selected != nil && w.selected.Id == id {
		w.selected = nil
	}
}

// upsert must be called with mu held.
func (w *Workspace) upsert(n Note) {
	i := slices.IndexFunc(w.notes, func(x Note) bool { return x.Id == n.Id })
	if i >= 0 {
		w.notes[i] = n
	} else {
		w.notes = append(w.notes, n)
	}
	SortByRecent(w.notes)
}

// SortByRecent orders notes by last modification, newest first.
func SortByRecent(notes []Note) {
	slices.SortStableFunc(notes, func(a, b Note) int {
		return b.LastModified().Compare(a.LastModified())
	})
}
