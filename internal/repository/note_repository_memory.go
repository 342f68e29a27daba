package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/SophiaCH21/NoteBookApp/internal/entity"
	"github.com/SophiaCH21/NoteBookApp/internal/pkg/serverutils"
	"github.com/google/uuid"
)

type memoryNoteRepository struct {
	mu    sync.RWMutex
	notes map[uuid.UUID]entity.Note
}

// NewMemoryNoteRepository keeps notes in process memory. Records are copied
// on the way in and out so callers never share state with the store.
func NewMemoryNoteRepository() INoteRepository {
	return &memoryNoteRepository{notes: make(map[uuid.UUID]entity.Note)}
}

func (r *memoryNoteRepository) GetById(_ context.Context, id uuid.UUID) (*entity.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, serverutils.ErrNotFound
	}
	return cloneNote(n), nil
}

func (r *memoryNoteRepository) GetAllByOwner(_ context.Context, ownerId uuid.UUID) ([]*entity.Note, error) {
	return r.collect(func(n entity.Note) bool {
		return n.OwnerId == ownerId
	}), nil
}

func (r *memoryNoteRepository) Create(_ context.Context, note *entity.Note) (*entity.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[note.Id]; ok {
		return nil, serverutils.ErrAlreadyExists
	}

	stored := *cloneNote(*note)
	r.notes[note.Id] = stored
	return cloneNote(stored), nil
}

func (r *memoryNoteRepository) Update(_ context.Context, note *entity.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[note.Id]; !ok {
		return serverutils.ErrNotFound
	}

	r.notes[note.Id] = *cloneNote(*note)
	return nil
}

func (r *memoryNoteRepository) DeleteById(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id]; !ok {
		return serverutils.ErrNotFound
	}

	delete(r.notes, id)
	return nil
}

func (r *memoryNoteRepository) SearchByOwner(_ context.Context, ownerId uuid.UUID, term string) ([]*entity.Note, error) {
	return r.collect(func(n entity.Note) bool {
		return n.OwnerId == ownerId &&
			(strings.Contains(n.Title, term) || strings.Contains(n.Description, term))
	}), nil
}

func (r *memoryNoteRepository) GetByOwnerAndDateRange(_ context.Context, ownerId uuid.UUID, from, to time.Time) ([]*entity.Note, error) {
	return r.collect(func(n entity.Note) bool {
		return n.OwnerId == ownerId &&
			!n.CreatedAt.Before(from) &&
			!n.CreatedAt.After(to)
	}), nil
}

func (r *memoryNoteRepository) collect(match func(entity.Note) bool) []*entity.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := make([]*entity.Note, 0)
	for _, n := range r.notes {
		if match(n) {
			notes = append(notes, cloneNote(n))
		}
	}
	return notes
}

func cloneNote(n entity.Note) *entity.Note {
	if n.UpdatedAt != nil {
		u := *n.UpdatedAt
		n.UpdatedAt = &u
	}
	return &n
}
