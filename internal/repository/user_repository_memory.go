package repository

import (
	"context"
	"sync"

	"github.com/SophiaCH21/NoteBookApp/internal/entity"
	"github.com/SophiaCH21/NoteBookApp/internal/pkg/serverutils"
	"github.com/google/uuid"
)

type memoryUserRepository struct {
	mu      sync.RWMutex
	byId    map[uuid.UUID]entity.User
	byEmail map[string]uuid.UUID
}

func NewMemoryUserRepository() IUserRepository {
	return &memoryUserRepository{
		byId:    make(map[uuid.UUID]entity.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *memoryUserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return serverutils.ErrAlreadyExists
	}
	if _, ok := r.byId[user.Id]; ok {
		return serverutils.ErrAlreadyExists
	}

	r.byId[user.Id] = *user
	r.byEmail[user.Email] = user.Id
	return nil
}

func (r *memoryUserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, serverutils.ErrNotFound
	}
	u := r.byId[id]
	return &u, nil
}

func (r *memoryUserRepository) GetById(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byId[id]
	if !ok {
		return nil, serverutils.ErrNotFound
	}
	return &u, nil
}
