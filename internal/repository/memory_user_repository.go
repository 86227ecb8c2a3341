package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"usercache-be/internal/entities"
)

type memoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]entities.User
	now   func() time.Time
}

// NewMemoryUserRepository creates a user repository held in process memory
func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{
		users: make(map[string]entities.User),
		now:   time.Now,
	}
}

// Create stores a new user under a fresh UUID
func (r *memoryUserRepository) Create(_ context.Context, fields entities.UserFields) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	for _, taken := r.users[id]; taken; _, taken = r.users[id] {
		id = uuid.NewString()
	}

	user := entities.User{
		ID:        id,
		Name:      fields.Name,
		Email:     fields.Email,
		CreatedAt: r.now().UTC(),
	}
	r.users[id] = user

	return &user, nil
}

// FindByID returns a copy of the stored user, or nil when absent
func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}
