package memory

import (
	"context"

	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/domain/user"

	"github.com/google/uuid"
)

// UserRepository implements the user repository interface in memory
type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.users[u.ID]; exists {
		return shared.ErrUserAlreadyExists
	}
	for _, existing := range r.store.users {
		if existing.Email == u.Email {
			return shared.ErrUserAlreadyExists
		}
	}

	r.store.users[u.ID] = copyUser(u)
	return nil
}

func (r *UserRepository) Upsert(ctx context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, exists := r.store.users[u.ID]; exists {
		existing.Email = u.Email
		existing.Name = u.Name
		existing.UpdatedAt = u.UpdatedAt
		return nil
	}

	r.store.users[u.ID] = copyUser(u)
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, exists := r.store.users[id]
	if !exists {
		return nil, shared.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, shared.ErrUserNotFound
}
