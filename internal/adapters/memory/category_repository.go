package memory

import (
	"context"
	"sort"

	"peram-marketplace-service/internal/domain/category"
	"peram-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
)

// CategoryRepository implements the category repository interface in memory
type CategoryRepository struct {
	store *Store
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.nameTaken(c.Name, c.ID) {
		return shared.ErrCategoryExists
	}

	r.store.categories[c.ID] = copyCategory(c)
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, exists := r.store.categories[id]
	if !exists {
		return nil, shared.ErrCategoryNotFound
	}
	return copyCategory(c), nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*category.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, c := range r.store.categories {
		if c.Name == name {
			return copyCategory(c), nil
		}
	}
	return nil, shared.ErrCategoryNotFound
}

func (r *CategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	categories := make([]*category.Category, 0, len(r.store.categories))
	for _, c := range r.store.categories {
		categories = append(categories, copyCategory(c))
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].CreatedAt.After(categories[j].CreatedAt)
	})
	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.categories[c.ID]; !exists {
		return shared.ErrCategoryNotFound
	}
	if r.nameTaken(c.Name, c.ID) {
		return shared.ErrCategoryExists
	}

	r.store.categories[c.ID] = copyCategory(c)
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.categories[id]; !exists {
		return shared.ErrCategoryNotFound
	}
	for _, p := range r.store.products {
		if p.CategoryID == id {
			return shared.ErrCategoryInUse
		}
	}

	delete(r.store.categories, id)
	return nil
}

// nameTaken must be called with the store lock held
func (r *CategoryRepository) nameTaken(name string, except uuid.UUID) bool {
	for id, c := range r.store.categories {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}
