package memory

import (
	"context"
	"sort"
	"time"

	"peram-marketplace-service/internal/domain/product"
	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
)

// ProductRepository implements the product repository interface in memory
type ProductRepository struct {
	store *Store
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.products[p.ID] = copyProduct(p)
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, exists := r.store.products[id]
	if !exists {
		return nil, shared.ErrProductNotFound
	}
	return copyProduct(p), nil
}

func (r *ProductRepository) List(ctx context.Context, filter outbound.ProductFilter) ([]*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*product.Product
	for _, p := range r.store.products {
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.SellerID != nil && p.SellerID != *filter.SellerID {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		matched = append(matched, copyProduct(p))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Page <= 0 || filter.PageSize <= 0 {
		return matched, nil
	}
	offset := (filter.Page - 1) * filter.PageSize
	if offset >= len(matched) {
		return []*product.Product{}, nil
	}
	end := offset + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, p := range r.store.products {
		if p.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, exists := r.store.products[p.ID]
	if !exists {
		return shared.ErrProductNotFound
	}
	if existing.IsClosed() {
		return shared.ErrProductClosed
	}

	updated := copyProduct(p)
	// status and current bid only move through CloseAuction and bid placement
	updated.Status = existing.Status
	updated.CurrentBid = existing.CurrentBid
	r.store.products[p.ID] = updated
	return nil
}

func (r *ProductRepository) CloseAuction(ctx context.Context, id uuid.UUID, closedAt time.Time) (*product.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, exists := r.store.products[id]
	if !exists {
		return nil, shared.ErrProductNotFound
	}
	if p.IsClosed() {
		return nil, shared.ErrAuctionAlreadyClosed
	}

	p.Close(closedAt)
	return copyProduct(p), nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.products[id]; !exists {
		return shared.ErrProductNotFound
	}

	delete(r.store.products, id)
	delete(r.store.bids, id)
	return nil
}
