package memory

import (
	"sync"

	"peram-marketplace-service/internal/domain/bid"
	"peram-marketplace-service/internal/domain/category"
	"peram-marketplace-service/internal/domain/product"
	"peram-marketplace-service/internal/domain/user"
	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
)

// Store keeps every collection in process memory behind one lock so that bid
// placement can update a product and append a bid atomically.
type Store struct {
	mu         sync.RWMutex
	users      map[uuid.UUID]*user.User
	categories map[uuid.UUID]*category.Category
	products   map[uuid.UUID]*product.Product
	bids       map[uuid.UUID][]*bid.Bid // productID -> bids
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		users:      make(map[uuid.UUID]*user.User),
		categories: make(map[uuid.UUID]*category.Category),
		products:   make(map[uuid.UUID]*product.Product),
		bids:       make(map[uuid.UUID][]*bid.Bid),
	}
}

// Repositories returns every repository backed by this store
func (s *Store) Repositories() outbound.Repositories {
	return outbound.Repositories{
		Users:      &UserRepository{store: s},
		Categories: &CategoryRepository{store: s},
		Products:   &ProductRepository{store: s},
		Bids:       &BidRepository{store: s},
	}
}

func copyUser(u *user.User) *user.User {
	c := *u
	return &c
}

func copyCategory(c *category.Category) *category.Category {
	out := *c
	return &out
}

func copyProduct(p *product.Product) *product.Product {
	out := *p
	out.Images = append([]string(nil), p.Images...)
	return &out
}

func copyBid(b *bid.Bid) *bid.Bid {
	out := *b
	return &out
}
