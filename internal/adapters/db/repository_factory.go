package db

import (
	"peram-marketplace-service/internal/ports/outbound"
)

// RepositoryFactory creates and manages all database repositories
type RepositoryFactory struct {
	conn *Connection
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(conn *Connection) *RepositoryFactory {
	return &RepositoryFactory{conn: conn}
}

// GetAllRepositories returns all repositories for dependency injection
func (f *RepositoryFactory) GetAllRepositories() outbound.Repositories {
	return outbound.Repositories{
		Users:      NewUserRepository(f.conn),
		Categories: NewCategoryRepository(f.conn),
		Products:   NewProductRepository(f.conn),
		Bids:       NewBidRepository(f.conn),
	}
}
