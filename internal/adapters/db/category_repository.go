package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"peram-marketplace-service/internal/domain/category"
	"peram-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
)

const categoryColumns = `id, name, description, created_at, updated_at`

// CategoryRepository implements the category repository interface
type CategoryRepository struct {
	conn *Connection
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(conn *Connection) *CategoryRepository {
	return &CategoryRepository{conn: conn}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES (:id, :name, :description, :created_at, :updated_at)
	`

	if _, err := r.conn.GetDB().NamedExecContext(ctx, query, c); err != nil {
		if isPQError(err, uniqueViolation) {
			return shared.ErrCategoryExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*category.Category, error) {
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
}

// GetByName retrieves a category by name
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*category.Category, error) {
	return r.getOne(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name)
}

func (r *CategoryRepository) getOne(ctx context.Context, query string, arg any) (*category.Category, error) {
	var c category.Category
	if err := r.conn.GetDB().GetContext(ctx, &c, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

// List retrieves all categories, newest first
func (r *CategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY created_at DESC`

	categories := []*category.Category{}
	if err := r.conn.GetDB().SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// Update updates a category
func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	query := `
		UPDATE categories
		SET name = :name, description = :description, updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.conn.GetDB().NamedExecContext(ctx, query, c)
	if err != nil {
		if isPQError(err, uniqueViolation) {
			return shared.ErrCategoryExists
		}
		return fmt.Errorf("failed to update category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrCategoryNotFound
	}

	return nil
}

// Delete deletes a category
func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM categories WHERE id = $1`

	result, err := r.conn.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		if isPQError(err, foreignKeyViolation) {
			return shared.ErrCategoryInUse
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrCategoryNotFound
	}

	return nil
}
