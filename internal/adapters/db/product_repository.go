package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"peram-marketplace-service/internal/domain/product"
	"peram-marketplace-service/internal/domain/shared"
	"peram-marketplace-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const productColumns = `id, title, description, category_id, seller_id, starting_bid, current_bid,
	auction_end_time, images, status, created_at, updated_at`

type productRow struct {
	ID             uuid.UUID      `db:"id"`
	Title          string         `db:"title"`
	Description    string         `db:"description"`
	CategoryID     uuid.UUID      `db:"category_id"`
	SellerID       uuid.UUID      `db:"seller_id"`
	StartingBid    float64        `db:"starting_bid"`
	CurrentBid     float64        `db:"current_bid"`
	AuctionEndTime time.Time      `db:"auction_end_time"`
	Images         pq.StringArray `db:"images"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func newProductRow(p *product.Product) productRow {
	images := pq.StringArray(p.Images)
	if images == nil {
		images = pq.StringArray{}
	}
	return productRow{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		CategoryID:     p.CategoryID,
		SellerID:       p.SellerID,
		StartingBid:    p.StartingBid,
		CurrentBid:     p.CurrentBid,
		AuctionEndTime: p.AuctionEndTime,
		Images:         images,
		Status:         string(p.Status),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (row productRow) toDomain() *product.Product {
	images := []string(row.Images)
	if images == nil {
		images = []string{}
	}
	return &product.Product{
		ID:             row.ID,
		Title:          row.Title,
		Description:    row.Description,
		CategoryID:     row.CategoryID,
		SellerID:       row.SellerID,
		StartingBid:    row.StartingBid,
		CurrentBid:     row.CurrentBid,
		AuctionEndTime: row.AuctionEndTime.UTC(),
		Images:         images,
		Status:         product.Status(row.Status),
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
}

// ProductRepository implements the product repository interface
type ProductRepository struct {
	conn *Connection
}

// NewProductRepository creates a new product repository
func NewProductRepository(conn *Connection) *ProductRepository {
	return &ProductRepository{conn: conn}
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES (:id, :title, :description, :category_id, :seller_id, :starting_bid, :current_bid,
			:auction_end_time, :images, :status, :created_at, :updated_at)
	`

	if _, err := r.conn.GetDB().NamedExecContext(ctx, query, newProductRow(p)); err != nil {
		if isPQError(err, foreignKeyViolation) {
			return shared.ErrCategoryNotFound
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*product.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var row productRow
	if err := r.conn.GetDB().GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return row.toDomain(), nil
}

// List retrieves a page of products with optional filters
func (r *ProductRepository) List(ctx context.Context, filter outbound.ProductFilter) ([]*product.Product, error) {
	var conditions []string
	var args []any

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.SellerID != nil {
		args = append(args, *filter.SellerID)
		conditions = append(conditions, fmt.Sprintf("seller_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Page > 0 && filter.PageSize > 0 {
		args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	var rows []productRow
	if err := r.conn.GetDB().SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*product.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, row.toDomain())
	}

	return products, nil
}

// CountByCategory counts products in a category
func (r *ProductRepository) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var count int
	if err := r.conn.GetDB().GetContext(ctx, &count, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// Update updates the editable fields of an active product. Status belongs to
// CloseAuction and the current bid to bid placement.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	query := `
		UPDATE products
		SET title = :title, description = :description, category_id = :category_id,
		    auction_end_time = :auction_end_time, images = :images, updated_at = :updated_at
		WHERE id = :id AND status = 'active'
	`

	result, err := r.conn.GetDB().NamedExecContext(ctx, query, newProductRow(p))
	if err != nil {
		if isPQError(err, foreignKeyViolation) {
			return shared.ErrCategoryNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return r.inactiveReason(ctx, p.ID, shared.ErrProductClosed)
	}

	return nil
}

// CloseAuction moves an active product to closed and returns the closed row.
// Bid placement requires status 'active', so no bid lands after this commits.
func (r *ProductRepository) CloseAuction(ctx context.Context, id uuid.UUID, closedAt time.Time) (*product.Product, error) {
	query := `
		UPDATE products
		SET status = 'closed', updated_at = $2
		WHERE id = $1 AND status = 'active'
		RETURNING ` + productColumns

	var row productRow
	if err := r.conn.GetDB().GetContext(ctx, &row, query, id, closedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.inactiveReason(ctx, id, shared.ErrAuctionAlreadyClosed)
		}
		return nil, fmt.Errorf("failed to close auction: %w", err)
	}

	return row.toDomain(), nil
}

// inactiveReason tells a missing product from a closed one after a conditional write matched nothing
func (r *ProductRepository) inactiveReason(ctx context.Context, id uuid.UUID, closedErr error) error {
	var exists bool
	if err := r.conn.GetDB().GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id); err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return shared.ErrProductNotFound
	}
	return closedErr
}

// Delete deletes a product
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.conn.GetDB().ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return shared.ErrProductNotFound
	}

	return nil
}
