package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"peram-marketplace-service/internal/domain/bid"
	"peram-marketplace-service/internal/domain/product"
	"peram-marketplace-service/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const bidColumns = `id, product_id, buyer_id, amount, status, created_at, updated_at`

// BidRepository implements the bid repository interface
type BidRepository struct {
	conn *Connection
}

// NewBidRepository creates a new bid repository
func NewBidRepository(conn *Connection) *BidRepository {
	return &BidRepository{conn: conn}
}

// GetByProductID retrieves all bids for a product
func (r *BidRepository) GetByProductID(ctx context.Context, productID uuid.UUID) ([]*bid.Bid, error) {
	query := `
		SELECT ` + bidColumns + `
		FROM bids
		WHERE product_id = $1
		ORDER BY amount DESC, created_at ASC
	`

	bids := []*bid.Bid{}
	if err := r.conn.GetDB().SelectContext(ctx, &bids, query, productID); err != nil {
		return nil, fmt.Errorf("failed to get bids: %w", err)
	}

	return bids, nil
}

// GetHighestBid retrieves the highest bid for a product
func (r *BidRepository) GetHighestBid(ctx context.Context, productID uuid.UUID) (*bid.Bid, error) {
	query := `
		SELECT ` + bidColumns + `
		FROM bids
		WHERE product_id = $1 AND status = 'accepted'
		ORDER BY amount DESC, created_at ASC
		LIMIT 1
	`

	var b bid.Bid
	if err := r.conn.GetDB().GetContext(ctx, &b, query, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNoBidsFound
		}
		return nil, fmt.Errorf("failed to get highest bid: %w", err)
	}

	return &b, nil
}

// CountByProductID counts the bids on a product
func (r *BidRepository) CountByProductID(ctx context.Context, productID uuid.UUID) (int, error) {
	var count int
	if err := r.conn.GetDB().GetContext(ctx, &count, `SELECT COUNT(*) FROM bids WHERE product_id = $1`, productID); err != nil {
		return 0, fmt.Errorf("failed to count bids: %w", err)
	}
	return count, nil
}

/*
PlaceBidWithOCC places a bid using optimistic concurrency control.
 1. Reading the current product state
 2. Validating the expected current bid matches the stored one
 3. Raising the current bid only if it hasn't changed and the auction is still active
 4. Recording the bid in the same transaction
*/
func (r *BidRepository) PlaceBidWithOCC(ctx context.Context, newBid *bid.Bid, expectedCurrentBid float64) error {
	return r.conn.ExecuteTransaction(ctx, func(tx *sqlx.Tx) error {
		var state struct {
			CurrentBid float64 `db:"current_bid"`
			Status     string  `db:"status"`
		}
		err := tx.GetContext(ctx, &state, `SELECT current_bid, status FROM products WHERE id = $1`, newBid.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return shared.ErrProductNotFound
			}
			return fmt.Errorf("failed to get product for OCC: %w", err)
		}

		if product.Status(state.Status) != product.StatusActive {
			return shared.ErrAuctionClosed
		}

		if state.CurrentBid != expectedCurrentBid || newBid.Amount <= state.CurrentBid {
			return shared.ErrBidAmountTooLow
		}

		updateQuery := `
			UPDATE products
			SET current_bid = $2, updated_at = $3
			WHERE id = $1 AND current_bid = $4 AND status = 'active'
		`
		result, err := tx.ExecContext(ctx, updateQuery,
			newBid.ProductID,
			newBid.Amount,
			newBid.CreatedAt,
			expectedCurrentBid,
		)
		if err != nil {
			return fmt.Errorf("failed to update product current bid: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}

		// another transaction moved the current bid or closed the auction first
		if rowsAffected == 0 {
			if err := tx.GetContext(ctx, &state.Status, `SELECT status FROM products WHERE id = $1`, newBid.ProductID); err != nil {
				return fmt.Errorf("failed to recheck product status: %w", err)
			}
			if product.Status(state.Status) != product.StatusActive {
				return shared.ErrAuctionClosed
			}
			return shared.ErrBidAmountTooLow
		}

		insertQuery := `
			INSERT INTO bids (` + bidColumns + `)
			VALUES (:id, :product_id, :buyer_id, :amount, :status, :created_at, :updated_at)
		`
		if _, err := tx.NamedExecContext(ctx, insertQuery, newBid); err != nil {
			return fmt.Errorf("failed to insert bid: %w", err)
		}

		return nil
	})
}
