package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/themizzi/storecheck/internal/database"
	"github.com/themizzi/storecheck/internal/models"
)

// CartRepository handles database operations for carts
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository() *CartRepository {
	return &CartRepository{
		db: database.DB,
	}
}

// NewCartRepositoryWithDB creates a new cart repository with a specific database connection
func NewCartRepositoryWithDB(db *sql.DB) *CartRepository {
	return &CartRepository{
		db: db,
	}
}

// CreateCart creates a new, empty cart in the database
func (r *CartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {
	query := `
		INSERT INTO carts (id, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	now := time.Now()
	_, err := r.db.ExecContext(ctx, query, cart.ID, cart.Currency, now, now)
	if err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}

	cart.CreatedAt = now
	cart.UpdatedAt = now

	return nil
}

// GetCart retrieves a cart and its items, oldest item first
func (r *CartRepository) GetCart(ctx context.Context, id string) (*models.Cart, error) {
	query := `
		SELECT id, currency, created_at, updated_at
		FROM carts
		WHERE id = $1
	`

	cart := &models.Cart{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&cart.ID,
		&cart.Currency,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrCartNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	cart.Items = items

	return cart, nil
}

func (r *CartRepository) items(ctx context.Context, cartID string) ([]models.CartItem, error) {
	query := `
		SELECT id, app_id, name, price, currency, added_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY added_at, id
	`

	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.ID, &item.AppID, &item.Name, &item.Price, &item.Currency, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cart items: %w", err)
	}

	return items, nil
}

// AddItem stores an item and sets the cart currency
func (r *CartRepository) AddItem(ctx context.Context, cartID string, item *models.CartItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		UPDATE carts
		SET currency = $1, updated_at = $2
		WHERE id = $3
	`, item.Currency, now, cartID)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrCartNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cart_items (id, cart_id, app_id, name, price, currency, added_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, item.ID, cartID, item.AppID, item.Name, item.Price, item.Currency, item.AddedAt)
	if err != nil {
		return fmt.Errorf("failed to add cart item: %w", err)
	}

	return tx.Commit()
}
