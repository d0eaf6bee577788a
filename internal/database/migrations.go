package database

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Schema creates the fixture storefront tables
const Schema = `
	CREATE TABLE IF NOT EXISTS carts (
		id UUID PRIMARY KEY,
		currency VARCHAR(3) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS cart_items (
		id UUID PRIMARY KEY,
		cart_id UUID NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
		app_id BIGINT NOT NULL,
		name VARCHAR(255) NOT NULL,
		price BIGINT NOT NULL,
		currency VARCHAR(3) NOT NULL,
		added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (cart_id, app_id)
	);

	CREATE INDEX IF NOT EXISTS idx_cart_items_cart_id ON cart_items(cart_id);
	`

// Migrate creates the necessary tables on db
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create cart tables: %w", err)
	}
	return nil
}

// RunMigrations creates the necessary database tables
func RunMigrations(logger *zap.Logger) error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	logger.Info("database migrations completed successfully")
	return nil
}
