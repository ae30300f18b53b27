// Package postgres implements cart storage in PostgreSQL, one serialized
// row per owner.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"cartflow/pkg/cart"
)

// Storage persists carts in the carts table.
type Storage struct {
	db *sql.DB
}

// New creates a PostgreSQL storage. The caller must ensure the carts table
// exists:
// CREATE TABLE IF NOT EXISTS carts (owner TEXT PRIMARY KEY, items JSONB NOT NULL);
func New(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Load reads the stored cart. A missing row or an undecodable value yields
// an empty cart, not an error.
func (s *Storage) Load(ctx context.Context, owner string) (cart.Cart, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx, "SELECT items FROM carts WHERE owner=$1", owner).Scan(&raw)
	if err == sql.ErrNoRows {
		return cart.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading cart: %w", err)
	}
	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return cart.Cart{}, nil
	}
	return c, nil
}

// Save upserts the stored cart for the owner.
func (s *Storage) Save(ctx context.Context, owner string, c cart.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO carts (owner, items) VALUES ($1,$2) ON CONFLICT (owner) DO UPDATE SET items=$2",
		owner, raw)
	if err != nil {
		return fmt.Errorf("writing cart: %w", err)
	}
	return nil
}
