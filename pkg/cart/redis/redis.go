// Package redis implements cart storage on a single redis key per owner.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"cartflow/pkg/cart"
)

const keyPrefix = "cart:"

// Storage persists each cart as a JSON array under cart:{owner}.
type Storage struct {
	client *redis.Client
}

// New creates a redis-backed storage.
func New(client *redis.Client) *Storage {
	return &Storage{client: client}
}

// Load reads the stored cart. A missing key or an undecodable value yields
// an empty cart, not an error.
func (s *Storage) Load(ctx context.Context, owner string) (cart.Cart, error) {
	raw, err := s.client.Get(ctx, keyPrefix+owner).Bytes()
	if err == redis.Nil {
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

// Save overwrites the stored cart for the owner.
func (s *Storage) Save(ctx context.Context, owner string, c cart.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+owner, raw, 0).Err(); err != nil {
		return fmt.Errorf("writing cart: %w", err)
	}
	return nil
}
