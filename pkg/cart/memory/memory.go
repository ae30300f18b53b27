// Package memory implements in-memory cart storage.
package memory

import (
	"context"
	"sync"

	"cartflow/pkg/cart"
)

// Storage keeps carts in a map keyed by owner.
type Storage struct {
	mu    sync.RWMutex
	carts map[string]cart.Cart
}

// New creates an empty in-memory storage.
func New() *Storage {
	return &Storage{carts: make(map[string]cart.Cart)}
}

// Load returns the stored cart, or an empty cart when none exists.
func (s *Storage) Load(ctx context.Context, owner string) (cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.carts[owner]
	if !ok {
		return cart.Cart{}, nil
	}
	return c.Clone(), nil
}

// Save overwrites the stored cart for the owner.
func (s *Storage) Save(ctx context.Context, owner string, c cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[owner] = c.Clone()
	return nil
}
