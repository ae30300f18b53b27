// Package memory implements an in-memory inventory client for tests and
// local development.
package memory

import (
	"context"
	"sync"

	"cartflow/pkg/inventory"
)

// Client serves stock and catalog data from seeded maps.
type Client struct {
	mu    sync.RWMutex
	stock map[int]int
	meta  map[int]inventory.ProductMetadata
}

// New creates an empty in-memory inventory.
func New() *Client {
	return &Client{
		stock: make(map[int]int),
		meta:  make(map[int]inventory.ProductMetadata),
	}
}

// Seed registers a catalog item with its available stock.
func (c *Client) Seed(meta inventory.ProductMetadata, stock int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta[meta.ID] = meta
	c.stock[meta.ID] = stock
}

// SetStock adjusts the available amount for an already seeded item.
func (c *Client) SetStock(productID, amount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stock[productID] = amount
}

// GetStock returns the seeded stock record.
func (c *Client) GetStock(ctx context.Context, productID int) (inventory.StockRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	amount, ok := c.stock[productID]
	if !ok {
		return inventory.StockRecord{}, inventory.ErrNotFound
	}
	return inventory.StockRecord{ID: productID, Amount: amount}, nil
}

// GetProduct returns the seeded catalog metadata.
func (c *Client) GetProduct(ctx context.Context, productID int) (inventory.ProductMetadata, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.meta[productID]
	if !ok {
		return inventory.ProductMetadata{}, inventory.ErrNotFound
	}
	return meta, nil
}
