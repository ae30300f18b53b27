// Package inventory defines the client port for the remote stock and
// product-catalog source.
package inventory

import (
	"context"
	"errors"
)

// StockRecord reports the units currently available for one catalog item.
// It is fetched fresh for every validation and never persisted.
type StockRecord struct {
	ID     int `json:"id"`
	Amount int `json:"amount"`
}

// ProductMetadata is the catalog description of an item.
type ProductMetadata struct {
	ID    int     `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Client defines behavior for querying the inventory source. Both calls
// block until the remote responds or ctx is done.
type Client interface {
	GetStock(ctx context.Context, productID int) (StockRecord, error)
	GetProduct(ctx context.Context, productID int) (ProductMetadata, error)
}

// ErrNotFound indicates the inventory source has no record for the id.
var ErrNotFound = errors.New("product not found")
