// Package httpclient implements the inventory client against the remote
// HTTP inventory/catalog API.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"cartflow/pkg/inventory"
)

// Client queries stock and catalog data over HTTP.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New creates a client for the API at baseURL. If hc is nil,
// http.DefaultClient is used.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: baseURL, hc: hc}
}

// GetStock fetches the available amount for a product.
func (c *Client) GetStock(ctx context.Context, productID int) (inventory.StockRecord, error) {
	var rec inventory.StockRecord
	if err := c.get(ctx, fmt.Sprintf("%s/stock/%d", c.baseURL, productID), &rec); err != nil {
		return inventory.StockRecord{}, err
	}
	return rec, nil
}

// GetProduct fetches catalog metadata for a product.
func (c *Client) GetProduct(ctx context.Context, productID int) (inventory.ProductMetadata, error) {
	var meta inventory.ProductMetadata
	if err := c.get(ctx, fmt.Sprintf("%s/products/%d", c.baseURL, productID), &meta); err != nil {
		return inventory.ProductMetadata{}, err
	}
	return meta, nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("calling inventory: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return inventory.ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("inventory returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding inventory response: %w", err)
	}
	return nil
}
