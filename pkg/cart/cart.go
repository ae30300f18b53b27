// Package cart holds the shopping-cart state engine: the cart aggregate,
// the ports it depends on, and the store that mutates it.
package cart

import "context"

// Product is a single cart line: a catalog item plus the quantity the user
// intends to purchase.
type Product struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Image  string  `json:"image"`
	Amount int     `json:"amount"`
}

// Cart is an insertion-ordered collection of products, unique by ID.
type Cart []Product

// Clone returns an independent copy of the cart.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// index returns the position of the product with the given id, or -1.
func (c Cart) index(productID int) int {
	for i, p := range c {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

// Storage persists a cart per owner key. Load must yield an empty cart,
// not an error, when no value is stored or the stored value cannot be
// decoded.
type Storage interface {
	Load(ctx context.Context, owner string) (Cart, error)
	Save(ctx context.Context, owner string, c Cart) error
}

// Notifier receives user-facing transient messages. The store only emits
// level "error" with one of the three fixed messages below.
type Notifier interface {
	Notify(ctx context.Context, level, message string)
}

// Fixed user-facing messages emitted through the Notifier.
const (
	MsgStockExceeded   = "requested amount exceeds available stock"
	MsgProductNotFound = "product not found in cart"
	MsgOperationFailed = "cart operation failed"
)

// Code classifies the outcome of a store operation.
type Code string

// Operation outcome codes.
const (
	Committed     Code = "committed"      // mutation validated, persisted, applied
	StockExceeded Code = "stock_exceeded" // rejected: amount above available stock
	NotInCart     Code = "not_in_cart"    // rejected: id absent from the cart
	Failed        Code = "failed"         // inventory or storage failure, no change
	Ignored       Code = "ignored"        // guard hit, silently dropped
)

// Result is the terminal outcome of a store operation. No error ever
// crosses the store boundary; rejections and failures are carried here.
type Result struct {
	Code Code  `json:"status"`
	Cart Cart  `json:"cart"`
	Err  error `json:"-"` // underlying cause when Code == Failed
}

// Message returns the user-facing text for the result, or "" when the
// outcome produces no notification.
func (r Result) Message() string {
	switch r.Code {
	case StockExceeded:
		return MsgStockExceeded
	case NotInCart:
		return MsgProductNotFound
	case Failed:
		return MsgOperationFailed
	}
	return ""
}
