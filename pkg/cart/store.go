package cart

import (
	"context"
	"sync"

	"cartflow/pkg/inventory"
	"cartflow/pkg/logger"
)

// Store owns the authoritative in-memory cart for one owner and is the only
// mutation path to it. A single mutex is held across the whole
// read-validate-persist-commit span of each operation, so concurrent calls
// on the same cart are queued rather than racing on a stale snapshot.
type Store struct {
	owner   string
	storage Storage
	inv     inventory.Client
	sink    Notifier
	log     *logger.Logger

	mu   sync.Mutex
	cart Cart
}

// Open constructs a store for the given owner, loading the persisted cart.
// A storage failure on load is logged and the store starts with an empty
// cart; it is never fatal.
func Open(ctx context.Context, owner string, storage Storage, inv inventory.Client, sink Notifier, log *logger.Logger) *Store {
	s := &Store{owner: owner, storage: storage, inv: inv, sink: sink, log: log}

	c, err := storage.Load(ctx, owner)
	if err != nil {
		log.Warn(ctx, "cart load failed, starting empty", "owner", owner, "error", err)
		c = Cart{}
	}
	s.cart = c
	return s
}

// Items returns a snapshot of the current cart.
func (s *Store) Items() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// AddProduct puts one more unit of the product in the cart, appending a new
// line when the product is not yet present. The requested amount is
// validated against the stock observed during this call.
func (s *Store) AddProduct(ctx context.Context, productID int) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	stock, err := s.inv.GetStock(ctx, productID)
	if err != nil {
		return s.fail(ctx, "add", productID, err)
	}

	next := s.cart.Clone()
	i := next.index(productID)

	amount := 1
	if i >= 0 {
		amount = next[i].Amount + 1
	}
	if amount > stock.Amount {
		return s.reject(ctx, StockExceeded)
	}

	if i >= 0 {
		next[i].Amount = amount
	} else {
		meta, err := s.inv.GetProduct(ctx, productID)
		if err != nil {
			return s.fail(ctx, "add", productID, err)
		}
		next = append(next, Product{
			ID:     meta.ID,
			Title:  meta.Title,
			Price:  meta.Price,
			Image:  meta.Image,
			Amount: amount,
		})
	}
	return s.commit(ctx, "add", productID, next)
}

// RemoveProduct deletes the product's line from the cart.
func (s *Store) RemoveProduct(ctx context.Context, productID int) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.cart.index(productID)
	if i < 0 {
		return s.reject(ctx, NotInCart)
	}

	next := s.cart.Clone()
	next = append(next[:i], next[i+1:]...)
	return s.commit(ctx, "remove", productID, next)
}

// UpdateProductAmount sets the product's quantity to amount. Amounts of
// zero or less are ignored outright: the UI is expected to prevent them,
// this is only a guard.
func (s *Store) UpdateProductAmount(ctx context.Context, productID, amount int) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 {
		return Result{Code: Ignored, Cart: s.cart.Clone()}
	}

	stock, err := s.inv.GetStock(ctx, productID)
	if err != nil {
		return s.fail(ctx, "update", productID, err)
	}
	if amount > stock.Amount {
		return s.reject(ctx, StockExceeded)
	}

	i := s.cart.index(productID)
	if i < 0 {
		// The caller asked to resize a line that does not exist; the UI
		// and the store have diverged.
		return s.reject(ctx, NotInCart)
	}

	next := s.cart.Clone()
	next[i].Amount = amount
	return s.commit(ctx, "update", productID, next)
}

// commit persists the new cart and only then swaps it in. Callers hold mu.
func (s *Store) commit(ctx context.Context, op string, productID int, next Cart) Result {
	if err := s.storage.Save(ctx, s.owner, next); err != nil {
		return s.fail(ctx, op, productID, err)
	}
	s.cart = next
	return Result{Code: Committed, Cart: next.Clone()}
}

func (s *Store) reject(ctx context.Context, code Code) Result {
	r := Result{Code: code, Cart: s.cart.Clone()}
	s.sink.Notify(ctx, "error", r.Message())
	return r
}

// fail absorbs an unexpected error: the cause is kept on the result and in
// the log, the user sees only the generic message.
func (s *Store) fail(ctx context.Context, op string, productID int, err error) Result {
	s.log.Error(ctx, "cart operation failed", "op", op, "owner", s.owner, "product_id", productID, "error", err)
	s.sink.Notify(ctx, "error", MsgOperationFailed)
	return Result{Code: Failed, Cart: s.cart.Clone(), Err: err}
}
