package cart_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"cartflow/pkg/cart"
	cartmem "cartflow/pkg/cart/memory"
	"cartflow/pkg/inventory"
	invmem "cartflow/pkg/inventory/memory"
	"cartflow/pkg/logger"
)

// sinkRecorder captures notifications for assertions.
type sinkRecorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *sinkRecorder) Notify(ctx context.Context, level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, level+": "+message)
}

func (r *sinkRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

// failingInventory errors on every call.
type failingInventory struct{}

func (failingInventory) GetStock(ctx context.Context, productID int) (inventory.StockRecord, error) {
	return inventory.StockRecord{}, errors.New("inventory down")
}

func (failingInventory) GetProduct(ctx context.Context, productID int) (inventory.ProductMetadata, error) {
	return inventory.ProductMetadata{}, errors.New("inventory down")
}

// failingStorage errors on every call.
type failingStorage struct{}

func (failingStorage) Load(ctx context.Context, owner string) (cart.Cart, error) {
	return nil, errors.New("storage down")
}

func (failingStorage) Save(ctx context.Context, owner string, c cart.Cart) error {
	return errors.New("storage down")
}

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func seededInventory() *invmem.Client {
	inv := invmem.New()
	inv.Seed(inventory.ProductMetadata{ID: 10, Title: "X", Price: 9.99, Image: "x.png"}, 5)
	inv.Seed(inventory.ProductMetadata{ID: 20, Title: "Y", Price: 19.99, Image: "y.png"}, 2)
	return inv
}

func TestAddProductNewItem(t *testing.T) {
	ctx := context.Background()
	sink := &sinkRecorder{}
	s := cart.Open(ctx, "alice", cartmem.New(), seededInventory(), sink, testLogger())

	res := s.AddProduct(ctx, 10)
	require.Equal(t, cart.Committed, res.Code)
	require.Len(t, res.Cart, 1)
	require.Equal(t, cart.Product{ID: 10, Title: "X", Price: 9.99, Image: "x.png", Amount: 1}, res.Cart[0])
	require.Empty(t, sink.all())
}

func TestAddProductIncrementsExisting(t *testing.T) {
	ctx := context.Background()
	s := cart.Open(ctx, "alice", cartmem.New(), seededInventory(), &sinkRecorder{}, testLogger())

	s.AddProduct(ctx, 10)
	res := s.AddProduct(ctx, 10)
	require.Equal(t, cart.Committed, res.Code)
	require.Len(t, res.Cart, 1)
	require.Equal(t, 2, res.Cart[0].Amount)
}

func TestAddProductStockExceeded(t *testing.T) {
	ctx := context.Background()
	sink := &sinkRecorder{}
	s := cart.Open(ctx, "alice", cartmem.New(), seededInventory(), sink, testLogger())

	// Product 20 has stock 2; the third add must be rejected.
	s.AddProduct(ctx, 20)
	s.AddProduct(ctx, 20)
	res := s.AddProduct(ctx, 20)

	require.Equal(t, cart.StockExceeded, res.Code)
	require.Equal(t, 2, res.Cart[0].Amount)
	require.Equal(t, []string{"error: " + cart.MsgStockExceeded}, sink.all())
	require.Equal(t, 2, s.Items()[0].Amount)
}

func TestAddProductUnknownID(t *testing.T) {
	ctx := context.Background()
	sink := &sinkRecorder{}
	s := cart.Open(ctx, "alice", cartmem.New(), seededInventory(), sink, testLogger())

	res := s.AddProduct(ctx, 99)
	require.Equal(t, cart.Failed, res.Code)
	require.ErrorIs(t, res.Err, inventory.ErrNotFound)
	require.Empty(t, res.Cart)
	require.Equal(t, []string{"error: " + cart.MsgOperationFailed}, sink.all())
}

func TestAddProductInventoryFailure(t *testing.T) {
	ctx := context.Background()
	sink := &sinkRecorder{}
	s := cart.Open(ctx, "alice", cartmem.New(), failingInventory{}, sink, testLogger())

	res := s.AddProduct(ctx, 10)
	require.Equal(t, cart.Failed, res.Code)
	require.Error(t, res.Err)
	require.Empty(t, s.Items())
	require.Equal(t, []string{"error: " + cart.MsgOperationFailed}, sink.all())
}

func TestRemoveProduct(t *testing.T) {
	ctx := context.Background()
	storage := cartmem.New()
	s := cart.Open(ctx, "alice", storage, seededInventory(), &sinkRecorder{}, testLogger())

	s.AddProduct(ctx, 10)
	s.AddProduct(ctx, 20)
	res := s.RemoveProduct(ctx, 10)

	require.Equal(t, cart.Committed, res.Code)
	require.Len(t, res.Cart, 1)
	require.Equal(t, 20, res.Cart[0].ID)

	stored, err := storage.Load(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, res.Cart, stored)
}

func TestRemoveAbsentProduct(t *testing.T) {
	ctx := context.Background()
	sink := &sinkRecorder{}
	s := cart.Open(ctx, "alice", cartmem.New(), seededInventory(), sink, testLogger())

	res := s.RemoveProduct(ctx, 7)
	require.Equal(t, cart.NotInCart, res.Code)
	require.Empty(t, res.Cart)
	require.Equal(t, []string{"error: " + cart.MsgProductNotFound}, sink.all())
}

func TestUpdateProductAmount(t *testing.T) {
	ctx := context.Background()
	s := cart.Open(ctx, "alice", cartmem.New(), seededInventory(), &sinkRecorder{}, testLogger())

	s.AddProduct(ctx, 10)
	res := s.UpdateProductAmount(ctx, 10, 4)
	require.Equal(t, cart.Committed, res.Code)
	require.Equal(t, 4, res.Cart[0].Amount)
}

func TestUpdateAmountFloorIsSilentNoop(t *testing.T) {
	ctx := context.Background()
	sink := &sinkRecorder{}
	s := cart.Open(ctx, "alice", cartmem.New(), seededInventory(), sink, testLogger())

	s.AddProduct(ctx, 10)
	before := s.Items()

	for _, amount := range []int{0, -3} {
		res := s.UpdateProductAmount(ctx, 10, amount)
		require.Equal(t, cart.Ignored, res.Code)
	}
	require.Equal(t, before, s.Items())
	require.Empty(t, sink.all())
}

func TestUpdateAmountStockExceeded(t *testing.T) {
	ctx := context.Background()
	sink := &sinkRecorder{}
	s := cart.Open(ctx, "alice", cartmem.New(), seededInventory(), sink, testLogger())

	s.AddProduct(ctx, 10)
	res := s.UpdateProductAmount(ctx, 10, 6)
	require.Equal(t, cart.StockExceeded, res.Code)
	require.Equal(t, 1, s.Items()[0].Amount)
	require.Equal(t, []string{"error: " + cart.MsgStockExceeded}, sink.all())
}

func TestUpdateAmountAbsentProduct(t *testing.T) {
	ctx := context.Background()
	sink := &sinkRecorder{}
	s := cart.Open(ctx, "alice", cartmem.New(), seededInventory(), sink, testLogger())

	res := s.UpdateProductAmount(ctx, 10, 2)
	require.Equal(t, cart.NotInCart, res.Code)
	require.Empty(t, s.Items())
	require.Equal(t, []string{"error: " + cart.MsgProductNotFound}, sink.all())
}

func TestPersistenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := cartmem.New()
	inv := seededInventory()

	s := cart.Open(ctx, "alice", storage, inv, &sinkRecorder{}, testLogger())
	s.AddProduct(ctx, 10)
	s.AddProduct(ctx, 20)
	s.UpdateProductAmount(ctx, 10, 3)
	committed := s.Items()

	// Fresh session over the same storage.
	reopened := cart.Open(ctx, "alice", storage, inv, &sinkRecorder{}, testLogger())
	require.Equal(t, committed, reopened.Items())
}

func TestOpenWithFailingStorageStartsEmpty(t *testing.T) {
	ctx := context.Background()
	s := cart.Open(ctx, "alice", failingStorage{}, seededInventory(), &sinkRecorder{}, testLogger())
	require.Empty(t, s.Items())
}

func TestSaveFailureLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	sink := &sinkRecorder{}
	s := cart.Open(ctx, "alice", failingStorage{}, seededInventory(), sink, testLogger())

	res := s.AddProduct(ctx, 10)
	require.Equal(t, cart.Failed, res.Code)
	require.Error(t, res.Err)
	require.Empty(t, s.Items())
}

func TestConcurrentAddsAreSerialized(t *testing.T) {
	ctx := context.Background()
	s := cart.Open(ctx, "alice", cartmem.New(), seededInventory(), &sinkRecorder{}, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddProduct(ctx, 10)
		}()
	}
	wg.Wait()

	items := s.Items()
	require.Len(t, items, 1)
	require.Equal(t, 2, items[0].Amount)
}

func TestCartInvariantsHold(t *testing.T) {
	ctx := context.Background()
	s := cart.Open(ctx, "alice", cartmem.New(), seededInventory(), &sinkRecorder{}, testLogger())

	s.AddProduct(ctx, 10)
	s.AddProduct(ctx, 20)
	s.AddProduct(ctx, 10)
	s.AddProduct(ctx, 20)
	s.AddProduct(ctx, 20) // rejected, stock is 2
	s.UpdateProductAmount(ctx, 10, 0)
	s.RemoveProduct(ctx, 7)

	seen := make(map[int]bool)
	for _, p := range s.Items() {
		require.Greater(t, p.Amount, 0)
		require.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
	}
}
