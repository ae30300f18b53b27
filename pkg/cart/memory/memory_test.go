package memory

import (
	"context"
	"testing"

	"cartflow/pkg/cart"
)

func TestStorage(t *testing.T) {
	ctx := context.Background()
	s := New()

	c, err := s.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(c) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(c))
	}

	c = cart.Cart{{ID: 1, Title: "Widget", Price: 4.5, Amount: 2}}
	if err := s.Save(ctx, "alice", c); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Widget" {
		t.Fatalf("unexpected cart: %+v", got)
	}

	// Mutating the loaded copy must not leak into storage.
	got[0].Amount = 99
	again, _ := s.Load(ctx, "alice")
	if again[0].Amount != 2 {
		t.Fatalf("storage mutated through loaded copy: %+v", again)
	}

	other, err := s.Load(ctx, "bob")
	if err != nil || len(other) != 0 {
		t.Fatalf("expected empty cart for other owner, got %+v (%v)", other, err)
	}
}
