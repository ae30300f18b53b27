package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cartflow/pkg/inventory"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/stock/10", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":10,"amount":5}`))
	})
	mux.HandleFunc("/products/10", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":10,"title":"X","price":9.99,"image":"x.png"}`))
	})
	mux.HandleFunc("/stock/66", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGetStock(t *testing.T) {
	srv := testServer(t)
	c := New(srv.URL, srv.Client())

	rec, err := c.GetStock(context.Background(), 10)
	if err != nil {
		t.Fatalf("get stock: %v", err)
	}
	if rec.ID != 10 || rec.Amount != 5 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestGetProduct(t *testing.T) {
	srv := testServer(t)
	c := New(srv.URL, srv.Client())

	meta, err := c.GetProduct(context.Background(), 10)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if meta.Title != "X" || meta.Price != 9.99 || meta.Image != "x.png" {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestGetStockNotFound(t *testing.T) {
	srv := testServer(t)
	c := New(srv.URL, srv.Client())

	if _, err := c.GetStock(context.Background(), 404); !errors.Is(err, inventory.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetStockMalformedPayload(t *testing.T) {
	srv := testServer(t)
	c := New(srv.URL, srv.Client())

	if _, err := c.GetStock(context.Background(), 66); err == nil {
		t.Fatal("expected decode error")
	}
}
