package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"base-wallet-bot/internal/infra/httpx"

	"github.com/shopspring/decimal"
)

func TestClient_EthUsdPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("parses price", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/simple/price" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			q := r.URL.Query()
			if q.Get("ids") != "ethereum" || q.Get("vs_currencies") != "usd" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"ethereum":{"usd":3012.45}}`))
		}))
		defer server.Close()

		client := New(server.URL, httpx.Options{})
		price, err := client.EthUsdPrice(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !price.Equal(decimal.RequireFromString("3012.45")) {
			t.Errorf("expected 3012.45, got %s", price)
		}
	})

	t.Run("missing coin", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := New(server.URL, httpx.Options{})
		_, err := client.EthUsdPrice(ctx)
		if !errors.Is(err, ErrPriceMissing) {
			t.Fatalf("expected ErrPriceMissing, got %v", err)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := New(server.URL, httpx.Options{})
		_, err := client.EthUsdPrice(ctx)
		if !httpx.IsStatus(err, http.StatusTooManyRequests) {
			t.Fatalf("expected 429 HTTPError, got %v", err)
		}
	})
}
