package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func TestClient_GetJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes successful response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/simple/price" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.URL.Query().Get("ids") != "ethereum" {
				t.Errorf("expected ids=ethereum, got %q", r.URL.RawQuery)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"value": 42}`))
		}))
		defer server.Close()

		client := New("test", server.URL+"/", Options{})

		var dest struct {
			Value int `json:"value"`
		}
		err := client.GetJSON(ctx, "/simple/price", url.Values{"ids": {"ethereum"}}, &dest)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dest.Value != 42 {
			t.Errorf("expected 42, got %d", dest.Value)
		}
	})

	t.Run("returns HTTPError for non-2xx", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("upstream down"))
		}))
		defer server.Close()

		client := New("test", server.URL, Options{})

		var dest map[string]interface{}
		err := client.GetJSON(ctx, "/x", nil, &dest)

		var he *HTTPError
		if !errors.As(err, &he) {
			t.Fatalf("expected HTTPError, got %v", err)
		}
		if he.StatusCode != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", he.StatusCode)
		}
		if !IsStatus(err, http.StatusBadGateway) {
			t.Error("expected IsStatus to match 502")
		}
	})

	t.Run("wraps malformed payload as ErrDecode", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not json</html>"))
		}))
		defer server.Close()

		client := New("test", server.URL, Options{})

		var dest map[string]interface{}
		err := client.GetJSON(ctx, "/x", nil, &dest)
		if !errors.Is(err, ErrDecode) {
			t.Fatalf("expected ErrDecode, got %v", err)
		}
	})

	t.Run("times out slow upstream", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}))
		defer server.Close()

		client := New("test", server.URL, Options{Timeout: 50 * time.Millisecond})

		var dest map[string]interface{}
		if err := client.GetJSON(ctx, "/slow", nil, &dest); err == nil {
			t.Fatal("expected timeout error")
		}
	})
}

func TestClient_CircuitBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("opens after consecutive server errors", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := New("flaky", server.URL, Options{MaxConsecutiveFailures: 2, BreakerCooldown: time.Minute})

		for i := 0; i < 2; i++ {
			if _, err := client.Get(ctx, "/x", nil); err == nil {
				t.Fatal("expected error")
			}
		}

		_, err := client.Get(ctx, "/x", nil)
		if !errors.Is(err, gobreaker.ErrOpenState) {
			t.Fatalf("expected open breaker, got %v", err)
		}
		if got := atomic.LoadInt32(&hits); got != 2 {
			t.Errorf("expected 2 upstream hits, got %d", got)
		}
		if client.State() != gobreaker.StateOpen {
			t.Errorf("expected open state, got %s", client.State())
		}
	})

	t.Run("client errors do not trip the breaker", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := New("strict", server.URL, Options{MaxConsecutiveFailures: 2})

		for i := 0; i < 4; i++ {
			_, err := client.Get(ctx, "/missing", nil)
			if !IsStatus(err, http.StatusNotFound) {
				t.Fatalf("attempt %d: expected 404, got %v", i, err)
			}
		}
		if client.State() != gobreaker.StateClosed {
			t.Errorf("expected closed state, got %s", client.State())
		}
	})
}
