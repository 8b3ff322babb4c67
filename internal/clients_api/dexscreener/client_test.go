package dexscreener

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"base-wallet-bot/internal/infra/httpx"
)

func TestFloat_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{`1234.5`, 1234.5},
		{`"0.000123"`, 0.000123},
		{`null`, 0},
		{`"n/a"`, 0},
		{`""`, 0},
		{`{"x":1}`, 0},
		{`"NaN"`, 0},
		{`"Infinity"`, 0},
		{`"-inf"`, 0},
		{`1e999`, 0},
	}

	for _, tt := range tests {
		var f Float
		if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
			t.Errorf("Unmarshal(%s) returned error: %v", tt.input, err)
			continue
		}
		if float64(f) != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, float64(f), tt.want)
		}
	}
}

func TestClient_TokenPairs(t *testing.T) {
	ctx := context.Background()
	token := "0x4ed4e862860bed51a9570b96d89af5e1b0efefed"

	t.Run("maps base token and 24h metrics", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/latest/dex/tokens/"+token {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.Write([]byte(`{"schemaVersion":"1.0.0","pairs":[{
				"chainId":"base","dexId":"uniswap","pairAddress":"0xpair",
				"baseToken":{"address":"` + token + `","name":"Degen","symbol":"DEGEN"},
				"quoteToken":{"address":"0x4200000000000000000000000000000000000006","name":"Wrapped Ether","symbol":"WETH"},
				"priceUsd":"0.01234","priceChange":{"h24":-3.5},"volume":{"h24":123456.7},"liquidity":{"usd":98765}
			}]}`))
		}))
		defer server.Close()

		client := New(server.URL, httpx.Options{})
		pairs, err := client.TokenPairs(ctx, token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(pairs) != 1 {
			t.Fatalf("expected 1 pair, got %d", len(pairs))
		}
		p := pairs[0]
		if p.Symbol != "DEGEN" || p.ChainID != "base" || p.TokenAddress != token {
			t.Errorf("unexpected pair %+v", p)
		}
		if p.PriceUSD != 0.01234 || p.PriceChange24h != -3.5 || p.Volume24h != 123456.7 || p.LiquidityUSD != 98765 {
			t.Errorf("unexpected metrics %+v", p)
		}
	})

	t.Run("null pairs", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"schemaVersion":"1.0.0","pairs":null}`))
		}))
		defer server.Close()

		client := New(server.URL, httpx.Options{})
		pairs, err := client.TokenPairs(ctx, token)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(pairs) != 0 {
			t.Errorf("expected no pairs, got %d", len(pairs))
		}
	})
}

func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/latest/dex/search" || r.URL.Query().Get("q") != "base" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		w.Write([]byte(`{"pairs":[
			{"chainId":"base","baseToken":{"symbol":"A"},"volume":{"h24":"500"}},
			{"chainId":"solana","baseToken":{"symbol":"B"},"volume":{}},
			{"chainId":"base","baseToken":{"symbol":"C"}}
		]}`))
	}))
	defer server.Close()

	client := New(server.URL, httpx.Options{})
	pairs, err := client.Search(context.Background(), "base")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 3 {
		t.Fatalf("expected 3 pairs, got %d", len(pairs))
	}
	if pairs[0].Volume24h != 500 || pairs[1].Volume24h != 0 || pairs[2].Volume24h != 0 {
		t.Errorf("unexpected volumes: %v %v %v", pairs[0].Volume24h, pairs[1].Volume24h, pairs[2].Volume24h)
	}
}
