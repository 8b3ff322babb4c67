package tg_charts

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"base-wallet-bot/internal/domain"
)

func TestRenderTrendingVolume(t *testing.T) {
	pairs := []domain.PairInfo{
		{Symbol: "DEGEN", Volume24h: 1500000, PriceChange24h: 4.2},
		{Symbol: "BRETT", Volume24h: 800000, PriceChange24h: -1.5},
		{Symbol: "", Volume24h: 0},
	}

	data, err := RenderTrendingVolume(pairs, "Top tokens on Base")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != chartWidth || img.Bounds().Dy() != chartHeight {
		t.Errorf("unexpected size %v", img.Bounds())
	}
}

func TestRenderTrendingVolume_NoPairs(t *testing.T) {
	if _, err := RenderTrendingVolume(nil, "empty"); !errors.Is(err, ErrNoPairs) {
		t.Fatalf("expected ErrNoPairs, got %v", err)
	}
}

func TestSavePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "trending.png")
	if err := SavePNG(path, []byte{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() != 3 {
		t.Errorf("expected 3-byte file, got %v %v", info, err)
	}
}

func TestFormatCompactUSD(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0"},
		{950, "950"},
		{1000, "1K"},
		{1500000, "1.5M"},
		{2000000000, "2B"},
	}

	for _, tt := range tests {
		if got := formatCompactUSD(tt.input); got != tt.want {
			t.Errorf("formatCompactUSD(%v) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
