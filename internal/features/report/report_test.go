package report

import (
	"strings"
	"testing"

	"base-wallet-bot/internal/domain"

	"github.com/shopspring/decimal"
)

var links = LinkTemplates{
	AddressURL:   "https://basescan.org/address/%s",
	ChartURL:     "https://dexscreener.com/base/%s",
	ExplorerName: "Basescan",
}

const wallet = "0xd8da6bf26964af9d7eed9e03e53415d37aa96045"

func assertContains(t *testing.T, got string, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(got, part) {
			t.Errorf("expected output to contain %q, got:\n%s", part, got)
		}
	}
}

func TestWalletReport(t *testing.T) {
	t.Run("full report", func(t *testing.T) {
		r := domain.WalletReport{
			Snapshot: domain.WalletSnapshot{
				Address:     wallet,
				EthBalance:  decimal.RequireFromString("2.5"),
				EthPriceUSD: decimal.NewFromInt(3000),
			},
			Summaries: []domain.TokenActivitySummary{
				{Symbol: "USDC", Address: "0xusdc", BuyCount: 3, BuyAmount: decimal.NewFromInt(4000)},
				{Symbol: "DEGEN", Address: "0xdegen", BuyCount: 1, SellCount: 2, SellAmount: decimal.RequireFromString("0.5")},
				{Symbol: "AERO", Address: "0xaero", BuyCount: 1, SellCount: 1},
			},
			TopTraded: &domain.PairInfo{Symbol: "USDC", PriceUSD: 1.0001, PriceChange24h: 0.26, LiquidityUSD: 1234567},
		}

		got := WalletReport(r, links)
		assertContains(t, got,
			"<b>WALLET ANALYSIS</b>",
			"<code>0xd8da...6045</code>",
			`<a href="https://basescan.org/address/`+wallet+`">View on Basescan</a>`,
			"2.5000 ETH ($7,500.00)",
			"🟢 <b>USDC</b> - BUYING",
			"Buys: 3 (4K) | Sells: 0 (0)",
			"🔴 <b>DEGEN</b> - SELLING",
			"Sells: 2 (0.5)",
			"⚪ <b>AERO</b> - MIXED",
			`<a href="https://dexscreener.com/base/0xusdc">Chart</a>`,
			"<b>TOP TRADED: USDC</b>",
			"Price: $1.000100",
			"24h: +0.3%",
			"Liquidity: $1,234,567",
			disclaimer,
		)
		if strings.Contains(got, "unavailable") {
			t.Error("did not expect unavailable note")
		}
	})

	t.Run("balance only", func(t *testing.T) {
		r := domain.WalletReport{
			Snapshot: domain.WalletSnapshot{Address: wallet, EthBalance: decimal.NewFromInt(1), EthPriceUSD: decimal.Zero},
		}

		got := WalletReport(r, links)
		assertContains(t, got, "No recent token activity found", "1.0000 ETH ($0.00)")
		if strings.Contains(got, "TOP TRADED") {
			t.Error("did not expect top traded block")
		}
	})

	t.Run("unavailable sources", func(t *testing.T) {
		r := domain.WalletReport{
			Snapshot:    domain.WalletSnapshot{Address: wallet, EthBalance: decimal.NewFromInt(1)},
			Unavailable: []string{"price", "pair"},
		}
		assertContains(t, WalletReport(r, links), "unavailable (price, pair)")
	})

	t.Run("escapes upstream strings", func(t *testing.T) {
		r := domain.WalletReport{
			Snapshot:  domain.WalletSnapshot{Address: wallet, EthBalance: decimal.NewFromInt(1)},
			Summaries: []domain.TokenActivitySummary{{Symbol: "<script>", Address: "0xbad", BuyCount: 1}},
			TopTraded: &domain.PairInfo{Symbol: "A&B"},
		}

		got := WalletReport(r, links)
		if strings.Contains(got, "<script>") {
			t.Errorf("symbol not escaped:\n%s", got)
		}
		assertContains(t, got, "&lt;script&gt;", "A&amp;B")
	})
}

func TestTrending(t *testing.T) {
	t.Run("numbered list", func(t *testing.T) {
		pairs := []domain.PairInfo{
			{Symbol: "DEGEN", TokenAddress: "0xdegen", PriceUSD: 0.01234, PriceChange24h: 12.34, Volume24h: 1500000},
			{Symbol: "BRETT", TokenAddress: "0xbrett", PriceUSD: 0.1, PriceChange24h: -5, Volume24h: 900},
		}

		got := Trending(pairs, links, "Base")
		assertContains(t, got,
			"<b>TOP TOKENS ON BASE (by 24h volume)</b>",
			"1. <b>DEGEN</b> 🟢 +12.3%",
			"💵 $0.012340 | Vol: $1,500,000",
			"2. <b>BRETT</b> 🔴 -5.0%",
			`<a href="https://dexscreener.com/base/0xbrett">Chart</a>`,
		)
	})

	t.Run("zero change is red", func(t *testing.T) {
		got := Trending([]domain.PairInfo{{Symbol: "FLAT"}}, links, "Base")
		assertContains(t, got, "<b>FLAT</b> 🔴 +0.0%")
	})

	t.Run("empty list", func(t *testing.T) {
		if got := Trending(nil, links, "Base"); got != TrendingUnavailableMessage() {
			t.Errorf("expected unavailable message, got %q", got)
		}
	})
}

func TestStaticMessages(t *testing.T) {
	assertContains(t, WelcomeMessage("Base"), "Base Wallet Tracker Bot", "/trending", "/help", "/chart")
	assertContains(t, InvalidAddressMessage("Base"), ExampleAddress, "42 characters")
	assertContains(t, NoActivityMessage("Base"), "No activity found for this wallet on Base")
	if AnalyzingMessage() == "" || FetchingTrendingMessage() == "" {
		t.Error("expected notices to be non-empty")
	}
}

func TestFormatTokenAmount(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"0", "0"},
		{"0.123456", "0.1235"},
		{"2.5", "2.5"},
		{"1250", "1.3K"},
		{"2500000", "2.5M"},
		{"7000000000", "7B"},
		{"999.99996", "1K"},
		{"999999", "1M"},
		{"999999999", "1B"},
		{"-1250", "-1.3K"},
		{"2500000000000", "2500B"},
	}

	for _, tt := range tests {
		if got := formatTokenAmount(decimal.RequireFromString(tt.input)); got != tt.want {
			t.Errorf("formatTokenAmount(%s) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
