// Package gateway is the single entry point to the read-only upstream data sources.
// Every operation is its own failure domain: a Lookup returns the value together with
// the failure, and the matching Fetch collapses a failure into the zero value.
package gateway

import (
	"context"

	"base-wallet-bot/internal/clients_api/coingecko"
	"base-wallet-bot/internal/clients_api/dexscreener"
	"base-wallet-bot/internal/clients_api/etherscan"
	"base-wallet-bot/internal/domain"
	"base-wallet-bot/internal/infra/config"
	"base-wallet-bot/internal/infra/httpx"
	"base-wallet-bot/internal/infra/log"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Source names, as reported in Result.Source and WalletReport.Unavailable.
const (
	SourcePrice     = "price"
	SourceBalance   = "balance"
	SourceTransfers = "transfers"
	SourcePair      = "pair"
	SourceSearch    = "search"
)

// Result carries a lookup outcome. Value holds the default when Err is set.
type Result[T any] struct {
	Value  T
	Err    error
	Source string
}

func (r Result[T]) OK() bool { return r.Err == nil }

// OrZero returns Value, which is the type's default when the lookup failed.
func (r Result[T]) OrZero() T { return r.Value }

func failed[T any](source string, zero T, err error, fields ...zap.Field) Result[T] {
	log.LogError("Upstream lookup failed",
		append([]zap.Field{zap.String("source", source), zap.Error(err)}, fields...)...)
	return Result[T]{Value: zero, Err: err, Source: source}
}

func ok[T any](source string, value T) Result[T] {
	return Result[T]{Value: value, Source: source}
}

type priceAPI interface {
	EthUsdPrice(ctx context.Context) (decimal.Decimal, error)
}

type explorerAPI interface {
	Balance(ctx context.Context, address string) (decimal.Decimal, error)
	TokenTransfers(ctx context.Context, address string, limit int) ([]domain.TokenTransferRecord, error)
}

type pairsAPI interface {
	TokenPairs(ctx context.Context, tokenAddress string) ([]domain.PairInfo, error)
	Search(ctx context.Context, query string) ([]domain.PairInfo, error)
}

// Gateway holds no request state and is safe for concurrent use.
type Gateway struct {
	prices     priceAPI
	explorer   explorerAPI
	pairs      pairsAPI
	transports []*httpx.Client
}

// New wires the production clients from configuration.
func New(cfg *config.Config) *Gateway {
	opts := httpx.Options{
		Timeout:         cfg.Upstream.Timeout,
		MaxResponseSize: cfg.Upstream.MaxResponseSize,
	}

	prices := coingecko.New(cfg.Upstream.CoinGeckoURL, opts)
	explorer := etherscan.New(cfg.Upstream.EtherscanURL, cfg.Upstream.EtherscanAPIKey, cfg.Chain.ExplorerChainID, opts)
	pairs := dexscreener.New(cfg.Upstream.DexScreenerURL, opts)

	g := NewWithClients(prices, explorer, pairs)
	g.transports = []*httpx.Client{prices.Transport(), explorer.Transport(), pairs.Transport()}
	return g
}

// NewWithClients builds a gateway over arbitrary implementations, used by tests.
func NewWithClients(prices priceAPI, explorer explorerAPI, pairs pairsAPI) *Gateway {
	return &Gateway{prices: prices, explorer: explorer, pairs: pairs}
}

// LookupEthUsdPrice returns the current ETH/USD price.
func (g *Gateway) LookupEthUsdPrice(ctx context.Context) Result[decimal.Decimal] {
	price, err := g.prices.EthUsdPrice(ctx)
	if err != nil {
		return failed(SourcePrice, decimal.Zero, err)
	}
	return ok(SourcePrice, price)
}

// LookupEthBalance returns the native balance of address in ETH.
func (g *Gateway) LookupEthBalance(ctx context.Context, address string) Result[decimal.Decimal] {
	balance, err := g.explorer.Balance(ctx, address)
	if err != nil {
		return failed(SourceBalance, decimal.Zero, err, zap.String("address", address))
	}
	return ok(SourceBalance, balance)
}

// LookupTokenTransfers returns up to limit most recent token transfers, newest first.
func (g *Gateway) LookupTokenTransfers(ctx context.Context, address string, limit int) Result[[]domain.TokenTransferRecord] {
	transfers, err := g.explorer.TokenTransfers(ctx, address, limit)
	if err != nil {
		return failed(SourceTransfers, []domain.TokenTransferRecord{}, err, zap.String("address", address))
	}
	if transfers == nil {
		transfers = []domain.TokenTransferRecord{}
	}
	return ok(SourceTransfers, transfers)
}

// LookupPairInfo returns the first pair the provider lists for tokenAddress.
// No pairs is a successful lookup with a nil value.
func (g *Gateway) LookupPairInfo(ctx context.Context, tokenAddress string) Result[*domain.PairInfo] {
	pairs, err := g.pairs.TokenPairs(ctx, tokenAddress)
	if err != nil {
		return failed[*domain.PairInfo](SourcePair, nil, err, zap.String("token", tokenAddress))
	}
	if len(pairs) == 0 {
		return ok[*domain.PairInfo](SourcePair, nil)
	}
	first := pairs[0]
	return ok(SourcePair, &first)
}

// LookupSearchPairs returns pairs matching query across all chains.
func (g *Gateway) LookupSearchPairs(ctx context.Context, query string) Result[[]domain.PairInfo] {
	pairs, err := g.pairs.Search(ctx, query)
	if err != nil {
		return failed(SourceSearch, []domain.PairInfo{}, err, zap.String("query", query))
	}
	if pairs == nil {
		pairs = []domain.PairInfo{}
	}
	return ok(SourceSearch, pairs)
}

// FetchEthUsdPrice is LookupEthUsdPrice with failures read as 0.
func (g *Gateway) FetchEthUsdPrice(ctx context.Context) decimal.Decimal {
	return g.LookupEthUsdPrice(ctx).OrZero()
}

func (g *Gateway) FetchEthBalance(ctx context.Context, address string) decimal.Decimal {
	return g.LookupEthBalance(ctx, address).OrZero()
}

func (g *Gateway) FetchTokenTransfers(ctx context.Context, address string, limit int) []domain.TokenTransferRecord {
	return g.LookupTokenTransfers(ctx, address, limit).OrZero()
}

func (g *Gateway) FetchPairInfo(ctx context.Context, tokenAddress string) *domain.PairInfo {
	return g.LookupPairInfo(ctx, tokenAddress).OrZero()
}

func (g *Gateway) SearchPairs(ctx context.Context, query string) []domain.PairInfo {
	return g.LookupSearchPairs(ctx, query).OrZero()
}

// UpstreamHealth is the circuit breaker state of one upstream.
type UpstreamHealth struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// Health reports breaker state for every production upstream.
func (g *Gateway) Health() []UpstreamHealth {
	health := make([]UpstreamHealth, 0, len(g.transports))
	for _, t := range g.transports {
		health = append(health, UpstreamHealth{Name: t.Name(), State: t.State().String()})
	}
	return health
}

// Healthy is false when any upstream breaker is open.
func (g *Gateway) Healthy() bool {
	for _, h := range g.Health() {
		if h.State == "open" {
			return false
		}
	}
	return true
}
