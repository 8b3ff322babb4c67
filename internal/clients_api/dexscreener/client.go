package dexscreener

// DexScreener public API client: token pairs and free-text pair search.

import (
	"context"
	"net/url"

	"base-wallet-bot/internal/domain"
	"base-wallet-bot/internal/infra/httpx"
)

const (
	// Name identifies this upstream in logs, metrics and health output.
	Name = "dexscreener"

	DefaultBaseURL = "https://api.dexscreener.com"
)

// PairsResponse - payload of /latest/dex/tokens/{address} and /latest/dex/search
type PairsResponse struct {
	SchemaVersion string `json:"schemaVersion"`
	Pairs         []Pair `json:"pairs"`
}

// Pair - one DEX market
type Pair struct {
	ChainID     string `json:"chainId"`
	DexID       string `json:"dexId"`
	URL         string `json:"url"`
	PairAddress string `json:"pairAddress"`
	BaseToken   Token  `json:"baseToken"`
	QuoteToken  Token  `json:"quoteToken"`
	PriceUsd    Float  `json:"priceUsd"`
	PriceChange Window `json:"priceChange"`
	Volume      Window `json:"volume"`
	Liquidity   struct {
		USD Float `json:"usd"`
	} `json:"liquidity"`
}

type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Window - per-timeframe metrics; only the 24h bucket is consumed
type Window struct {
	H1  Float `json:"h1"`
	H6  Float `json:"h6"`
	H24 Float `json:"h24"`
}

// ToPairInfo maps the wire form onto the domain type, keyed by the base token.
func (p Pair) ToPairInfo() domain.PairInfo {
	return domain.PairInfo{
		Symbol:         p.BaseToken.Symbol,
		Name:           p.BaseToken.Name,
		TokenAddress:   p.BaseToken.Address,
		PriceUSD:       float64(p.PriceUsd),
		PriceChange24h: float64(p.PriceChange.H24),
		Volume24h:      float64(p.Volume.H24),
		LiquidityUSD:   float64(p.Liquidity.USD),
		ChainID:        p.ChainID,
		PairAddress:    p.PairAddress,
		DexID:          p.DexID,
		URL:            p.URL,
	}
}

type Client struct {
	http *httpx.Client
}

func New(baseURL string, opts httpx.Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: httpx.New(Name, baseURL, opts)}
}

func (c *Client) Transport() *httpx.Client { return c.http }

// TokenPairs returns every pair that trades tokenAddress, in provider order.
func (c *Client) TokenPairs(ctx context.Context, tokenAddress string) ([]domain.PairInfo, error) {
	return c.pairs(ctx, "/latest/dex/tokens/"+url.PathEscape(tokenAddress), nil)
}

// Search returns pairs matching a free-text query across all chains.
func (c *Client) Search(ctx context.Context, query string) ([]domain.PairInfo, error) {
	return c.pairs(ctx, "/latest/dex/search", url.Values{"q": {query}})
}

func (c *Client) pairs(ctx context.Context, path string, query url.Values) ([]domain.PairInfo, error) {
	var resp PairsResponse
	if err := c.http.GetJSON(ctx, path, query, &resp); err != nil {
		return nil, err
	}

	pairs := make([]domain.PairInfo, 0, len(resp.Pairs))
	for _, p := range resp.Pairs {
		pairs = append(pairs, p.ToPairInfo())
	}
	return pairs, nil
}
