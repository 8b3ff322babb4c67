package coingecko

// CoinGecko public API client. Only the simple/price endpoint is used.

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"base-wallet-bot/internal/infra/httpx"

	"github.com/shopspring/decimal"
)

const (
	// Name identifies this upstream in logs, metrics and health output.
	Name = "coingecko"

	DefaultBaseURL = "https://api.coingecko.com/api/v3"
)

// ErrPriceMissing is returned when the response decodes but lacks the requested pair.
var ErrPriceMissing = errors.New("price missing from response")

// SimplePriceResponse - /simple/price payload, e.g. {"ethereum":{"usd":3012.45}}
type SimplePriceResponse map[string]map[string]decimal.Decimal

type Client struct {
	http *httpx.Client
}

func New(baseURL string, opts httpx.Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: httpx.New(Name, baseURL, opts)}
}

// Transport exposes the underlying client for health reporting.
func (c *Client) Transport() *httpx.Client { return c.http }

// SimplePrice returns the price of coinID in the vsCurrency.
func (c *Client) SimplePrice(ctx context.Context, coinID, vsCurrency string) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("ids", coinID)
	query.Set("vs_currencies", vsCurrency)

	var resp SimplePriceResponse
	if err := c.http.GetJSON(ctx, "/simple/price", query, &resp); err != nil {
		return decimal.Zero, err
	}

	price, ok := resp[coinID][vsCurrency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%s %s/%s: %w", Name, coinID, vsCurrency, ErrPriceMissing)
	}
	return price, nil
}

// EthUsdPrice is SimplePrice for ethereum/usd.
func (c *Client) EthUsdPrice(ctx context.Context) (decimal.Decimal, error) {
	return c.SimplePrice(ctx, "ethereum", "usd")
}
