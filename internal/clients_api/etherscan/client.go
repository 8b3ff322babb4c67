package etherscan

// Etherscan v2 multichain API client. The chain is selected with the chainid parameter,
// so the same client serves Base (8453) or any other supported network.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"base-wallet-bot/internal/domain"
	"base-wallet-bot/internal/infra/httpx"
	"base-wallet-bot/internal/infra/log"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// Name identifies this upstream in logs, metrics and health output.
	Name = "etherscan"

	DefaultBaseURL = "https://api.etherscan.io/v2/api"

	defaultTokenDecimals = 18
	weiExponent          = -18
)

// Message the API returns with status "0" when the account simply has no history.
const noTransactionsMessage = "No transactions found"

// APIError is an application-level failure reported inside a 200 response.
type APIError struct {
	Message string
	Result  string
}

func (e *APIError) Error() string {
	if e.Result == "" {
		return "etherscan: " + e.Message
	}
	return fmt.Sprintf("etherscan: %s: %s", e.Message, e.Result)
}

// Envelope - common wrapper of every module/action response
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// TokenTransfer - one entry of account/tokentx; the API encodes every field as a string
type TokenTransfer struct {
	BlockNumber     string `json:"blockNumber"`
	TimeStamp       string `json:"timeStamp"`
	Hash            string `json:"hash"`
	From            string `json:"from"`
	To              string `json:"to"`
	ContractAddress string `json:"contractAddress"`
	Value           string `json:"value"`
	TokenName       string `json:"tokenName"`
	TokenSymbol     string `json:"tokenSymbol"`
	TokenDecimal    string `json:"tokenDecimal"`
}

type Client struct {
	http    *httpx.Client
	path    string
	apiKey  string
	chainID int64
}

func New(baseURL, apiKey string, chainID int64, opts httpx.Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	root, path := splitBaseURL(baseURL)
	return &Client{
		http:    httpx.New(Name, root, opts),
		path:    path,
		apiKey:  apiKey,
		chainID: chainID,
	}
}

// splitBaseURL separates scheme+host from the endpoint path so logs show the path.
func splitBaseURL(raw string) (string, string) {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw, ""
	}
	return u.Scheme + "://" + u.Host, u.Path
}

func (c *Client) Transport() *httpx.Client { return c.http }

// Balance returns the native balance of address in ETH (wei / 10^18).
func (c *Client) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	query := c.query("account", "balance")
	query.Set("address", address)
	query.Set("tag", "latest")

	env, err := c.call(ctx, query)
	if err != nil {
		return decimal.Zero, err
	}
	if env.Status != "1" {
		return decimal.Zero, envelopeError(env)
	}

	var raw string
	if err := json.Unmarshal(env.Result, &raw); err != nil {
		return decimal.Zero, fmt.Errorf("%s balance: %w: %v", Name, httpx.ErrDecode, err)
	}
	wei, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return decimal.Zero, fmt.Errorf("%s balance: %w: not an integer: %q", Name, httpx.ErrDecode, raw)
	}
	return decimal.NewFromBigInt(wei, weiExponent), nil
}

// TokenTransfers returns up to limit most recent ERC-20 transfers touching address, newest first.
// An account without history yields an empty slice and no error.
func (c *Client) TokenTransfers(ctx context.Context, address string, limit int) ([]domain.TokenTransferRecord, error) {
	query := c.query("account", "tokentx")
	query.Set("address", address)
	query.Set("startblock", "0")
	query.Set("endblock", "99999999")
	query.Set("page", "1")
	query.Set("offset", strconv.Itoa(limit))
	query.Set("sort", "desc")

	env, err := c.call(ctx, query)
	if err != nil {
		return nil, err
	}
	if env.Status != "1" {
		if env.Message == noTransactionsMessage {
			return []domain.TokenTransferRecord{}, nil
		}
		return nil, envelopeError(env)
	}

	var transfers []TokenTransfer
	if err := json.Unmarshal(env.Result, &transfers); err != nil {
		return nil, fmt.Errorf("%s tokentx: %w: %v", Name, httpx.ErrDecode, err)
	}

	records := make([]domain.TokenTransferRecord, 0, len(transfers))
	for _, t := range transfers {
		record, err := t.ToRecord()
		if err != nil {
			log.LogWarn("Skipping malformed token transfer",
				zap.String("upstream", Name),
				zap.String("hash", t.Hash),
				zap.Error(err))
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// ToRecord converts the wire form into a domain record. Missing or unparseable decimals
// fall back to 18. Decimals above 255 and an unparseable value are errors.
func (t TokenTransfer) ToRecord() (domain.TokenTransferRecord, error) {
	value, ok := new(big.Int).SetString(strings.TrimSpace(t.Value), 10)
	if !ok {
		return domain.TokenTransferRecord{}, fmt.Errorf("invalid value %q", t.Value)
	}

	decimals := int32(defaultTokenDecimals)
	d, err := strconv.ParseUint(strings.TrimSpace(t.TokenDecimal), 10, 8)
	switch {
	case err == nil:
		decimals = int32(d)
	case errors.Is(err, strconv.ErrRange):
		return domain.TokenTransferRecord{}, fmt.Errorf("token decimals %q out of range", t.TokenDecimal)
	}

	var ts time.Time
	if sec, err := strconv.ParseInt(t.TimeStamp, 10, 64); err == nil {
		ts = time.Unix(sec, 0).UTC()
	}

	return domain.TokenTransferRecord{
		ContractAddress: t.ContractAddress,
		TokenSymbol:     t.TokenSymbol,
		TokenName:       t.TokenName,
		TokenDecimal:    decimals,
		Value:           value,
		From:            t.From,
		To:              t.To,
		Timestamp:       ts,
		Hash:            t.Hash,
	}, nil
}

func (c *Client) query(module, action string) url.Values {
	query := url.Values{}
	query.Set("chainid", strconv.FormatInt(c.chainID, 10))
	query.Set("module", module)
	query.Set("action", action)
	query.Set("apikey", c.apiKey)
	return query
}

func (c *Client) call(ctx context.Context, query url.Values) (*Envelope, error) {
	var env Envelope
	if err := c.http.GetJSON(ctx, c.path, query, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

func envelopeError(env *Envelope) error {
	apiErr := &APIError{Message: env.Message}
	var result string
	if err := json.Unmarshal(env.Result, &result); err == nil {
		apiErr.Result = result
	}
	return apiErr
}

// IsAPIError reports whether err carries an application-level Etherscan error.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
