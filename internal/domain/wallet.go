package domain

import (
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

var walletAddressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// IsWalletAddress reports whether s is "0x" followed by exactly 40 hex characters.
func IsWalletAddress(s string) bool {
	return walletAddressPattern.MatchString(s) && common.IsHexAddress(s)
}

// NormalizeAddress returns the lowercase hex form used for comparisons and map keys.
func NormalizeAddress(s string) string {
	s = strings.TrimSpace(s)
	if common.IsHexAddress(s) {
		return strings.ToLower(common.HexToAddress(s).Hex())
	}
	return strings.ToLower(s)
}

// ShortenAddress renders 0xd8dA6BF2...6045 as 0xd8dA...6045.
func ShortenAddress(s string) string {
	if len(s) <= 10 {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}

// TokenTransferRecord is one ERC-20 transfer event touching the queried wallet.
type TokenTransferRecord struct {
	ContractAddress string
	TokenSymbol     string
	TokenName       string
	TokenDecimal    int32
	Value           *big.Int // raw, in the token's minor unit
	From            string
	To              string
	Timestamp       time.Time
	Hash            string
}

// MaxTokenDecimals is the largest decimals value an ERC-20 token can declare (uint8).
const MaxTokenDecimals = 255

// Amount is Value scaled down by 10^TokenDecimal. Decimals outside 0..MaxTokenDecimals
// yield zero.
func (r TokenTransferRecord) Amount() decimal.Decimal {
	if r.Value == nil || r.TokenDecimal < 0 || r.TokenDecimal > MaxTokenDecimals {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(r.Value, -r.TokenDecimal)
}

// WalletSnapshot is the balance and price context of one analysis request.
type WalletSnapshot struct {
	Address     string
	EthBalance  decimal.Decimal
	EthPriceUSD decimal.Decimal
}

func (s WalletSnapshot) ValueUSD() decimal.Decimal {
	return s.EthBalance.Mul(s.EthPriceUSD)
}

type Action string

const (
	ActionBuying  Action = "BUYING"
	ActionSelling Action = "SELLING"
	ActionMixed   Action = "MIXED"
)

// TokenActivitySummary folds all transfers of one token contract for one wallet.
// BuyCount+SellCount always equals the number of folded records.
type TokenActivitySummary struct {
	Symbol     string
	Name       string
	Address    string
	BuyCount   int
	SellCount  int
	BuyAmount  decimal.Decimal
	SellAmount decimal.Decimal
}

func (s TokenActivitySummary) Total() int {
	return s.BuyCount + s.SellCount
}

func (s TokenActivitySummary) Action() Action {
	switch {
	case s.BuyCount > s.SellCount:
		return ActionBuying
	case s.SellCount > s.BuyCount:
		return ActionSelling
	default:
		return ActionMixed
	}
}

// WalletReport is produced once per analysis and rendered immediately.
// Amounts are for display only and carry no settlement guarantees.
type WalletReport struct {
	Snapshot         WalletSnapshot
	Summaries        []TokenActivitySummary // most active first
	TopTradedAddress string
	TopTraded        *PairInfo // nil when unknown
	// Unavailable names upstream sources that failed while building this report;
	// their values were replaced with zero/empty defaults.
	Unavailable []string
}
