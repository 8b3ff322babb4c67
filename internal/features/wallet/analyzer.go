package wallet

import (
	"context"
	"errors"
	"time"

	"base-wallet-bot/internal/domain"
	"base-wallet-bot/internal/features/activity"
	"base-wallet-bot/internal/gateway"
	"base-wallet-bot/internal/infra/log"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidAddress is returned before any upstream call for malformed input.
var ErrInvalidAddress = errors.New("invalid wallet address")

// Source is the subset of the gateway the analyzer reads from.
type Source interface {
	LookupEthUsdPrice(ctx context.Context) gateway.Result[decimal.Decimal]
	LookupEthBalance(ctx context.Context, address string) gateway.Result[decimal.Decimal]
	LookupTokenTransfers(ctx context.Context, address string, limit int) gateway.Result[[]domain.TokenTransferRecord]
	LookupPairInfo(ctx context.Context, tokenAddress string) gateway.Result[*domain.PairInfo]
}

// Analyzer builds one WalletReport per request. It keeps no state between requests.
type Analyzer struct {
	source        Source
	transferLimit int
	maxSummaries  int
}

func NewAnalyzer(source Source, transferLimit, maxSummaries int) *Analyzer {
	return &Analyzer{source: source, transferLimit: transferLimit, maxSummaries: maxSummaries}
}

// Analyze validates address, fetches price, balance and transfers concurrently, ranks
// the token activity and then looks up market data for the most traded token.
// activity.ErrNoActivity is returned unwrapped so callers can test it with errors.Is.
func (a *Analyzer) Analyze(ctx context.Context, address string) (domain.WalletReport, error) {
	if !domain.IsWalletAddress(address) {
		return domain.WalletReport{}, ErrInvalidAddress
	}
	address = domain.NormalizeAddress(address)
	startTime := time.Now()

	var (
		price     gateway.Result[decimal.Decimal]
		balance   gateway.Result[decimal.Decimal]
		transfers gateway.Result[[]domain.TokenTransferRecord]
	)

	// Lookups never return errors; failures travel inside each Result.
	var g errgroup.Group
	g.Go(func() error {
		price = a.source.LookupEthUsdPrice(ctx)
		return nil
	})
	g.Go(func() error {
		balance = a.source.LookupEthBalance(ctx, address)
		return nil
	})
	g.Go(func() error {
		transfers = a.source.LookupTokenTransfers(ctx, address, a.transferLimit)
		return nil
	})
	_ = g.Wait()

	var unavailable []string
	for _, r := range []struct {
		ok     bool
		source string
	}{
		{price.OK(), gateway.SourcePrice},
		{balance.OK(), gateway.SourceBalance},
		{transfers.OK(), gateway.SourceTransfers},
	} {
		if !r.ok {
			unavailable = append(unavailable, r.source)
		}
	}

	report, err := activity.Summarize(address, balance.OrZero(), price.OrZero(), transfers.OrZero(), a.maxSummaries)
	if err != nil {
		log.LogInfo("Wallet has no activity",
			zap.String("address", address),
			zap.Strings("unavailable", unavailable),
			zap.Duration("duration", time.Since(startTime)))
		return domain.WalletReport{}, err
	}

	if report.TopTradedAddress != "" {
		pair := a.source.LookupPairInfo(ctx, report.TopTradedAddress)
		if !pair.OK() {
			unavailable = append(unavailable, gateway.SourcePair)
		}
		report.TopTraded = pair.OrZero()
	}
	report.Unavailable = unavailable

	log.LogSuccess("Wallet analyzed",
		zap.String("address", address),
		zap.Int("transfers", len(transfers.OrZero())),
		zap.Int("tokens", len(report.Summaries)),
		zap.Strings("unavailable", unavailable),
		zap.Duration("duration", time.Since(startTime)))
	return report, nil
}
