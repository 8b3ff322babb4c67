package activity

import (
	"errors"
	"sort"
	"strings"

	"base-wallet-bot/internal/domain"

	"github.com/shopspring/decimal"
)

// DefaultMaxSummaries caps the report when no explicit limit is given.
const DefaultMaxSummaries = 8

// ErrNoActivity means the wallet has no transfers and an exactly zero balance.
var ErrNoActivity = errors.New("no activity found for wallet")

// Summarize folds transfers into per-token summaries ranked by activity.
//
// A transfer counts as a buy when its recipient is wallet (case-insensitive) and as a
// sell otherwise. Tokens with equal activity keep the order in which they first appear
// in transfers.
func Summarize(wallet string, ethBalance, ethPriceUSD decimal.Decimal, transfers []domain.TokenTransferRecord, maxSummaries int) (domain.WalletReport, error) {
	if len(transfers) == 0 && ethBalance.IsZero() {
		return domain.WalletReport{}, ErrNoActivity
	}
	if maxSummaries <= 0 {
		maxSummaries = DefaultMaxSummaries
	}

	summaries := fold(wallet, transfers)

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Total() > summaries[j].Total()
	})
	if len(summaries) > maxSummaries {
		summaries = summaries[:maxSummaries]
	}

	report := domain.WalletReport{
		Snapshot: domain.WalletSnapshot{
			Address:     wallet,
			EthBalance:  ethBalance,
			EthPriceUSD: ethPriceUSD,
		},
		Summaries: summaries,
	}
	if len(summaries) > 0 {
		report.TopTradedAddress = summaries[0].Address
	}
	return report, nil
}

// fold returns one summary per contract address, in first-seen order.
func fold(wallet string, transfers []domain.TokenTransferRecord) []domain.TokenActivitySummary {
	summaries := make([]domain.TokenActivitySummary, 0)
	index := make(map[string]int)

	for _, tx := range transfers {
		key := strings.ToLower(tx.ContractAddress)
		i, seen := index[key]
		if !seen {
			summaries = append(summaries, domain.TokenActivitySummary{
				Symbol:     tx.TokenSymbol,
				Name:       tx.TokenName,
				Address:    key,
				BuyAmount:  decimal.Zero,
				SellAmount: decimal.Zero,
			})
			i = len(summaries) - 1
			index[key] = i
		}

		s := &summaries[i]
		amount := tx.Amount()
		if strings.EqualFold(tx.To, wallet) {
			s.BuyCount++
			s.BuyAmount = s.BuyAmount.Add(amount)
		} else {
			s.SellCount++
			s.SellAmount = s.SellAmount.Add(amount)
		}
	}
	return summaries
}
