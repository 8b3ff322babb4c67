package trending

import (
	"context"
	"math"
	"sort"

	"base-wallet-bot/internal/domain"
	"base-wallet-bot/internal/infra/log"

	"go.uber.org/zap"
)

// DefaultTopN is the list length when no explicit limit is given.
const DefaultTopN = 10

// Rank keeps pairs whose ChainID equals chainFilter exactly, orders them by 24h volume
// descending and returns at most topN. Equal volumes keep their input order, and a
// NaN or infinite volume ranks as 0. The input slice is not modified.
func Rank(pairs []domain.PairInfo, chainFilter string, topN int) []domain.PairInfo {
	if topN <= 0 {
		topN = DefaultTopN
	}

	ranked := make([]domain.PairInfo, 0, len(pairs))
	for _, p := range pairs {
		if p.ChainID == chainFilter {
			ranked = append(ranked, p)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return rankVolume(ranked[i]) > rankVolume(ranked[j])
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

func rankVolume(p domain.PairInfo) float64 {
	if math.IsNaN(p.Volume24h) || math.IsInf(p.Volume24h, 0) {
		return 0
	}
	return p.Volume24h
}

type searcher interface {
	SearchPairs(ctx context.Context, query string) []domain.PairInfo
}

// Service produces the trending list for one configured chain.
type Service struct {
	source      searcher
	query       string
	chainFilter string
	topN        int
}

func NewService(source searcher, query, chainFilter string, topN int) *Service {
	return &Service{source: source, query: query, chainFilter: chainFilter, topN: topN}
}

// Top searches the pair provider and ranks the result. An empty slice means nothing
// matched or the provider was unavailable.
func (s *Service) Top(ctx context.Context) []domain.PairInfo {
	pairs := s.source.SearchPairs(ctx, s.query)
	ranked := Rank(pairs, s.chainFilter, s.topN)

	log.LogDebug("Trending pairs ranked",
		zap.String("query", s.query),
		zap.String("chain", s.chainFilter),
		zap.Int("candidates", len(pairs)),
		zap.Int("ranked", len(ranked)))
	return ranked
}
