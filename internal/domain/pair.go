package domain

// PairInfo is a DEX market snapshot as reported by the pair-data provider.
type PairInfo struct {
	Symbol         string
	Name           string
	TokenAddress   string
	PriceUSD       float64
	PriceChange24h float64 // percent
	Volume24h      float64 // USD
	LiquidityUSD   float64
	ChainID        string
	PairAddress    string
	DexID          string
	URL            string
}
