package domain

import "time"

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Quote is a conversion snapshot. It carries no identity and is regenerated
// whenever its inputs change.
//
// Fee disclosure: on a buy the fee is charged on the USD leg and reported
// both ways. GrossGrams is what the full USD amount buys; NetGrams is what
// remains deliverable once the fee is taken out of that leg. Callers choose
// which to settle on but the fee is never folded silently into a single
// number. On a sell OutputAmount is the net USD proceeds after the fee.
type Quote struct {
	Side         Side
	InputAsset   Asset
	OutputAsset  Asset
	InputAmount  float64
	OutputAmount float64
	GrossGrams   float64
	NetGrams     float64
	FeeBps       int
	FeeUSD       float64
	UnitPriceUSD float64
	CreatedAt    time.Time
}

// SwapQuote is the fee breakdown for a swap output leg.
type SwapQuote struct {
	InputAsset      Asset
	OutputAsset     Asset
	OutputAmount    float64
	FeeBps          int
	FeeAmount       float64
	RemainingAmount float64
	CreatedAt       time.Time
}
