package domain

import "math"

// GramsPerTroyOunce is the fixed conversion constant between the per-ounce
// price the feed quotes and the per-gram price the token is denominated in.
const GramsPerTroyOunce = 31.1034768

const (
	// DefaultSwapFeeBps is the platform fee applied to swap output legs.
	DefaultSwapFeeBps = 80
	// MaxFeeBps caps any fee at 100%.
	MaxFeeBps = 10000
)

// PerGram converts a USD-per-troy-ounce price to USD per gram.
func PerGram(usdPerOz float64) float64 {
	return usdPerOz / GramsPerTroyOunce
}

func validPrice(usdPerGram float64) bool {
	return usdPerGram > 0 && !math.IsInf(usdPerGram, 0) && !math.IsNaN(usdPerGram)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func validFeeBps(bps int) bool {
	return bps >= 0 && bps <= MaxFeeBps
}

// UsdToGrams converts a USD amount to grams at the given unit price.
// Non-positive amounts clamp to zero; the result is never negative.
func UsdToGrams(usd, usdPerGram float64) (float64, error) {
	if !validPrice(usdPerGram) {
		return 0, ErrInvalidPrice
	}
	if !finite(usd) {
		return 0, ErrInvalidAmount
	}
	if usd <= 0 {
		return 0, nil
	}
	return usd / usdPerGram, nil
}

// GramsToUsd converts a gram quantity to USD at the given unit price.
// Non-positive quantities clamp to zero; the result is never negative.
func GramsToUsd(grams, usdPerGram float64) (float64, error) {
	if !validPrice(usdPerGram) {
		return 0, ErrInvalidPrice
	}
	if !finite(grams) {
		return 0, ErrInvalidAmount
	}
	if grams <= 0 {
		return 0, nil
	}
	return grams * usdPerGram, nil
}

// FeeAmount computes a basis-point fee on an amount.
func FeeAmount(amount float64, feeBps int) float64 {
	return amount * float64(feeBps) / float64(MaxFeeBps)
}

// BuyRequest asks for a buy quote. Exactly one of AmountUSD or Grams must be
// set; the other leg is derived from the unit price.
type BuyRequest struct {
	AmountUSD  *float64
	Grams      *float64
	UsdPerGram float64
	FeeBps     int
}

// SellRequest mirrors BuyRequest for the sell side. AmountUSD, when set, is
// the gross proceeds target before the fee is deducted.
type SellRequest struct {
	AmountUSD  *float64
	Grams      *float64
	UsdPerGram float64
	FeeBps     int
}

func resolveUSD(amountUSD, grams *float64, usdPerGram float64) (float64, error) {
	if (amountUSD == nil) == (grams == nil) {
		return 0, ErrInvalidAmount
	}
	var usd float64
	if amountUSD != nil {
		usd = *amountUSD
	} else {
		if !finite(*grams) || *grams <= 0 {
			return 0, ErrInvalidAmount
		}
		usd = *grams * usdPerGram
	}
	if !finite(usd) || usd <= 0 {
		return 0, ErrInvalidAmount
	}
	return usd, nil
}

// ComputeBuyQuote prices a USD-for-gold trade. The fee is charged on the USD
// leg; see Quote for how gross and net grams are disclosed.
func ComputeBuyQuote(req BuyRequest) (Quote, error) {
	if !validPrice(req.UsdPerGram) {
		return Quote{}, ErrInvalidPrice
	}
	if !validFeeBps(req.FeeBps) {
		return Quote{}, ErrInvalidAmount
	}
	usd, err := resolveUSD(req.AmountUSD, req.Grams, req.UsdPerGram)
	if err != nil {
		return Quote{}, err
	}
	feeUSD := FeeAmount(usd, req.FeeBps)
	grossGrams := usd / req.UsdPerGram
	netGrams := (usd - feeUSD) / req.UsdPerGram
	return Quote{
		Side:         SideBuy,
		InputAsset:   AssetUSD,
		OutputAsset:  AssetGold,
		InputAmount:  usd,
		OutputAmount: grossGrams,
		GrossGrams:   grossGrams,
		NetGrams:     netGrams,
		FeeBps:       req.FeeBps,
		FeeUSD:       feeUSD,
		UnitPriceUSD: req.UsdPerGram,
	}, nil
}

// ComputeSellQuote prices a gold-for-USD trade. OutputAmount is the net
// proceeds after the fee; FeeUSD reports the deduction separately.
func ComputeSellQuote(req SellRequest) (Quote, error) {
	if !validPrice(req.UsdPerGram) {
		return Quote{}, ErrInvalidPrice
	}
	if !validFeeBps(req.FeeBps) {
		return Quote{}, ErrInvalidAmount
	}
	grossUSD, err := resolveUSD(req.AmountUSD, req.Grams, req.UsdPerGram)
	if err != nil {
		return Quote{}, err
	}
	grams := grossUSD / req.UsdPerGram
	feeUSD := FeeAmount(grossUSD, req.FeeBps)
	return Quote{
		Side:         SideSell,
		InputAsset:   AssetGold,
		OutputAsset:  AssetUSD,
		InputAmount:  grams,
		OutputAmount: grossUSD - feeUSD,
		GrossGrams:   grams,
		NetGrams:     grams,
		FeeBps:       req.FeeBps,
		FeeUSD:       feeUSD,
		UnitPriceUSD: req.UsdPerGram,
	}, nil
}

// SwapFee splits a swap output into the platform fee and the remainder the
// user keeps. fee + remaining always equals outputAmount.
func SwapFee(outputAmount float64, feeBps int) (fee, remaining float64, err error) {
	if !finite(outputAmount) || outputAmount < 0 {
		return 0, 0, ErrInvalidAmount
	}
	if !validFeeBps(feeBps) {
		return 0, 0, ErrInvalidAmount
	}
	fee = FeeAmount(outputAmount, feeBps)
	return fee, outputAmount - fee, nil
}
