package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestUsdToGrams(t *testing.T) {
	t.Parallel()
	g, err := UsdToGrams(100, 75.43)
	require.NoError(t, err)
	require.InDelta(t, 1.32573, g, 1e-5)
}

func TestUsdToGrams_ZeroAndNegativeClampToZero(t *testing.T) {
	t.Parallel()
	for _, amount := range []float64{0, -5, -0.0001} {
		g, err := UsdToGrams(amount, 75.43)
		require.NoError(t, err)
		require.Zero(t, g)
	}
	u, err := GramsToUsd(0, 75.43)
	require.NoError(t, err)
	require.Zero(t, u)
}

func TestUsdToGrams_BadPrice(t *testing.T) {
	t.Parallel()
	for _, price := range []float64{0, -1, math.Inf(1), math.NaN()} {
		_, err := UsdToGrams(100, price)
		require.ErrorIs(t, err, ErrInvalidPrice)
		_, err = GramsToUsd(1, price)
		require.ErrorIs(t, err, ErrInvalidPrice)
	}
}

func TestConversionRoundTrip(t *testing.T) {
	t.Parallel()
	prices := []float64{0.01, 1, 75.43, 2345.67, 1e6}
	amounts := []float64{0.01, 1, 100, 12345.678, 9.9e8}
	for _, p := range prices {
		for _, a := range amounts {
			g, err := UsdToGrams(a, p)
			require.NoError(t, err)
			back, err := GramsToUsd(g, p)
			require.NoError(t, err)
			require.InEpsilon(t, a, back, 1e-9)
		}
	}
}

func TestPerGram(t *testing.T) {
	t.Parallel()
	perGram := PerGram(2345.67)
	require.InDelta(t, 75.415, perGram, 1e-3)

	// $500 at that price, before fee
	g, err := UsdToGrams(500, perGram)
	require.NoError(t, err)
	require.InDelta(t, 6.63, g, 1e-3)
}

func TestComputeBuyQuote_FromUSD(t *testing.T) {
	t.Parallel()
	q, err := ComputeBuyQuote(BuyRequest{AmountUSD: f64(100), UsdPerGram: 75.43, FeeBps: 50})
	require.NoError(t, err)
	require.Equal(t, SideBuy, q.Side)
	require.Equal(t, AssetUSD, q.InputAsset)
	require.Equal(t, AssetGold, q.OutputAsset)
	require.InDelta(t, 100.0, q.InputAmount, 1e-12)
	require.InDelta(t, 0.5, q.FeeUSD, 1e-12)
	require.InDelta(t, 100.0/75.43, q.GrossGrams, 1e-12)
	require.InDelta(t, 99.5/75.43, q.NetGrams, 1e-12)
	require.Equal(t, q.GrossGrams, q.OutputAmount)
	require.Greater(t, q.GrossGrams, q.NetGrams)
}

func TestComputeBuyQuote_FromGrams(t *testing.T) {
	t.Parallel()
	q, err := ComputeBuyQuote(BuyRequest{Grams: f64(2), UsdPerGram: 75.43, FeeBps: 0})
	require.NoError(t, err)
	require.InDelta(t, 150.86, q.InputAmount, 1e-9)
	require.Zero(t, q.FeeUSD)
	require.InDelta(t, q.GrossGrams, q.NetGrams, 1e-12)
}

func TestComputeBuyQuote_Rejections(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		req  BuyRequest
		want error
	}{
		{"zero amount", BuyRequest{AmountUSD: f64(0), UsdPerGram: 75.43, FeeBps: 50}, ErrInvalidAmount},
		{"negative amount", BuyRequest{AmountUSD: f64(-5), UsdPerGram: 75.43, FeeBps: 50}, ErrInvalidAmount},
		{"negative grams", BuyRequest{Grams: f64(-1), UsdPerGram: 75.43, FeeBps: 50}, ErrInvalidAmount},
		{"both inputs", BuyRequest{AmountUSD: f64(10), Grams: f64(1), UsdPerGram: 75.43, FeeBps: 50}, ErrInvalidAmount},
		{"neither input", BuyRequest{UsdPerGram: 75.43, FeeBps: 50}, ErrInvalidAmount},
		{"nan amount", BuyRequest{AmountUSD: f64(math.NaN()), UsdPerGram: 75.43, FeeBps: 50}, ErrInvalidAmount},
		{"fee bps above cap", BuyRequest{AmountUSD: f64(10), UsdPerGram: 75.43, FeeBps: 10001}, ErrInvalidAmount},
		{"negative fee bps", BuyRequest{AmountUSD: f64(10), UsdPerGram: 75.43, FeeBps: -1}, ErrInvalidAmount},
		{"zero price", BuyRequest{AmountUSD: f64(10), UsdPerGram: 0, FeeBps: 50}, ErrInvalidPrice},
		{"inf price", BuyRequest{AmountUSD: f64(10), UsdPerGram: math.Inf(1), FeeBps: 50}, ErrInvalidPrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeBuyQuote(tc.req)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestComputeSellQuote_NetProceeds(t *testing.T) {
	t.Parallel()
	q, err := ComputeSellQuote(SellRequest{Grams: f64(2), UsdPerGram: 75.43, FeeBps: 50})
	require.NoError(t, err)
	require.Equal(t, SideSell, q.Side)
	require.Equal(t, AssetGold, q.InputAsset)
	require.Equal(t, AssetUSD, q.OutputAsset)
	gross := 2 * 75.43
	require.InDelta(t, gross*0.005, q.FeeUSD, 1e-12)
	require.InDelta(t, gross-q.FeeUSD, q.OutputAmount, 1e-12)
	require.InDelta(t, 2.0, q.InputAmount, 1e-12)
}

func TestComputeSellQuote_FromUSDTarget(t *testing.T) {
	t.Parallel()
	q, err := ComputeSellQuote(SellRequest{AmountUSD: f64(1000), UsdPerGram: 75.43, FeeBps: 80})
	require.NoError(t, err)
	require.InDelta(t, 1000.0/75.43, q.InputAmount, 1e-12)
	require.InDelta(t, 8.0, q.FeeUSD, 1e-12)
	require.InDelta(t, 992.0, q.OutputAmount, 1e-12)
}

func TestComputeSellQuote_Rejections(t *testing.T) {
	t.Parallel()
	_, err := ComputeSellQuote(SellRequest{Grams: f64(0), UsdPerGram: 75.43, FeeBps: 50})
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, err = ComputeSellQuote(SellRequest{Grams: f64(1), UsdPerGram: -1, FeeBps: 50})
	require.ErrorIs(t, err, ErrInvalidPrice)
}

func TestSwapFee(t *testing.T) {
	t.Parallel()
	fee, remaining, err := SwapFee(1000, DefaultSwapFeeBps)
	require.NoError(t, err)
	require.InDelta(t, 8.0, fee, 1e-12)
	require.InDelta(t, 992.0, remaining, 1e-12)
}

func TestSwapFee_SplitsExactly(t *testing.T) {
	t.Parallel()
	for _, bps := range []int{0, 1, 80, 5000, 10000} {
		for _, amount := range []float64{0, 0.01, 1, 1000, 123456.789} {
			fee, remaining, err := SwapFee(amount, bps)
			require.NoError(t, err)
			require.GreaterOrEqual(t, fee, 0.0)
			require.GreaterOrEqual(t, remaining, 0.0)
			require.InDelta(t, amount, fee+remaining, 1e-9)
		}
	}
}

func TestSwapFee_Rejections(t *testing.T) {
	t.Parallel()
	_, _, err := SwapFee(-1, 80)
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, _, err = SwapFee(math.NaN(), 80)
	require.ErrorIs(t, err, ErrInvalidAmount)
	_, _, err = SwapFee(100, 10001)
	require.ErrorIs(t, err, ErrInvalidAmount)
}
