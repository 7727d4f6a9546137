package provider

import (
	"context"
	"time"

	"goldquote-service/internal/application"
	"goldquote-service/internal/domain"
)

// Ensure Fake implements application.PriceProvider.
var _ application.PriceProvider = (*Fake)(nil)

type Fake struct {
	usdPerOz float64
}

func NewFake(usdPerOz float64) *Fake { return &Fake{usdPerOz: usdPerOz} }

func (f *Fake) Fetch(_ context.Context, asset domain.Asset) (domain.Price, error) {
	return domain.Price{
		Asset:      asset,
		UsdPerGram: domain.PerGram(f.usdPerOz),
		UsdPerOz:   f.usdPerOz,
		Source:     "fake",
		UpdatedAt:  time.Now().UTC(),
	}, nil
}
