package domain

import "time"

// FeeRecord is a persisted swap-fee collection entry.
type FeeRecord struct {
	ID          string
	InputAsset  Asset
	OutputAsset Asset
	Amount      float64
	FeeBps      int
	FeeAmount   float64
	CreatedAt   time.Time
}
