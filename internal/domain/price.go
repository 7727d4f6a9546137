package domain

import "time"

// Price is a snapshot of the unit cost of an asset as supplied by the feed.
// Gold is quoted per troy ounce upstream; UsdPerGram is derived once at
// ingestion and used everywhere downstream.
type Price struct {
	Asset      Asset
	UsdPerGram float64
	UsdPerOz   float64
	Source     string
	UpdatedAt  time.Time
}
