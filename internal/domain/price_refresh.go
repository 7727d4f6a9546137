package domain

import "time"

type PriceRefreshStatus string

const (
	PriceRefreshStatusQueued     PriceRefreshStatus = "queued"
	PriceRefreshStatusProcessing PriceRefreshStatus = "processing"
	PriceRefreshStatusDone       PriceRefreshStatus = "done"
	PriceRefreshStatusFailed     PriceRefreshStatus = "failed"
)

type PriceRefresh struct {
	ID        string
	Asset     Asset
	Status    PriceRefreshStatus
	Error     *string
	UpdatedAt time.Time
}
