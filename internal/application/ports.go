package application

import (
	"context"

	"goldquote-service/internal/domain"
)

type PriceRepo interface {
	GetLast(ctx context.Context, asset domain.Asset) (domain.Price, error)
	Upsert(ctx context.Context, p domain.Price) error
	AppendHistory(ctx context.Context, p domain.Price, refreshID *string) error
}

type FeeRecordRepo interface {
	Create(ctx context.Context, rec domain.FeeRecord) (string, error)
	GetByID(ctx context.Context, id string) (domain.FeeRecord, error)
}

type RefreshJobRepo interface {
	CreateQueued(ctx context.Context, asset domain.Asset) (string, error)
	GetByID(ctx context.Context, id string) (domain.PriceRefresh, error)
	UpdateStatus(ctx context.Context, id string, status domain.PriceRefreshStatus, errMsg *string) error
	ClaimQueued(ctx context.Context, limit int) ([]domain.PriceRefresh, error)
}

type PriceProvider interface {
	Fetch(ctx context.Context, asset domain.Asset) (domain.Price, error)
}
