package httpserver

import (
	"context"
	"fmt"
	"time"

	"goldquote-service/internal/application"
	"goldquote-service/internal/domain"
)

var _ application.PriceRepo = (*fakePriceRepo)(nil)
var _ application.FeeRecordRepo = (*fakeFeeRepo)(nil)
var _ application.RefreshJobRepo = (*fakeRefreshJobRepo)(nil)
var _ application.PriceProvider = (*fakePriceProvider)(nil)

type fakePriceRepo struct {
	store map[domain.Asset]domain.Price
}

func (f *fakePriceRepo) GetLast(_ context.Context, asset domain.Asset) (domain.Price, error) {
	if f.store == nil {
		return domain.Price{}, application.ErrNotFound
	}
	p, ok := f.store[asset]
	if !ok {
		return domain.Price{}, application.ErrNotFound
	}
	return p, nil
}

func (f *fakePriceRepo) Upsert(_ context.Context, p domain.Price) error {
	if f.store == nil {
		f.store = map[domain.Asset]domain.Price{}
	}
	f.store[p.Asset] = p
	return nil
}

func (f *fakePriceRepo) AppendHistory(context.Context, domain.Price, *string) error { return nil }

type fakeFeeRepo struct {
	recs map[string]domain.FeeRecord
}

func (f *fakeFeeRepo) Create(_ context.Context, rec domain.FeeRecord) (string, error) {
	if f.recs == nil {
		f.recs = map[string]domain.FeeRecord{}
	}
	id := fmt.Sprintf("fee-%d", len(f.recs)+1)
	rec.ID = id
	f.recs[id] = rec
	return id, nil
}

func (f *fakeFeeRepo) GetByID(_ context.Context, id string) (domain.FeeRecord, error) {
	r, ok := f.recs[id]
	if !ok {
		return domain.FeeRecord{}, application.ErrNotFound
	}
	return r, nil
}

type fakeRefreshJobRepo struct {
	jobs map[string]domain.PriceRefresh
}

func (f *fakeRefreshJobRepo) CreateQueued(_ context.Context, asset domain.Asset) (string, error) {
	if f.jobs == nil {
		f.jobs = map[string]domain.PriceRefresh{}
	}
	id := fmt.Sprintf("refresh-%d", len(f.jobs)+1)
	f.jobs[id] = domain.PriceRefresh{ID: id, Asset: asset, Status: domain.PriceRefreshStatusQueued, UpdatedAt: time.Now()}
	return id, nil
}

func (f *fakeRefreshJobRepo) GetByID(_ context.Context, id string) (domain.PriceRefresh, error) {
	j, ok := f.jobs[id]
	if !ok {
		return domain.PriceRefresh{}, application.ErrNotFound
	}
	return j, nil
}

func (f *fakeRefreshJobRepo) UpdateStatus(_ context.Context, id string, st domain.PriceRefreshStatus, errMsg *string) error {
	j, ok := f.jobs[id]
	if !ok {
		return application.ErrNotFound
	}
	j.Status = st
	j.Error = errMsg
	j.UpdatedAt = time.Now()
	f.jobs[id] = j
	return nil
}

func (f *fakeRefreshJobRepo) ClaimQueued(_ context.Context, limit int) ([]domain.PriceRefresh, error) {
	var out []domain.PriceRefresh
	for id, j := range f.jobs {
		if len(out) == limit {
			break
		}
		if j.Status == domain.PriceRefreshStatusQueued {
			j.Status = domain.PriceRefreshStatusProcessing
			f.jobs[id] = j
			out = append(out, j)
		}
	}
	return out, nil
}

type fakePriceProvider struct{}

func (fakePriceProvider) Fetch(_ context.Context, asset domain.Asset) (domain.Price, error) {
	return domain.Price{Asset: asset, UsdPerGram: 75.43, UsdPerOz: 75.43 * domain.GramsPerTroyOunce, Source: "fake", UpdatedAt: time.Now()}, nil
}

// NewInMemoryService builds a QuoteService on in-memory fakes with a seeded
// gold price, for router tests and local hacking.
func NewInMemoryService(opts ...application.Option) *application.QuoteService {
	pr := &fakePriceRepo{store: map[domain.Asset]domain.Price{
		domain.AssetGold: {
			Asset:      domain.AssetGold,
			UsdPerGram: 75.43,
			UsdPerOz:   75.43 * domain.GramsPerTroyOunce,
			Source:     "fake",
			UpdatedAt:  time.Now().UTC(),
		},
	}}
	fr := &fakeFeeRepo{recs: map[string]domain.FeeRecord{}}
	jr := &fakeRefreshJobRepo{jobs: map[string]domain.PriceRefresh{}}
	return application.NewQuoteService(pr, fr, jr, fakePriceProvider{}, nil, opts...)
}
