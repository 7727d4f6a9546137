package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goldquote-service/internal/domain"
)

var ErrRepo = errors.New("repo error")

type fakePriceRepo struct {
	store map[domain.Asset]domain.Price
	err   error
}

func (f *fakePriceRepo) GetLast(_ context.Context, asset domain.Asset) (domain.Price, error) {
	if f.err != nil {
		return domain.Price{}, f.err
	}
	p, ok := f.store[asset]
	if !ok {
		return domain.Price{}, ErrNotFound
	}
	return p, nil
}

func (f *fakePriceRepo) Upsert(_ context.Context, p domain.Price) error {
	if f.err != nil {
		return f.err
	}
	if f.store == nil {
		f.store = map[domain.Asset]domain.Price{}
	}
	f.store[p.Asset] = p
	return nil
}

func (f *fakePriceRepo) AppendHistory(context.Context, domain.Price, *string) error {
	return f.err
}

type fakeFeeRepo struct {
	recs map[string]domain.FeeRecord
	err  error
}

func (f *fakeFeeRepo) Create(_ context.Context, rec domain.FeeRecord) (string, error) {
	if f.err != nil {
		return "", f.err
	}
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
		return domain.FeeRecord{}, ErrNotFound
	}
	return r, nil
}

type fakeRefreshJobRepo struct {
	jobs map[string]domain.PriceRefresh
	err  error
}

func (f *fakeRefreshJobRepo) CreateQueued(_ context.Context, asset domain.Asset) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.jobs == nil {
		f.jobs = map[string]domain.PriceRefresh{}
	}
	id := fmt.Sprintf("refresh-%d", len(f.jobs)+1)
	f.jobs[id] = domain.PriceRefresh{ID: id, Asset: asset, Status: domain.PriceRefreshStatusQueued}
	return id, nil
}

func (f *fakeRefreshJobRepo) GetByID(_ context.Context, id string) (domain.PriceRefresh, error) {
	if f.err != nil {
		return domain.PriceRefresh{}, f.err
	}
	j, ok := f.jobs[id]
	if !ok {
		return domain.PriceRefresh{}, ErrNotFound
	}
	return j, nil
}

func (f *fakeRefreshJobRepo) UpdateStatus(_ context.Context, id string, st domain.PriceRefreshStatus, errMsg *string) error {
	if f.err != nil {
		return f.err
	}
	j, ok := f.jobs[id]
	if !ok {
		return ErrNotFound
	}
	j.Status, j.Error = st, errMsg
	f.jobs[id] = j
	return nil
}

func (f *fakeRefreshJobRepo) ClaimQueued(_ context.Context, limit int) ([]domain.PriceRefresh, error) {
	if f.err != nil {
		return nil, f.err
	}
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

type fakePriceProvider struct {
	out domain.Price
	err error
}

func (f *fakePriceProvider) Fetch(context.Context, domain.Asset) (domain.Price, error) {
	if f.err != nil {
		return domain.Price{}, f.err
	}
	return f.out, nil
}

type fakeIdem struct{ seen map[string]bool }

func (f *fakeIdem) TryReserve(_ context.Context, k string) (bool, error) {
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[k] {
		return false, nil
	}
	f.seen[k] = true
	return true, nil
}

type fakeClock struct{ t time.Time }

func (f fakeClock) Now() time.Time { return f.t }
