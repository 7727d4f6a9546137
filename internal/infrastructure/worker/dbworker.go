package worker

import (
	"context"
	"time"

	"goldquote-service/internal/application"
	"goldquote-service/internal/domain"
	infraconfig "goldquote-service/internal/infrastructure/config"
	"goldquote-service/internal/infrastructure/metrics"

	"go.uber.org/zap"
)

var _ application.Worker = (*RefreshWorker)(nil)

// RefreshWorker polls the price_refreshes table for queued jobs, fetches a
// fresh price from the provider and persists it.
type RefreshWorker struct {
	Jobs     application.RefreshJobRepo
	Prices   application.PriceRepo
	Provider application.PriceProvider
	UoW      application.UnitOfWork

	PollEvery  time.Duration
	BatchLimit int
	Log        *zap.Logger
}

func (w *RefreshWorker) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	if w.PollEvery <= 0 {
		w.PollEvery = infraconfig.DefaultWorkerPoll
	}
	if w.BatchLimit <= 0 {
		w.BatchLimit = infraconfig.DefaultWorkerBatch
	}
	if w.UoW == nil {
		w.UoW = application.NoopUoW{}
	}

	t := time.NewTicker(w.PollEvery)
	defer t.Stop()

	log.Info("refresh_worker_started", zap.Duration("poll_every", w.PollEvery))
	for {
		select {
		case <-ctx.Done():
			log.Info("refresh_worker_stopped")
			return
		case <-t.C:
			w.tick(ctx, log)
		}
	}
}

func (w *RefreshWorker) tick(ctx context.Context, log *zap.Logger) {
	jobs, err := w.Jobs.ClaimQueued(ctx, w.BatchLimit)
	if err != nil {
		log.Warn("claim_failed", zap.Error(err))
		return
	}
	for _, j := range jobs {
		w.processOne(ctx, log, j.ID, j.Asset)
	}
}

func (w *RefreshWorker) processOne(ctx context.Context, log *zap.Logger, id string, asset domain.Asset) {
	price, err := w.Provider.Fetch(ctx, asset)
	if err != nil {
		msg := err.Error()
		_ = w.Jobs.UpdateStatus(ctx, id, domain.PriceRefreshStatusFailed, &msg)
		metrics.RefreshJobs.WithLabelValues(string(domain.PriceRefreshStatusFailed)).Inc()
		log.Warn("refresh_failed", zap.String("id", id), zap.String("asset", string(asset)), zap.Error(err))
		return
	}

	// History append, last-price upsert and the status flip land together.
	err = w.UoW.Do(ctx, func(ctx context.Context) error {
		if err := w.Prices.AppendHistory(ctx, price, &id); err != nil {
			return err
		}
		if err := w.Prices.Upsert(ctx, price); err != nil {
			return err
		}
		return w.Jobs.UpdateStatus(ctx, id, domain.PriceRefreshStatusDone, nil)
	})
	if err != nil {
		msg := err.Error()
		_ = w.Jobs.UpdateStatus(ctx, id, domain.PriceRefreshStatusFailed, &msg)
		metrics.RefreshJobs.WithLabelValues(string(domain.PriceRefreshStatusFailed)).Inc()
		log.Warn("refresh_persist_failed", zap.String("id", id), zap.Error(err))
		return
	}

	metrics.RefreshJobs.WithLabelValues(string(domain.PriceRefreshStatusDone)).Inc()
	log.Info("refresh_done",
		zap.String("id", id),
		zap.String("asset", string(asset)),
		zap.Float64("usd_per_gram", price.UsdPerGram),
	)
}
