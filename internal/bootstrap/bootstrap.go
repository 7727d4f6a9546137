package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"goldquote-service/internal/application"
	"goldquote-service/internal/config"
	"goldquote-service/internal/domain"
	"goldquote-service/internal/infrastructure/httpx"
	"goldquote-service/internal/infrastructure/logx"
	"goldquote-service/internal/infrastructure/pg"
	"goldquote-service/internal/infrastructure/provider"
	redisstore "goldquote-service/internal/infrastructure/redis"
	"goldquote-service/internal/infrastructure/worker"

	"github.com/redis/go-redis/v9"
)

type Repos struct {
	Prices application.PriceRepo
	Fees   application.FeeRecordRepo
	Jobs   application.RefreshJobRepo
	UoW    application.UnitOfWork
	Ping   func(ctx context.Context) error
}

type Services struct {
	Idem application.IdempotencyStore
}

// BuildRepos builds repositories based on cfg.Storage ("pg" expected).
func BuildRepos(ctx context.Context, cfg config.Config) (Repos, func(), error) {
	log := logx.L()

	switch cfg.Storage {
	case "pg":
		if cfg.DatabaseURL == "" {
			return Repos{}, func() {}, fmt.Errorf("DATABASE_URL is required for STORAGE=pg")
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return Repos{}, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return Repos{}, func() {}, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return Repos{
			Prices: pg.NewPriceRepo(db),
			Fees:   pg.NewFeeRecordRepo(db),
			Jobs:   pg.NewRefreshJobRepo(db),
			UoW:    &pg.UnitOfWork{Pool: db.Pool},
			Ping:   db.Ping,
		}, cleanup, nil
	default:
		return Repos{}, func() {}, fmt.Errorf("unsupported STORAGE=%q; set STORAGE=pg", cfg.Storage)
	}
}

// BuildRedis builds the idempotency store (falls back to Noop when disabled).
func BuildRedis(cfg config.Config) (Services, func(), error) {
	if cfg.RedisAddr == "" || cfg.RedisAddr == "none" {
		return Services{Idem: application.NoopIdempotency{}}, func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := redisstore.New(rdb, cfg.RedisTTL)
	cleanup := func() { _ = rdb.Close() }
	return Services{Idem: store}, cleanup, nil
}

// BuildProvider returns the configured price provider.
func BuildProvider(cfg config.Config) (application.PriceProvider, error) {
	switch cfg.Provider {
	case "goldfeed":
		if cfg.GoldAPIKey == "" {
			return nil, fmt.Errorf("GOLD_API_KEY is required for PROVIDER=goldfeed")
		}
		client := &httpx.Client{HTTP: &http.Client{Timeout: 10 * time.Second}}
		return provider.NewGoldFeed(cfg.GoldAPIBase, cfg.GoldAPIKey, client, logx.L()), nil
	case "", "fake":
		return provider.NewFake(cfg.FakeOzPrice), nil
	default:
		return nil, fmt.Errorf("unsupported PROVIDER=%q", cfg.Provider)
	}
}

// BuildWorker wires the db-polling refresh worker.
func BuildWorker(cfg config.Config, repos Repos, prov application.PriceProvider) application.Worker {
	return &worker.RefreshWorker{
		Jobs:       repos.Jobs,
		Prices:     repos.Prices,
		Provider:   prov,
		UoW:        repos.UoW,
		PollEvery:  cfg.WorkerPoll,
		BatchLimit: cfg.WorkerBatchSize,
		Log:        logx.L(),
	}
}

// BuildScheduler wires the cron that enqueues periodic gold refreshes.
func BuildScheduler(cfg config.Config, svc *application.QuoteService) (*worker.Scheduler, error) {
	enqueue := func(ctx context.Context) error {
		_, err := svc.RequestPriceRefresh(ctx, domain.AssetGold, nil)
		return err
	}
	return worker.NewScheduler(cfg.RefreshSchedule, cfg.RefreshDebounce, enqueue, logx.L())
}
