package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"goldquote-service/internal/application"
	"goldquote-service/internal/bootstrap"
	"goldquote-service/internal/config"
	"goldquote-service/internal/domain"
	"goldquote-service/internal/infrastructure/logx"
	"goldquote-service/internal/infrastructure/worker"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	log := logx.L()
	cfg := config.Load()
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repos, cleanup, err := bootstrap.BuildRepos(ctx, cfg)
	if err != nil {
		log.Fatal("bootstrap repos", zap.Error(err))
	}
	defer cleanup()

	services, closeRedis, err := bootstrap.BuildRedis(cfg)
	if err != nil {
		log.Fatal("bootstrap redis", zap.Error(err))
	}
	defer closeRedis()

	prov, err := bootstrap.BuildProvider(cfg)
	if err != nil {
		log.Fatal("bootstrap provider", zap.Error(err))
	}

	// Warm up the price feed before taking jobs so the first claimed refresh
	// doesn't fail on a provider that is still coming up.
	warmup := func(ctx context.Context) (bool, error) {
		_, err := prov.Fetch(ctx, domain.AssetGold)
		return err == nil, err
	}
	if err := worker.Poll(ctx, 2*time.Second, 5, warmup); err != nil {
		log.Warn("provider warmup failed, continuing anyway", zap.Error(err))
	}

	svc := application.NewQuoteService(repos.Prices, repos.Fees, repos.Jobs, prov, services.Idem,
		application.WithPriceTTL(cfg.PriceTTL),
		application.WithTradeFeeBps(cfg.TradeFeeBps),
		application.WithSwapFeeBps(cfg.SwapFeeBps),
	)

	sched, err := bootstrap.BuildScheduler(cfg, svc)
	if err != nil {
		log.Fatal("bootstrap scheduler", zap.Error(err))
	}
	go sched.Start(ctx)

	w := bootstrap.BuildWorker(cfg, repos, prov)
	w.Start(ctx)

	log.Info("worker exited")
}
