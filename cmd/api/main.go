package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"goldquote-service/internal/application"
	"goldquote-service/internal/bootstrap"
	"goldquote-service/internal/config"
	infraconfig "goldquote-service/internal/infrastructure/config"
	httpserver "goldquote-service/internal/infrastructure/http"
	"goldquote-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	ctx := context.Background()
	logger := logx.L()
	cfg := config.Load()
	addr := ":" + cfg.Port

	repos, cleanup, err := bootstrap.BuildRepos(ctx, cfg)
	if err != nil {
		logger.Fatal("bootstrap repos", zap.Error(err))
	}
	defer cleanup()

	services, closeRedis, err := bootstrap.BuildRedis(cfg)
	if err != nil {
		logger.Fatal("bootstrap redis", zap.Error(err))
	}
	defer closeRedis()

	prov, err := bootstrap.BuildProvider(cfg)
	if err != nil {
		logger.Fatal("bootstrap provider", zap.Error(err))
	}

	svc := application.NewQuoteService(repos.Prices, repos.Fees, repos.Jobs, prov, services.Idem,
		application.WithPriceTTL(cfg.PriceTTL),
		application.WithTradeFeeBps(cfg.TradeFeeBps),
		application.WithSwapFeeBps(cfg.SwapFeeBps),
	)
	srv := httpserver.NewServer(svc)
	mux := httpserver.NewRouter(srv, httpserver.RouterOptions{
		Ping:         repos.Ping,
		RateLimitRPS: cfg.RateLimitRPS,
		RateBurst:    cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		logger.Info("server started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, shCancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer shCancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}
