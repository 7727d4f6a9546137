package config

import (
	"os"
	"strconv"
	"time"

	infraconfig "goldquote-service/internal/infrastructure/config"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port        string
	Storage     string
	DatabaseURL string
	// Pricing
	TradeFeeBps int
	SwapFeeBps  int
	PriceTTL    time.Duration
	// Provider
	Provider     string
	GoldAPIBase  string
	GoldAPIKey   string
	FakeOzPrice  float64
	// Worker
	WorkerPoll      time.Duration
	WorkerBatchSize int
	RefreshSchedule string
	RefreshDebounce time.Duration
	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
	// Redis (idempotency)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func atofDef(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:             getEnv("ENV", "local"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnv("PORT", infraconfig.DefaultHTTPPort),
		Storage:         getEnv("STORAGE", "pg"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		TradeFeeBps:     atoiDef(getEnv("TRADE_FEE_BPS", "50"), 50),
		SwapFeeBps:      atoiDef(getEnv("SWAP_FEE_BPS", "80"), 80),
		PriceTTL:        time.Duration(atoiDef(getEnv("PRICE_TTL_MS", "300000"), 300000)) * time.Millisecond,
		Provider:        getEnv("PROVIDER", "fake"),
		GoldAPIBase:     getEnv("GOLD_API_BASE", "https://www.goldapi.io"),
		GoldAPIKey:      getEnv("GOLD_API_KEY", ""),
		FakeOzPrice:     atofDef(getEnv("FAKE_OZ_PRICE", "2345.67"), 2345.67),
		WorkerPoll:      time.Duration(atoiDef(getEnv("WORKER_POLL_MS", "250"), 250)) * time.Millisecond,
		WorkerBatchSize: atoiDef(getEnv("WORKER_BATCH_LIMIT", "10"), 10),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "@every 1m"),
		RefreshDebounce: time.Duration(atoiDef(getEnv("REFRESH_DEBOUNCE_MS", "500"), 500)) * time.Millisecond,
		RateLimitRPS:    atofDef(getEnv("RATE_LIMIT_RPS", "20"), 20),
		RateLimitBurst:  atoiDef(getEnv("RATE_LIMIT_BURST", "40"), 40),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         atoiDef(getEnv("REDIS_DB", "0"), 0),
		RedisTTL:        time.Duration(atoiDef(getEnv("IDEMPOTENCY_TTL_MS", "86400000"), 86400000)) * time.Millisecond,
	}
}
