package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"goldquote-service/internal/application"
	"goldquote-service/internal/domain"
	"goldquote-service/internal/infrastructure/httpx"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const goldFeedSpotPath = "/api/XAU/USD"

// GoldFeedProvider pulls the USD-per-troy-ounce spot price and converts it
// to per-gram at ingestion. The feed is fronted by a circuit breaker so a
// flapping upstream doesn't get hammered by the refresh worker.
type GoldFeedProvider struct {
	BaseURL string
	APIKey  string
	Client  *httpx.Client

	cb *gobreaker.CircuitBreaker[domain.Price]
}

var _ application.PriceProvider = (*GoldFeedProvider)(nil)

func NewGoldFeed(baseURL, apiKey string, client *httpx.Client, log *zap.Logger) *GoldFeedProvider {
	if log == nil {
		log = zap.NewNop()
	}
	settings := gobreaker.Settings{
		Name:    "goldfeed",
		Timeout: 30 * time.Second,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("breaker_state_change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &GoldFeedProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  client,
		cb:      gobreaker.NewCircuitBreaker[domain.Price](settings),
	}
}

type goldSpotResp struct {
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
	Metal     string  `json:"metal"`
	Currency  string  `json:"currency"`
	Error     string  `json:"error,omitempty"`
}

func (p *GoldFeedProvider) Fetch(ctx context.Context, asset domain.Asset) (domain.Price, error) {
	if asset != domain.AssetGold {
		return domain.Price{}, fmt.Errorf("goldfeed: %w: %s", domain.ErrUnsupportedAsset, asset)
	}
	if p.BaseURL == "" || p.APIKey == "" {
		return domain.Price{}, errors.New("goldfeed: missing configuration")
	}
	return p.cb.Execute(func() (domain.Price, error) {
		return p.fetch(ctx)
	})
}

func (p *GoldFeedProvider) fetch(ctx context.Context) (domain.Price, error) {
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return domain.Price{}, fmt.Errorf("goldfeed: invalid base url: %w", err)
	}
	u.Path = goldFeedSpotPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.Price{}, fmt.Errorf("goldfeed: create request: %w", err)
	}

	client := p.Client
	if client == nil {
		client = &httpx.Client{}
	}
	client.Token = p.APIKey
	client.Header = "x-access-token"

	var body goldSpotResp
	if err := client.DoJSON(ctx, req, &body); err != nil {
		return domain.Price{}, fmt.Errorf("goldfeed: do request: %w", err)
	}
	if body.Error != "" {
		return domain.Price{}, fmt.Errorf("goldfeed: %s", body.Error)
	}
	if body.Price <= 0 {
		return domain.Price{}, fmt.Errorf("goldfeed: %w: %v", domain.ErrInvalidPrice, body.Price)
	}

	updatedAt := time.Now().UTC()
	if body.Timestamp > 0 {
		updatedAt = time.Unix(body.Timestamp, 0).UTC()
	}

	return domain.Price{
		Asset:      domain.AssetGold,
		UsdPerGram: domain.PerGram(body.Price),
		UsdPerOz:   body.Price,
		Source:     "goldfeed",
		UpdatedAt:  updatedAt,
	}, nil
}
