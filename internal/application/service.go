package application

import (
	"context"
	"time"

	"goldquote-service/internal/domain"
)

// QuoteService wires the pure pricing engine to the stored price feed, the
// fee ledger and the refresh job queue. The engine itself never reads
// ambient state; every price it sees comes through here.
type QuoteService struct {
	prices   PriceRepo
	fees     FeeRecordRepo
	jobs     RefreshJobRepo
	provider PriceProvider
	idem     IdempotencyStore

	clock       Clock
	priceTTL    time.Duration
	tradeFeeBps int
	swapFeeBps  int
}

type Clock interface{ Now() time.Time }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type Option func(*QuoteService)

func WithClock(c Clock) Option { return func(s *QuoteService) { s.clock = c } }

// WithPriceTTL rejects quoting from stored prices older than ttl.
// Zero disables the check.
func WithPriceTTL(ttl time.Duration) Option { return func(s *QuoteService) { s.priceTTL = ttl } }

func WithTradeFeeBps(bps int) Option { return func(s *QuoteService) { s.tradeFeeBps = bps } }
func WithSwapFeeBps(bps int) Option  { return func(s *QuoteService) { s.swapFeeBps = bps } }

func NewQuoteService(prices PriceRepo, fees FeeRecordRepo, jobs RefreshJobRepo, provider PriceProvider, idem IdempotencyStore, opts ...Option) *QuoteService {
	s := &QuoteService{
		prices:     prices,
		fees:       fees,
		jobs:       jobs,
		provider:   provider,
		idem:       idem,
		swapFeeBps: domain.DefaultSwapFeeBps,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.idem == nil {
		s.idem = NoopIdempotency{}
	}
	return s
}

// BuyQuoteInput carries one of AmountUSD or Grams. FeeBps overrides the
// configured trade fee when set.
type BuyQuoteInput struct {
	AmountUSD *float64
	Grams     *float64
	FeeBps    *int
}

type SellQuoteInput struct {
	AmountUSD *float64
	Grams     *float64
	FeeBps    *int
}

type SwapInput struct {
	InputAsset   domain.Asset
	OutputAsset  domain.Asset
	OutputAmount float64
	FeeBps       *int
}

func (s *QuoteService) feeBps(override *int, def int) int {
	if override != nil {
		return *override
	}
	return def
}

func (s *QuoteService) goldPrice(ctx context.Context) (domain.Price, error) {
	p, err := s.prices.GetLast(ctx, domain.AssetGold)
	if err != nil {
		return domain.Price{}, err
	}
	if s.priceTTL > 0 && s.clock.Now().Sub(p.UpdatedAt) > s.priceTTL {
		return domain.Price{}, ErrStalePrice
	}
	return p, nil
}

func (s *QuoteService) QuoteBuy(ctx context.Context, in BuyQuoteInput) (domain.Quote, error) {
	p, err := s.goldPrice(ctx)
	if err != nil {
		return domain.Quote{}, err
	}
	q, err := domain.ComputeBuyQuote(domain.BuyRequest{
		AmountUSD:  in.AmountUSD,
		Grams:      in.Grams,
		UsdPerGram: p.UsdPerGram,
		FeeBps:     s.feeBps(in.FeeBps, s.tradeFeeBps),
	})
	if err != nil {
		return domain.Quote{}, err
	}
	q.CreatedAt = s.clock.Now()
	return q, nil
}

func (s *QuoteService) QuoteSell(ctx context.Context, in SellQuoteInput) (domain.Quote, error) {
	p, err := s.goldPrice(ctx)
	if err != nil {
		return domain.Quote{}, err
	}
	q, err := domain.ComputeSellQuote(domain.SellRequest{
		AmountUSD:  in.AmountUSD,
		Grams:      in.Grams,
		UsdPerGram: p.UsdPerGram,
		FeeBps:     s.feeBps(in.FeeBps, s.tradeFeeBps),
	})
	if err != nil {
		return domain.Quote{}, err
	}
	q.CreatedAt = s.clock.Now()
	return q, nil
}

func (s *QuoteService) QuoteSwap(ctx context.Context, in SwapInput) (domain.SwapQuote, error) {
	if !domain.ValidateSwapPair(in.InputAsset, in.OutputAsset) {
		return domain.SwapQuote{}, domain.ErrUnsupportedPair
	}
	bps := s.feeBps(in.FeeBps, s.swapFeeBps)
	fee, remaining, err := domain.SwapFee(in.OutputAmount, bps)
	if err != nil {
		return domain.SwapQuote{}, err
	}
	return domain.SwapQuote{
		InputAsset:      in.InputAsset,
		OutputAsset:     in.OutputAsset,
		OutputAmount:    in.OutputAmount,
		FeeBps:          bps,
		FeeAmount:       fee,
		RemainingAmount: remaining,
		CreatedAt:       s.clock.Now(),
	}, nil
}

// CollectSwapFee persists the fee side of an executed swap. The idem key,
// when present, dedupes retried submissions.
func (s *QuoteService) CollectSwapFee(ctx context.Context, in SwapInput, idemKey *string) (domain.FeeRecord, error) {
	sq, err := s.QuoteSwap(ctx, in)
	if err != nil {
		return domain.FeeRecord{}, err
	}
	if idemKey != nil && *idemKey != "" {
		ok, err := s.idem.TryReserve(ctx, "fees:"+*idemKey)
		if err != nil {
			return domain.FeeRecord{}, err
		}
		if !ok {
			return domain.FeeRecord{}, ErrConflict
		}
	}
	rec := domain.FeeRecord{
		InputAsset:  sq.InputAsset,
		OutputAsset: sq.OutputAsset,
		Amount:      sq.OutputAmount,
		FeeBps:      sq.FeeBps,
		FeeAmount:   sq.FeeAmount,
		CreatedAt:   s.clock.Now(),
	}
	id, err := s.fees.Create(ctx, rec)
	if err != nil {
		return domain.FeeRecord{}, err
	}
	rec.ID = id
	return rec, nil
}

func (s *QuoteService) GetLastPrice(ctx context.Context, asset domain.Asset) (domain.Price, error) {
	if !domain.ValidateAsset(asset) {
		return domain.Price{}, domain.ErrUnsupportedAsset
	}
	return s.prices.GetLast(ctx, asset)
}

func (s *QuoteService) RequestPriceRefresh(ctx context.Context, asset domain.Asset, idemKey *string) (string, error) {
	if !domain.ValidateAsset(asset) {
		return "", domain.ErrUnsupportedAsset
	}
	if idemKey != nil && *idemKey != "" {
		ok, err := s.idem.TryReserve(ctx, "refresh:"+*idemKey)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", ErrConflict
		}
	}
	return s.jobs.CreateQueued(ctx, asset)
}

func (s *QuoteService) GetPriceRefresh(ctx context.Context, id string) (domain.PriceRefresh, error) {
	return s.jobs.GetByID(ctx, id)
}
