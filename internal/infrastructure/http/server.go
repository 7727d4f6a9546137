package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"goldquote-service/internal/application"
	"goldquote-service/internal/domain"
	"goldquote-service/internal/infrastructure/metrics"
)

type Server struct {
	svc *application.QuoteService
}

func NewServer(svc *application.QuoteService) *Server { return &Server{svc: svc} }

type quoteRequest struct {
	AmountUSD *float64 `json:"amount_usd,omitempty"`
	Grams     *float64 `json:"grams,omitempty"`
	FeeBps    *int     `json:"fee_bps,omitempty"`
}

type quoteResponse struct {
	Side         string    `json:"side"`
	InputAsset   string    `json:"input_asset"`
	OutputAsset  string    `json:"output_asset"`
	InputAmount  float64   `json:"input_amount"`
	OutputAmount float64   `json:"output_amount"`
	GrossGrams   float64   `json:"gross_grams"`
	NetGrams     float64   `json:"net_grams"`
	FeeBps       int       `json:"fee_bps"`
	FeeUSD       float64   `json:"fee_usd"`
	UnitPriceUSD float64   `json:"unit_price_usd"`
	CreatedAt    time.Time `json:"created_at"`
}

func toQuoteResponse(q domain.Quote) quoteResponse {
	return quoteResponse{
		Side:         string(q.Side),
		InputAsset:   string(q.InputAsset),
		OutputAsset:  string(q.OutputAsset),
		InputAmount:  q.InputAmount,
		OutputAmount: q.OutputAmount,
		GrossGrams:   q.GrossGrams,
		NetGrams:     q.NetGrams,
		FeeBps:       q.FeeBps,
		FeeUSD:       q.FeeUSD,
		UnitPriceUSD: q.UnitPriceUSD,
		CreatedAt:    q.CreatedAt,
	}
}

func (s *Server) QuoteBuy(w http.ResponseWriter, r *http.Request) {
	var body quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	q, err := s.svc.QuoteBuy(r.Context(), application.BuyQuoteInput{
		AmountUSD: body.AmountUSD,
		Grams:     body.Grams,
		FeeBps:    body.FeeBps,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	metrics.QuotesComputed.WithLabelValues("buy").Inc()
	writeJSON(w, http.StatusOK, toQuoteResponse(q))
}

func (s *Server) QuoteSell(w http.ResponseWriter, r *http.Request) {
	var body quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	q, err := s.svc.QuoteSell(r.Context(), application.SellQuoteInput{
		AmountUSD: body.AmountUSD,
		Grams:     body.Grams,
		FeeBps:    body.FeeBps,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	metrics.QuotesComputed.WithLabelValues("sell").Inc()
	writeJSON(w, http.StatusOK, toQuoteResponse(q))
}

type swapRequest struct {
	InputAsset   string   `json:"input_asset"`
	OutputAsset  string   `json:"output_asset"`
	OutputAmount *float64 `json:"output_amount"`
	FeeBps       *int     `json:"fee_bps,omitempty"`
}

type swapQuoteResponse struct {
	InputAsset      string    `json:"input_asset"`
	OutputAsset     string    `json:"output_asset"`
	OutputAmount    float64   `json:"output_amount"`
	FeeBps          int       `json:"fee_bps"`
	FeeAmount       float64   `json:"fee_amount"`
	RemainingAmount float64   `json:"remaining_amount"`
	CreatedAt       time.Time `json:"created_at"`
}

func (r swapRequest) toInput() (application.SwapInput, bool) {
	if r.InputAsset == "" || r.OutputAsset == "" || r.OutputAmount == nil {
		return application.SwapInput{}, false
	}
	return application.SwapInput{
		InputAsset:   domain.Asset(r.InputAsset),
		OutputAsset:  domain.Asset(r.OutputAsset),
		OutputAmount: *r.OutputAmount,
		FeeBps:       r.FeeBps,
	}, true
}

func (s *Server) QuoteSwap(w http.ResponseWriter, r *http.Request) {
	var body swapRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in, ok := body.toInput()
	if !ok {
		writeError(w, http.StatusBadRequest, "input_asset, output_asset and output_amount are required")
		return
	}
	sq, err := s.svc.QuoteSwap(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	metrics.QuotesComputed.WithLabelValues("swap").Inc()
	writeJSON(w, http.StatusOK, swapQuoteResponse{
		InputAsset:      string(sq.InputAsset),
		OutputAsset:     string(sq.OutputAsset),
		OutputAmount:    sq.OutputAmount,
		FeeBps:          sq.FeeBps,
		FeeAmount:       sq.FeeAmount,
		RemainingAmount: sq.RemainingAmount,
		CreatedAt:       sq.CreatedAt,
	})
}

type feeRecordResponse struct {
	ID          string    `json:"id"`
	InputAsset  string    `json:"input_asset"`
	OutputAsset string    `json:"output_asset"`
	Amount      float64   `json:"amount"`
	FeeBps      int       `json:"fee_bps"`
	FeeAmount   float64   `json:"fee_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Server) CollectSwapFee(w http.ResponseWriter, r *http.Request) {
	var body swapRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	in, ok := body.toInput()
	if !ok {
		writeError(w, http.StatusBadRequest, "input_asset, output_asset and output_amount are required")
		return
	}
	rec, err := s.svc.CollectSwapFee(r.Context(), in, idemKey(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	metrics.FeesCollected.Inc()
	writeJSON(w, http.StatusCreated, feeRecordResponse{
		ID:          rec.ID,
		InputAsset:  string(rec.InputAsset),
		OutputAsset: string(rec.OutputAsset),
		Amount:      rec.Amount,
		FeeBps:      rec.FeeBps,
		FeeAmount:   rec.FeeAmount,
		CreatedAt:   rec.CreatedAt,
	})
}

type priceResponse struct {
	Asset      string    `json:"asset"`
	UsdPerGram float64   `json:"usd_per_gram"`
	UsdPerOz   float64   `json:"usd_per_oz"`
	Source     string    `json:"source"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s *Server) GetLastPrice(w http.ResponseWriter, r *http.Request) {
	asset := r.URL.Query().Get("asset")
	if asset == "" {
		asset = string(domain.AssetGold)
	}
	p, err := s.svc.GetLastPrice(r.Context(), domain.Asset(asset))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, priceResponse{
		Asset:      string(p.Asset),
		UsdPerGram: p.UsdPerGram,
		UsdPerOz:   p.UsdPerOz,
		Source:     p.Source,
		UpdatedAt:  p.UpdatedAt,
	})
}

type refreshRequest struct {
	Asset string `json:"asset"`
}

type refreshResponse struct {
	RefreshID string `json:"refresh_id"`
}

type refreshDetails struct {
	RefreshID string    `json:"refresh_id"`
	Asset     string    `json:"asset"`
	Status    string    `json:"status"`
	Error     *string   `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) RequestPriceRefresh(w http.ResponseWriter, r *http.Request) {
	var body refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Asset == "" {
		writeError(w, http.StatusBadRequest, "asset is required")
		return
	}
	id, err := s.svc.RequestPriceRefresh(r.Context(), domain.Asset(body.Asset), idemKey(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, refreshResponse{RefreshID: id})
}

func (s *Server) GetPriceRefresh(w http.ResponseWriter, r *http.Request, id string) {
	job, err := s.svc.GetPriceRefresh(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, refreshDetails{
		RefreshID: job.ID,
		Asset:     string(job.Asset),
		Status:    string(job.Status),
		Error:     job.Error,
		UpdatedAt: job.UpdatedAt,
	})
}

func idemKey(r *http.Request) *string {
	if k := r.Header.Get("X-Idempotency-Key"); k != "" {
		return &k
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidPrice):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrUnsupportedAsset), errors.Is(err, domain.ErrUnsupportedPair):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	case errors.Is(err, application.ErrConflict):
		writeError(w, http.StatusConflict, "duplicate request")
	case errors.Is(err, application.ErrStalePrice):
		writeError(w, http.StatusServiceUnavailable, "price feed is stale")
	default:
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
