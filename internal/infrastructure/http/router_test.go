package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"goldquote-service/internal/application"

	"github.com/stretchr/testify/require"
)

func setup(opts ...application.Option) http.Handler {
	svc := NewInMemoryService(opts...)
	srv := NewServer(svc)
	return NewRouter(srv, RouterOptions{})
}

func postJSON(t *testing.T, h http.Handler, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h := setup()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}

func TestQuoteBuy(t *testing.T) {
	h := setup(application.WithTradeFeeBps(50))
	rec := postJSON(t, h, "/quotes/buy", map[string]any{"amount_usd": 100}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Side       string  `json:"side"`
		GrossGrams float64 `json:"gross_grams"`
		NetGrams   float64 `json:"net_grams"`
		FeeUSD     float64 `json:"fee_usd"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "buy", resp.Side)
	require.InDelta(t, 1.32573, resp.GrossGrams, 1e-4)
	require.InDelta(t, 0.5, resp.FeeUSD, 1e-9)
	require.Less(t, resp.NetGrams, resp.GrossGrams)
}

func TestQuoteBuy_RejectsNonPositive(t *testing.T) {
	h := setup()
	for _, amount := range []float64{0, -5} {
		rec := postJSON(t, h, "/quotes/buy", map[string]any{"amount_usd": amount}, nil)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	}
}

func TestQuoteBuy_RejectsBothInputs(t *testing.T) {
	h := setup()
	rec := postJSON(t, h, "/quotes/buy", map[string]any{"amount_usd": 100, "grams": 1}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestQuoteSell(t *testing.T) {
	h := setup(application.WithTradeFeeBps(80))
	rec := postJSON(t, h, "/quotes/sell", map[string]any{"grams": 2}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		OutputAmount float64 `json:"output_amount"`
		FeeUSD       float64 `json:"fee_usd"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	gross := 2 * 75.43
	require.InDelta(t, gross*0.008, resp.FeeUSD, 1e-9)
	require.InDelta(t, gross-resp.FeeUSD, resp.OutputAmount, 1e-9)
}

func TestQuoteSwap(t *testing.T) {
	h := setup()
	rec := postJSON(t, h, "/quotes/swap", map[string]any{
		"input_asset":   "USDC",
		"output_asset":  "GOLD",
		"output_amount": 1000,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		FeeBps          int     `json:"fee_bps"`
		FeeAmount       float64 `json:"fee_amount"`
		RemainingAmount float64 `json:"remaining_amount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 80, resp.FeeBps)
	require.InDelta(t, 8.0, resp.FeeAmount, 1e-9)
	require.InDelta(t, 992.0, resp.RemainingAmount, 1e-9)
}

func TestQuoteSwap_UnsupportedPair(t *testing.T) {
	h := setup()
	rec := postJSON(t, h, "/quotes/swap", map[string]any{
		"input_asset":   "USDC",
		"output_asset":  "ETH",
		"output_amount": 100,
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCollectSwapFee(t *testing.T) {
	h := setup()
	body := map[string]any{"input_asset": "GOLD", "output_asset": "USDC", "output_amount": 1000}
	rec := postJSON(t, h, "/fees", body, map[string]string{"X-Idempotency-Key": "k1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID        string  `json:"id"`
		FeeAmount float64 `json:"fee_amount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	require.InDelta(t, 8.0, resp.FeeAmount, 1e-9)
}

func TestGetLastPrice(t *testing.T) {
	h := setup()
	req := httptest.NewRequest(http.MethodGet, "/prices/last?asset=GOLD", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		UsdPerGram float64 `json:"usd_per_gram"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.InDelta(t, 75.43, resp.UsdPerGram, 1e-9)
}

func TestGetLastPrice_UnknownAsset(t *testing.T) {
	h := setup()
	req := httptest.NewRequest(http.MethodGet, "/prices/last?asset=DOGE", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestPriceRefresh(t *testing.T) {
	h := setup()
	rec := postJSON(t, h, "/prices/refresh", map[string]any{"asset": "GOLD"}, map[string]string{"X-Idempotency-Key": "k1"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp struct {
		RefreshID string `json:"refresh_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "refresh-1", resp.RefreshID)

	req := httptest.NewRequest(http.MethodGet, "/prices/refresh/"+resp.RefreshID, nil)
	getRec := httptest.NewRecorder()
	h.ServeHTTP(getRec, req)
	require.Equal(t, http.StatusOK, getRec.Code)
}

func TestGetPriceRefresh_NotFound(t *testing.T) {
	h := setup()
	req := httptest.NewRequest(http.MethodGet, "/prices/refresh/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	svc := NewInMemoryService()
	h := NewRouter(NewServer(svc), RouterOptions{RateLimitRPS: 1, RateBurst: 1})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := setup()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
