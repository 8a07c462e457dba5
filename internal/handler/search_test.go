package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/mitravel/flightsearch/internal/inventory"
	"github.com/mitravel/flightsearch/internal/location"
	"github.com/mitravel/flightsearch/internal/models"
	"github.com/mitravel/flightsearch/internal/parser"
	"github.com/mitravel/flightsearch/internal/search"
)

type stubSource struct {
	offers []models.Offer
	err    error
	calls  int
	last   models.SearchRequest
}

func (s *stubSource) Name() string { return "duffel" }

func (s *stubSource) Search(ctx context.Context, req models.SearchRequest) ([]models.Offer, error) {
	s.calls++
	s.last = req
	return s.offers, s.err
}

func newTestHandler(source *stubSource) *SearchHandler {
	engine := inventory.NewEngine(inventory.NewStore([]inventory.Flight{
		{ID: "f1", From: "FRA", To: "JFK", Date: "2026-04-10", Airline: "Lufthansa", FlightNumber: "LH111", Cabin: "Business", PointsRequired: 20000, CashPrice: 580, Stops: "Non stop"},
	}))
	svc := search.New(source, engine, nil, nil)

	p := parser.New()
	p.Now = func() time.Time { return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC) }

	h := NewSearchHandler(svc, p, location.NewResolver(location.NewAirportIndex(nil), nil))
	h.now = func() time.Time { return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC) }
	return h
}

func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestAISearchResolvesRouteAndDelegates(t *testing.T) {
	source := &stubSource{offers: []models.Offer{
		{ID: "duffel_off_1", Source: models.SourceDuffel, CashPrice: 300},
	}}
	h := newTestHandler(source)

	rec := postJSON(t, h.AISearch, "/api/v1/flights/ai-search",
		`{"message":"book me a business flight from frankfurt to new york on 2026-04-10","rewards":[{"programName":"Miles & More","memberId":"992200"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AISearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "duffel_api", resp.Agent.Provider)
	require.Equal(t, "FRA", resp.Parsed.From)
	require.Equal(t, "JFK", resp.Parsed.To)
	require.Equal(t, "2026-04-10", resp.Parsed.Date)
	require.Equal(t, models.CabinBusiness, resp.Parsed.Cabin)
	require.Equal(t, []models.LoyaltyAccount{{AirlineIATACode: "LH", AccountNumber: "992200"}}, resp.Parsed.LoyaltyAccounts)
	require.NotEmpty(t, resp.SessionID)
	require.Len(t, resp.Results, 1)
	require.Empty(t, resp.Warning)
	require.Equal(t, 1, source.calls)
	require.Equal(t, resp.Parsed, source.last)
}

func TestAISearchDefaultsDateWithWarning(t *testing.T) {
	source := &stubSource{}
	h := newTestHandler(source)

	rec := postJSON(t, h.AISearch, "/api/v1/flights/ai-search",
		`{"message":"from frankfurt to new york"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AISearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "2026-03-15", resp.Parsed.Date)
	require.Contains(t, resp.Warning, "No travel date detected. Using 2026-03-15.")
}

func TestAISearchUsesContextAndHomeAirport(t *testing.T) {
	source := &stubSource{}
	h := newTestHandler(source)

	rec := postJSON(t, h.AISearch, "/api/v1/flights/ai-search",
		`{"message":"any flights available","homeAirport":"FRA","context":{"to":"singapore","date":"2026-06-01","cabin":"economy"}}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AISearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "FRA", resp.Parsed.From)
	require.Equal(t, "SIN", resp.Parsed.To)
	require.Equal(t, "2026-06-01", resp.Parsed.Date)
	require.Equal(t, models.CabinEconomy, resp.Parsed.Cabin)
	require.NotContains(t, resp.Warning, "No travel date detected")
}

func TestAISearchUnresolvedRouteIs400(t *testing.T) {
	h := newTestHandler(&stubSource{})

	rec := postJSON(t, h.AISearch, "/api/v1/flights/ai-search", `{"message":"I want to go somewhere warm"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, models.ErrUnresolvedRoute.Error(), resp.Error)
}

func TestAISearchSeedModeForCheapest(t *testing.T) {
	source := &stubSource{}
	h := newTestHandler(source)

	rec := postJSON(t, h.AISearch, "/api/v1/flights/ai-search",
		`{"message":"cheapest flight from frankfurt to new york on 2026-04-10"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AISearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ota_crawler", resp.Agent.Provider)
	require.Equal(t, models.SourceSeed, resp.Source)
	require.Zero(t, source.calls)
}

func TestAISearchLiveFailureDegradesToSeed(t *testing.T) {
	source := &stubSource{err: errors.New("Duffel token is missing.")}
	h := newTestHandler(source)

	rec := postJSON(t, h.AISearch, "/api/v1/flights/ai-search",
		`{"message":"from frankfurt to new york on 2026-04-10"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.AISearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, models.SourceSeed, resp.Source)
	require.Len(t, resp.Results, 1)
	require.Contains(t, resp.Warning, "Duffel unavailable: Duffel token is missing.")
}

func TestSearchValidatesRequest(t *testing.T) {
	h := newTestHandler(&stubSource{})

	rec := postJSON(t, h.Search, "/api/v1/flights/search", `{"to":"JFK","date":"2026-04-10"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "validation_error", resp.Error)
}

func TestSearchStructuredRequest(t *testing.T) {
	source := &stubSource{offers: []models.Offer{{ID: "duffel_off_2", Source: models.SourceDuffel, CashPrice: 450}}}
	h := newTestHandler(source)

	rec := postJSON(t, h.Search, "/api/v1/flights/search", `{"from":"FRA","to":"JFK","date":"2026-04-10"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, models.SourceDuffel, resp.Source)
	require.Len(t, resp.Results, 1)
	require.Equal(t, 1, source.calls)
}

func TestHealthHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, HealthHandler(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
