package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitravel/flightsearch/internal/inventory"
	"github.com/mitravel/flightsearch/internal/models"
	"github.com/mitravel/flightsearch/internal/pricing"
)

type stubSource struct {
	offers []models.Offer
	err    error
	calls  int
}

func (s *stubSource) Name() string { return "duffel" }

func (s *stubSource) Search(ctx context.Context, req models.SearchRequest) ([]models.Offer, error) {
	s.calls++
	return s.offers, s.err
}

type recordingCache struct {
	stored []models.Offer
	hit    []models.Offer
}

func (c *recordingCache) Get(ctx context.Context, req models.SearchRequest) ([]models.Offer, bool) {
	return c.hit, c.hit != nil
}

func (c *recordingCache) Set(ctx context.Context, req models.SearchRequest, offers []models.Offer) error {
	c.stored = offers
	return nil
}

func (c *recordingCache) Close() error { return nil }

func seedEngine() *inventory.Engine {
	return inventory.NewEngine(inventory.NewStore([]inventory.Flight{
		{ID: "f1", From: "FRA", To: "JFK", Date: "2026-04-10", Airline: "Lufthansa", FlightNumber: "LH111", Cabin: "Business", PointsRequired: 20000, CashPrice: 580, Stops: "Non stop"},
	}))
}

func fees() pricing.FeeTable {
	return pricing.FeeTable{models.CabinEconomy: 5, models.CabinBusiness: 10}
}

func TestSearchLiveAppliesMarkupAndCaches(t *testing.T) {
	source := &stubSource{offers: []models.Offer{
		{ID: "duffel_off_1", Source: models.SourceDuffel, CashPrice: 100, Cabin: "business", Currency: "EUR"},
	}}
	store := &recordingCache{}
	svc := New(source, seedEngine(), fees(), store)

	resp, err := svc.Search(context.Background(), models.SearchRequest{From: "FRA", To: "JFK", Date: "2026-04-10"}, ModeLive)
	require.NoError(t, err)
	require.Equal(t, models.SourceDuffel, resp.Source)
	require.Equal(t, "I found 1 option(s) from Duffel.", resp.Reply)
	require.Empty(t, resp.Warning)

	require.Len(t, resp.Results, 1)
	got := resp.Results[0]
	require.Equal(t, 110.0, got.CashPrice)
	require.Equal(t, 100.0, got.BaseCashPrice)
	require.Equal(t, models.CabinBusiness, got.FeeCabin)

	require.Equal(t, resp.Results, store.stored)
}

func TestSearchLiveFailureFallsBackToSeed(t *testing.T) {
	source := &stubSource{err: errors.New("Duffel token is missing.")}
	svc := New(source, seedEngine(), fees(), nil)

	resp, err := svc.Search(context.Background(), models.SearchRequest{From: "FRA", To: "JFK", Date: "2026-04-10"}, ModeLive)
	require.NoError(t, err)
	require.Equal(t, models.SourceSeed, resp.Source)
	require.Len(t, resp.Results, 1)
	require.Equal(t, "f1", resp.Results[0].ID)
	// The reason keeps its own trailing period, so the joined warning
	// carries two.
	require.Equal(t, "Duffel unavailable: Duffel token is missing.. Showing seeded fallback data.", resp.Warning)
}

func TestSearchLiveFailureKeepsSeedWarning(t *testing.T) {
	source := &stubSource{err: errors.New("Duffel request timed out.")}
	svc := New(source, seedEngine(), fees(), nil)

	resp, err := svc.Search(context.Background(), models.SearchRequest{From: "FRA", To: "JFK", Date: "2026-05-01"}, ModeLive)
	require.NoError(t, err)
	require.Equal(t, "Duffel unavailable: Duffel request timed out.. No seeded flights on 2026-05-01. Showing nearest available dates instead.", resp.Warning)
}

func TestSearchSeedModeSkipsLiveSource(t *testing.T) {
	source := &stubSource{offers: []models.Offer{{ID: "should-not-appear"}}}
	svc := New(source, seedEngine(), fees(), nil)

	resp, err := svc.Search(context.Background(), models.SearchRequest{From: "FRA", To: "JFK", Date: "2026-04-10"}, ModeSeed)
	require.NoError(t, err)
	require.Zero(t, source.calls)
	require.Equal(t, models.SourceSeed, resp.Source)
}

func TestSearchCacheHitSkipsLiveSource(t *testing.T) {
	source := &stubSource{}
	store := &recordingCache{hit: []models.Offer{{ID: "duffel_off_9", Source: models.SourceDuffel}}}
	svc := New(source, seedEngine(), fees(), store)

	resp, err := svc.Search(context.Background(), models.SearchRequest{From: "FRA", To: "JFK", Date: "2026-04-10"}, ModeLive)
	require.NoError(t, err)
	require.Zero(t, source.calls)
	require.Equal(t, "duffel_off_9", resp.Results[0].ID)
}

func TestSearchLiveEmptyResultIsNotFallback(t *testing.T) {
	source := &stubSource{offers: nil}
	svc := New(source, seedEngine(), fees(), nil)

	resp, err := svc.Search(context.Background(), models.SearchRequest{From: "FRA", To: "JFK", Date: "2026-04-10", ReturnDate: "2026-04-20"}, ModeLive)
	require.NoError(t, err)
	require.Equal(t, models.SourceDuffel, resp.Source)
	require.Empty(t, resp.Results)
	require.Equal(t, "No Duffel offers found for FRA to JFK on 2026-04-10 with return 2026-04-20.", resp.Reply)
}

func TestDecideMode(t *testing.T) {
	tests := []struct {
		message string
		want    Mode
	}{
		{"flights from fra to jfk", ModeLive},
		{"find me the cheapest fare to rome", ModeSeed},
		{"use the OTA please", ModeSeed},
		{"best fare business class", ModeSeed},
	}

	for _, tt := range tests {
		mode, agent := DecideMode(tt.message)
		require.Equal(t, tt.want, mode, tt.message)
		require.Equal(t, string(mode), agent.Provider)
		require.NotEmpty(t, agent.Note)
	}
}
