// Package search orchestrates offer sourcing: the live provider first, the
// seed inventory as fallback, with markup and caching applied on the live
// path.
package search

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mitravel/flightsearch/internal/cache"
	"github.com/mitravel/flightsearch/internal/inventory"
	"github.com/mitravel/flightsearch/internal/models"
	"github.com/mitravel/flightsearch/internal/pricing"
	"github.com/mitravel/flightsearch/internal/providers"
)

// Mode selects the sourcing strategy for one search.
type Mode string

const (
	// ModeLive queries the Duffel API and falls back to seed data.
	ModeLive Mode = "duffel_api"
	// ModeSeed ranks the seed inventory only.
	ModeSeed Mode = "ota_crawler"
)

type Service struct {
	live   providers.OfferSource
	engine *inventory.Engine
	fees   pricing.FeeTable
	cache  cache.Cache
}

func New(live providers.OfferSource, engine *inventory.Engine, fees pricing.FeeTable, offerCache cache.Cache) *Service {
	if offerCache == nil {
		offerCache = cache.NewNoOpCache()
	}
	return &Service{
		live:   live,
		engine: engine,
		fees:   fees,
		cache:  offerCache,
	}
}

// DecideMode picks the sourcing strategy from the raw message. Shoppers who
// ask for OTA-style results or the cheapest fare get the seed ranking.
func DecideMode(message string) (Mode, models.Agent) {
	text := strings.ToLower(message)
	if strings.Contains(text, "ota") || strings.Contains(text, "cheapest") || strings.Contains(text, "best fare") {
		return ModeSeed, models.Agent{
			Provider: string(ModeSeed),
			Note:     "Agent selected OTA strategy. In MVP mode this uses internal sample data with OTA-style ranking.",
		}
	}
	return ModeLive, models.Agent{
		Provider: string(ModeLive),
		Note:     "Agent selected Duffel flight API strategy.",
	}
}

// Search runs a resolved request through the selected strategy. Live
// failures degrade to seed results with a warning rather than an error.
func (s *Service) Search(ctx context.Context, req models.SearchRequest, mode Mode) (models.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return models.SearchResponse{}, err
	}

	if mode == ModeSeed {
		return s.engine.Search(req)
	}

	if offers, ok := s.cache.Get(ctx, req); ok {
		return s.liveResponse(req, offers), nil
	}

	offers, err := s.live.Search(ctx, req)
	if err != nil {
		log.Printf("live search failed: %v", providers.NewProviderError(s.live.Name(), err))

		fallback, fbErr := s.engine.Search(req)
		if fbErr != nil {
			return models.SearchResponse{}, fbErr
		}
		detail := "Showing seeded fallback data."
		if fallback.Warning != "" {
			detail = fallback.Warning
		}
		fallback.Warning = fmt.Sprintf("Duffel unavailable: %s. %s", err.Error(), detail)
		return fallback, nil
	}

	marked := make([]models.Offer, 0, len(offers))
	for _, offer := range offers {
		marked = append(marked, pricing.ApplyMarkup(offer, s.fees))
	}

	if len(marked) > 0 {
		if err := s.cache.Set(ctx, req, marked); err != nil {
			log.Printf("offer cache write failed: %v", err)
		}
	}

	return s.liveResponse(req, marked), nil
}

func (s *Service) liveResponse(req models.SearchRequest, offers []models.Offer) models.SearchResponse {
	from := strings.ToUpper(strings.TrimSpace(req.From))
	to := strings.ToUpper(strings.TrimSpace(req.To))

	var reply string
	if len(offers) > 0 {
		roundTrip := ""
		if req.ReturnDate != "" {
			roundTrip = "round-trip "
		}
		reply = fmt.Sprintf("I found %d %soption(s) from Duffel.", len(offers), roundTrip)
	} else {
		withReturn := ""
		if req.ReturnDate != "" {
			withReturn = fmt.Sprintf(" with return %s", req.ReturnDate)
		}
		reply = fmt.Sprintf("No Duffel offers found for %s to %s on %s%s.", from, to, req.Date, withReturn)
	}

	return models.SearchResponse{
		Reply:   reply,
		Results: offers,
		Source:  models.SourceDuffel,
	}
}
