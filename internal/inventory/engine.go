package inventory

import (
	"fmt"
	"strings"

	"github.com/mitravel/flightsearch/internal/models"
	"github.com/mitravel/flightsearch/internal/ranking"
	"github.com/mitravel/flightsearch/pkg/currency"
)

const (
	maxResults      = 6
	maxLegOptions   = 4
	defaultCurrency = "EUR"
)

// Engine builds and ranks offer candidates from the seed inventory. It is
// the deterministic fallback behind the live provider: filter, combine,
// rank, top six.
type Engine struct {
	store *Store
}

func NewEngine(store *Store) *Engine {
	return &Engine{store: store}
}

// Search dispatches to the one-way or round-trip path. A request that
// matches nothing is still a successful response with an explanatory reply.
func (e *Engine) Search(req models.SearchRequest) (models.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return models.SearchResponse{}, err
	}
	if req.ReturnDate != "" {
		return e.searchRoundTrip(req), nil
	}
	return e.searchOneWay(req), nil
}

func (e *Engine) searchOneWay(req models.SearchRequest) models.SearchResponse {
	rows := e.filter(req.From, req.To, req.Date, req.Cabin)

	warning := ""
	if len(rows) == 0 && req.Date != "" {
		rows = e.filter(req.From, req.To, "", req.Cabin)
		if len(rows) > 0 {
			warning = fmt.Sprintf("No seeded flights on %s. Showing nearest available dates instead.", req.Date)
		}
	}

	offers := make([]models.Offer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, oneWayOffer(row))
	}
	offers = ranking.Compute(offers)
	ranking.SortOneWay(offers)
	offers = ranking.Top(offers, maxResults)

	var reply string
	if len(offers) == 0 {
		onDate := ""
		if req.Date != "" {
			onDate = fmt.Sprintf(" on %s", req.Date)
		}
		reply = fmt.Sprintf("I could not find reward flights for %s to %s%s. Try changing date or cabin.", req.From, req.To, onDate)
	} else {
		top := offers[0]
		reply = fmt.Sprintf("I found %d option(s). Best value right now is %s %s for %s points.",
			len(offers), top.Airline, top.FlightNumber, currency.FormatPoints(top.PointsRequired))
	}

	return models.SearchResponse{
		Reply:   reply,
		Results: offers,
		Warning: warning,
		Source:  models.SourceSeed,
	}
}

func (e *Engine) searchRoundTrip(req models.SearchRequest) models.SearchResponse {
	outbound := e.filter(req.From, req.To, req.Date, req.Cabin)
	inbound := e.filter(req.To, req.From, req.ReturnDate, req.Cabin)

	if len(outbound) > maxLegOptions {
		outbound = outbound[:maxLegOptions]
	}
	if len(inbound) > maxLegOptions {
		inbound = inbound[:maxLegOptions]
	}

	combos := make([]models.Offer, 0, len(outbound)*len(inbound))
	for _, out := range outbound {
		for _, back := range inbound {
			combos = append(combos, combineLegs(out, back))
		}
	}
	combos = ranking.Compute(combos)
	ranking.SortRoundTrip(combos)
	combos = ranking.Top(combos, maxResults)

	if len(combos) == 0 {
		return models.SearchResponse{
			Reply: fmt.Sprintf("I could not find round-trip seeded flights for %s to %s, outbound %s and return %s.",
				req.From, req.To, req.Date, req.ReturnDate),
			Results: []models.Offer{},
			Source:  models.SourceSeed,
		}
	}

	return models.SearchResponse{
		Reply:   fmt.Sprintf("I found %d round-trip option(s) for %s to %s.", len(combos), req.From, req.To),
		Results: combos,
		Source:  models.SourceSeed,
	}
}

// filter matches seed rows on route, optionally date and cabin. Cabin
// comparison is case-insensitive since seed rows carry display casing.
func (e *Engine) filter(from, to, date, cabin string) []Flight {
	cabin = strings.ToLower(cabin)
	var rows []Flight
	for _, f := range e.store.Flights() {
		if f.From != from || f.To != to {
			continue
		}
		if date != "" && f.Date != date {
			continue
		}
		if cabin != "" && strings.ToLower(f.Cabin) != cabin {
			continue
		}
		rows = append(rows, f)
	}
	return rows
}

func oneWayOffer(f Flight) models.Offer {
	return models.Offer{
		ID:                   f.ID,
		Source:               models.SourceSeed,
		From:                 f.From,
		To:                   f.To,
		OutboundFrom:         f.From,
		OutboundTo:           f.To,
		OutboundAirline:      f.Airline,
		OutboundFlightNumber: f.FlightNumber,
		Date:                 f.Date,
		Airline:              f.Airline,
		FlightNumber:         f.FlightNumber,
		Cabin:                f.Cabin,
		PointsRequired:       f.PointsRequired,
		CashPrice:            f.CashPrice,
		Currency:             rowCurrency(f),
		DepTime:              f.DepTime,
		ArrTime:              f.ArrTime,
		Duration:             f.Duration,
		Stops:                f.Stops,
	}
}

// combineLegs merges an outbound and an inbound row into one round-trip
// candidate: summed price and points, concatenated display fields.
func combineLegs(out, back Flight) models.Offer {
	stops := "Mixed"
	if out.Stops == "Non stop" && back.Stops == "Non stop" {
		stops = "Non stop both ways"
	}

	return models.Offer{
		ID:                   fmt.Sprintf("rt_%s_%s", out.ID, back.ID),
		Source:               models.SourceSeed,
		RoundTrip:            true,
		From:                 out.From,
		To:                   out.To,
		OutboundFrom:         out.From,
		OutboundTo:           out.To,
		Date:                 out.Date,
		ReturnDate:           back.Date,
		Airline:              fmt.Sprintf("%s / %s", out.Airline, back.Airline),
		FlightNumber:         fmt.Sprintf("%s + %s", out.FlightNumber, back.FlightNumber),
		OutboundAirline:      out.Airline,
		OutboundFlightNumber: out.FlightNumber,
		ReturnFrom:           back.From,
		ReturnTo:             back.To,
		ReturnAirline:        back.Airline,
		ReturnFlightNumber:   back.FlightNumber,
		ReturnDuration:       back.Duration,
		ReturnStops:          back.Stops,
		Cabin:                out.Cabin,
		PointsRequired:       out.PointsRequired + back.PointsRequired,
		CashPrice:            out.CashPrice + back.CashPrice,
		Currency:             rowCurrency(out),
		DepTime:              out.DepTime,
		ArrTime:              out.ArrTime,
		ReturnDepTime:        back.DepTime,
		ReturnArrTime:        back.ArrTime,
		Duration:             strings.TrimSpace(fmt.Sprintf("%s + %s", out.Duration, back.Duration)),
		Stops:                stops,
	}
}

func rowCurrency(f Flight) string {
	if f.Currency != "" {
		return f.Currency
	}
	return defaultCurrency
}
