package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mitravel/flightsearch/internal/location"
	"github.com/mitravel/flightsearch/internal/loyalty"
	"github.com/mitravel/flightsearch/internal/models"
	"github.com/mitravel/flightsearch/internal/parser"
	"github.com/mitravel/flightsearch/internal/search"
)

// defaultDateOffset is how far out a search defaults when no travel date is
// detected in the message.
const defaultDateOffset = 14 * 24 * time.Hour

type SearchHandler struct {
	service  *search.Service
	parser   *parser.Parser
	resolver *location.Resolver

	// now is injectable for deterministic default-date tests.
	now func() time.Time
}

func NewSearchHandler(service *search.Service, p *parser.Parser, resolver *location.Resolver) *SearchHandler {
	return &SearchHandler{
		service:  service,
		parser:   p,
		resolver: resolver,
		now:      time.Now,
	}
}

// Search handles a structured search: codes and dates already resolved by
// the caller.
func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	resp, err := h.service.Search(ctx, req, search.ModeLive)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "search_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	return c.JSON(http.StatusOK, resp)
}

// AISearch handles a free-text search: parse the message, resolve the route,
// fill gaps from conversation context, then run the selected strategy.
func (h *SearchHandler) AISearch(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.AISearchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	mode, agent := search.DecideMode(req.Message)
	parsed := h.parser.Parse(req.Message)

	fromCandidate := firstNonEmpty(parsed.FromText, req.Context.From, req.HomeAirport)
	toCandidate := firstNonEmpty(parsed.ToText, req.Context.To)

	resolvedFrom := h.resolver.Resolve(ctx, fromCandidate)
	resolvedTo := h.resolver.Resolve(ctx, toCandidate)

	// Both ends can collapse onto the same code when one candidate only
	// matched a substring of the other ("new york" inside "newark"). If the
	// raw texts differ, prefer distinct heuristic guesses.
	normalizedFrom := location.NormalizeQuery(fromCandidate)
	normalizedTo := location.NormalizeQuery(toCandidate)
	if resolvedFrom != "" && resolvedFrom == resolvedTo &&
		normalizedFrom != "" && normalizedTo != "" && normalizedFrom != normalizedTo {
		guessedFrom := location.Guess(normalizedFrom)
		guessedTo := location.Guess(normalizedTo)
		if guessedFrom != "" && guessedTo != "" && guessedFrom != guessedTo {
			resolvedFrom = guessedFrom
			resolvedTo = guessedTo
		}
	}

	defaultDate := h.now().UTC().Add(defaultDateOffset).Format("2006-01-02")
	autoDateUsed := parsed.Date == "" && req.Context.Date == ""

	finalReq := models.SearchRequest{
		From:            resolvedFrom,
		To:              resolvedTo,
		Date:            firstNonEmpty(parsed.Date, req.Context.Date, defaultDate),
		ReturnDate:      firstNonEmpty(parsed.ReturnDate, req.Context.ReturnDate),
		Cabin:           firstNonEmpty(parsed.Cabin, req.Context.Cabin),
		Preferences:     req.Preferences,
		LoyaltyAccounts: loyalty.BuildAccounts(req.Rewards),
	}

	if finalReq.From == "" || finalReq.To == "" {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrUnresolvedRoute.Error(),
			Message: models.ErrUnresolvedRoute.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	resp, err := h.service.Search(ctx, finalReq, mode)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "search_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	warning := resp.Warning
	if autoDateUsed {
		dateWarning := fmt.Sprintf("No travel date detected. Using %s.", defaultDate)
		if warning == "" {
			warning = dateWarning
		} else {
			warning = dateWarning + " " + warning
		}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	return c.JSON(http.StatusOK, models.AISearchResponse{
		Agent:     agent,
		SessionID: sessionID,
		Parsed:    finalReq,
		Reply:     resp.Reply,
		Results:   resp.Results,
		Warning:   warning,
		Source:    resp.Source,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
