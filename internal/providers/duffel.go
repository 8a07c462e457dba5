package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mitravel/flightsearch/internal/models"
	"github.com/mitravel/flightsearch/internal/ratelimit"
)

const (
	defaultDuffelBaseURL = "https://api.duffel.com"
	defaultDuffelVersion = "v2"
	duffelSearchTimeout  = 25 * time.Second
	maxDuffelOffers      = 8

	// Limiter keys. Offer requests and place lookups have separate quotas.
	endpointOffers = "offers"
	endpointPlaces = "places"

	preferencesHeader = "X-MiTravel-Preferences"
)

var (
	errDuffelTokenMissing = errors.New("Duffel token is missing.")
	errDuffelTimedOut     = errors.New("Duffel request timed out.")
	errDuffelMissingRoute = errors.New("Duffel search requires from, to and date.")

	isoDurationRe = regexp.MustCompile(`(?i)^PT(?:(\d+)H)?(?:(\d+)M)?$`)
	airlineCodeRe = regexp.MustCompile(`^[A-Z0-9]{2}$`)
	iataRe        = regexp.MustCompile(`^[A-Z]{3}$`)
)

type DuffelConfig struct {
	BaseURL string
	Version string
	Token   string
	Timeout time.Duration
}

// DuffelClient talks to the Duffel offers API. It doubles as the remote
// place lookup used by the location resolver.
type DuffelClient struct {
	baseURL string
	version string
	token   string
	client  *http.Client
	limiter *ratelimit.ProviderLimiter
}

func NewDuffelClient(cfg DuffelConfig, limiter *ratelimit.ProviderLimiter) *DuffelClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultDuffelBaseURL
	}
	if cfg.Version == "" {
		cfg.Version = defaultDuffelVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = duffelSearchTimeout
	}
	if limiter == nil {
		limiter = ratelimit.NewProviderLimiterWithDefaults()
	}
	return &DuffelClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		version: cfg.Version,
		token:   cfg.Token,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
	}
}

func (d *DuffelClient) Name() string {
	return "duffel"
}

type duffelSlice struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
}

type duffelPassenger struct {
	Type                     string                  `json:"type"`
	LoyaltyProgrammeAccounts []models.LoyaltyAccount `json:"loyalty_programme_accounts,omitempty"`
}

type duffelOfferRequest struct {
	Data struct {
		Slices     []duffelSlice     `json:"slices"`
		Passengers []duffelPassenger `json:"passengers"`
		CabinClass string            `json:"cabin_class,omitempty"`
	} `json:"data"`
}

type duffelCarrier struct {
	Name     string `json:"name"`
	IATACode string `json:"iata_code"`
}

type duffelSegment struct {
	DepartingAt                  string         `json:"departing_at"`
	ArrivingAt                   string         `json:"arriving_at"`
	OperatingCarrier             *duffelCarrier `json:"operating_carrier"`
	MarketingCarrier             *duffelCarrier `json:"marketing_carrier"`
	OperatingCarrierFlightNumber string         `json:"operating_carrier_flight_number"`
	MarketingCarrierFlightNumber string         `json:"marketing_carrier_flight_number"`
	CabinClassMarketingName      string         `json:"cabin_class_marketing_name"`
}

type duffelPlace struct {
	IATACode string `json:"iata_code"`
}

type duffelOfferSlice struct {
	Origin      duffelPlace     `json:"origin"`
	Destination duffelPlace     `json:"destination"`
	Duration    string          `json:"duration"`
	Segments    []duffelSegment `json:"segments"`
}

type duffelOffer struct {
	ID            string `json:"id"`
	TotalAmount   string `json:"total_amount"`
	TotalCurrency string `json:"total_currency"`
	Owner         struct {
		Name string `json:"name"`
	} `json:"owner"`
	Passengers []struct {
		ID string `json:"id"`
	} `json:"passengers"`
	Slices []duffelOfferSlice `json:"slices"`
}

type duffelOfferResponse struct {
	Data struct {
		Offers []duffelOffer `json:"offers"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Error string `json:"error"`
}

// Search posts an offer request and returns up to eight normalized offers.
// The returned error text is surfaced to the user in the fallback warning,
// so messages stay human readable.
func (d *DuffelClient) Search(ctx context.Context, req models.SearchRequest) ([]models.Offer, error) {
	from := strings.ToUpper(strings.TrimSpace(req.From))
	to := strings.ToUpper(strings.TrimSpace(req.To))
	date := strings.TrimSpace(req.Date)
	returnDate := strings.TrimSpace(req.ReturnDate)

	if from == "" || to == "" || date == "" {
		return nil, errDuffelMissingRoute
	}
	if d.token == "" {
		return nil, errDuffelTokenMissing
	}

	if err := d.limiter.Wait(ctx, endpointOffers); err != nil {
		return nil, err
	}

	preferences := normalizePreferences(req.Preferences)
	cabin := mapCabinToDuffel(req.Cabin)
	if cabin == "" {
		cabin = preferredCabinFromPreferences(preferences)
	}

	var body duffelOfferRequest
	body.Data.Slices = []duffelSlice{{Origin: from, Destination: to, DepartureDate: date}}
	if returnDate != "" {
		body.Data.Slices = append(body.Data.Slices, duffelSlice{Origin: to, Destination: from, DepartureDate: returnDate})
	}
	body.Data.Passengers = []duffelPassenger{{
		Type:                     "adult",
		LoyaltyProgrammeAccounts: filterLoyaltyAccounts(req.LoyaltyAccounts),
	}}
	body.Data.CabinClass = cabin

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, duffelSearchTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.baseURL+"/air/offer_requests?return_offers=true", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	d.setHeaders(httpReq)
	if len(preferences) > 0 {
		httpReq.Header.Set(preferencesHeader, strings.Join(preferences, ", "))
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errDuffelTimedOut
		}
		return nil, err
	}
	defer resp.Body.Close()

	var decoded duffelOfferResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := "Duffel request failed"
		if len(decoded.Errors) > 0 && decoded.Errors[0].Message != "" {
			detail = decoded.Errors[0].Message
		} else if decoded.Error != "" {
			detail = decoded.Error
		}
		return nil, errors.New(detail)
	}

	offers := decoded.Data.Offers
	if len(offers) > maxDuffelOffers {
		offers = offers[:maxDuffelOffers]
	}

	results := make([]models.Offer, 0, len(offers))
	for _, offer := range offers {
		results = append(results, normalizeDuffelOffer(offer, from, to, date, returnDate, cabin))
	}
	return results, nil
}

// LookupIATA resolves a free-text place name through the Duffel place
// endpoints. Failures are silent: the resolver has a heuristic fallback.
func (d *DuffelClient) LookupIATA(ctx context.Context, query string) (string, error) {
	if d.token == "" || strings.TrimSpace(query) == "" {
		return "", nil
	}

	escaped := url.QueryEscape(query)
	endpoints := []string{
		d.baseURL + "/air/airports?name=" + escaped + "&limit=1",
		d.baseURL + "/air/cities?name=" + escaped + "&limit=1",
		d.baseURL + "/air/airports?suggestions=" + escaped,
	}

	for _, endpoint := range endpoints {
		if err := d.limiter.Wait(ctx, endpointPlaces); err != nil {
			return "", err
		}

		code, err := d.fetchPlace(ctx, endpoint)
		if err != nil {
			continue
		}
		if code != "" {
			return code, nil
		}
	}
	return "", nil
}

func (d *DuffelClient) fetchPlace(ctx context.Context, endpoint string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	d.setHeaders(httpReq)

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("duffel place lookup: status %d", resp.StatusCode)
	}

	var decoded struct {
		Data []struct {
			IATACode     string `json:"iata_code"`
			IATACityCode string `json:"iata_city_code"`
			Airport      struct {
				IATACode string `json:"iata_code"`
			} `json:"airport"`
			City struct {
				IATACode     string `json:"iata_code"`
				IATACityCode string `json:"iata_city_code"`
			} `json:"city"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}

	for _, item := range decoded.Data {
		candidates := []string{
			item.IATACode,
			item.IATACityCode,
			item.Airport.IATACode,
			item.City.IATACode,
			item.City.IATACityCode,
		}
		for _, code := range candidates {
			normalized := strings.ToUpper(strings.TrimSpace(code))
			if iataRe.MatchString(normalized) {
				return normalized, nil
			}
		}
	}
	return "", nil
}

func (d *DuffelClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+d.token)
	req.Header.Set("Duffel-Version", d.version)
	req.Header.Set("Content-Type", "application/json")
}

func normalizeDuffelOffer(offer duffelOffer, from, to, date, returnDate, cabin string) models.Offer {
	var firstSlice, returnSlice duffelOfferSlice
	hasReturn := false
	if len(offer.Slices) > 0 {
		firstSlice = offer.Slices[0]
	}
	if len(offer.Slices) > 1 {
		returnSlice = offer.Slices[1]
		hasReturn = true
	}

	segments := firstSlice.Segments
	var firstSegment, lastSegment duffelSegment
	if len(segments) > 0 {
		firstSegment = segments[0]
		lastSegment = segments[len(segments)-1]
	}

	returnSegments := returnSlice.Segments
	var returnFirst, returnLast duffelSegment
	if len(returnSegments) > 0 {
		returnFirst = returnSegments[0]
		returnLast = returnSegments[len(returnSegments)-1]
	}

	ownerName := offer.Owner.Name
	if ownerName == "" {
		ownerName = "Airline"
	}
	outName, outNumber := carrierDetails(firstSegment, ownerName)
	backName, backNumber := carrierDetails(returnFirst, ownerName)

	offerFrom := firstSlice.Origin.IATACode
	if offerFrom == "" {
		offerFrom = from
	}
	offerTo := firstSlice.Destination.IATACode
	if offerTo == "" {
		offerTo = to
	}
	offerReturnFrom := returnSlice.Origin.IATACode
	if offerReturnFrom == "" && hasReturn {
		offerReturnFrom = to
	}
	offerReturnTo := returnSlice.Destination.IATACode
	if offerReturnTo == "" && hasReturn {
		offerReturnTo = from
	}

	offerDate := date
	if len(firstSegment.DepartingAt) >= 10 {
		offerDate = firstSegment.DepartingAt[:10]
	}
	offerReturnDate := returnDate
	if len(returnFirst.DepartingAt) >= 10 {
		offerReturnDate = returnFirst.DepartingAt[:10]
	}

	offerCabin := firstSegment.CabinClassMarketingName
	if offerCabin == "" {
		offerCabin = cabin
	}

	amount, err := strconv.ParseFloat(offer.TotalAmount, 64)
	if err != nil {
		amount = 0
	}
	currencyCode := offer.TotalCurrency
	if currencyCode == "" {
		currencyCode = "USD"
	}

	passengerIDs := make([]string, 0, len(offer.Passengers))
	for _, p := range offer.Passengers {
		if p.ID != "" {
			passengerIDs = append(passengerIDs, p.ID)
		}
	}

	returnStops := ""
	if len(returnSegments) > 1 {
		returnStops = fmt.Sprintf("%d stop", len(returnSegments)-1)
	} else if len(returnSegments) == 1 {
		returnStops = "Non stop"
	}

	stops := "Non stop"
	if len(segments) > 1 {
		stops = fmt.Sprintf("%d stop", len(segments)-1)
	}

	return models.Offer{
		ID:                   "duffel_" + offer.ID,
		OfferID:              offer.ID,
		OfferPassengerIDs:    passengerIDs,
		Source:               models.SourceDuffel,
		From:                 offerFrom,
		To:                   offerTo,
		OutboundFrom:         offerFrom,
		OutboundTo:           offerTo,
		OutboundAirline:      outName,
		OutboundFlightNumber: outNumber,
		Date:                 offerDate,
		ReturnDate:           offerReturnDate,
		RoundTrip:            hasReturn,
		ReturnFrom:           offerReturnFrom,
		ReturnTo:             offerReturnTo,
		ReturnAirline:        backName,
		ReturnFlightNumber:   backNumber,
		Airline:              outName,
		FlightNumber:         outNumber,
		Cabin:                offerCabin,
		PointsRequired:       0,
		CashPrice:            amount,
		Currency:             currencyCode,
		DepTime:              timeFromISO(firstSegment.DepartingAt),
		ArrTime:              timeFromISO(lastSegment.ArrivingAt),
		ReturnDepTime:        timeFromISO(returnFirst.DepartingAt),
		ReturnArrTime:        timeFromISO(returnLast.ArrivingAt),
		Duration:             formatISODuration(firstSlice.Duration),
		Stops:                stops,
		ReturnDuration:       formatISODuration(returnSlice.Duration),
		ReturnStops:          returnStops,
	}
}

// carrierDetails prefers the operating carrier, then the marketing carrier,
// then the offer owner.
func carrierDetails(segment duffelSegment, fallbackName string) (name, flightNumber string) {
	name = fallbackName
	if segment.OperatingCarrier != nil && segment.OperatingCarrier.Name != "" {
		name = segment.OperatingCarrier.Name
	} else if segment.MarketingCarrier != nil && segment.MarketingCarrier.Name != "" {
		name = segment.MarketingCarrier.Name
	}

	code := ""
	if segment.OperatingCarrier != nil && segment.OperatingCarrier.IATACode != "" {
		code = segment.OperatingCarrier.IATACode
	} else if segment.MarketingCarrier != nil {
		code = segment.MarketingCarrier.IATACode
	}
	number := segment.OperatingCarrierFlightNumber
	if number == "" {
		number = segment.MarketingCarrierFlightNumber
	}

	flightNumber = strings.TrimSpace(code + number)
	if flightNumber == "" {
		flightNumber = "Flight"
	}
	return name, flightNumber
}

func timeFromISO(iso string) string {
	_, rest, found := strings.Cut(iso, "T")
	if !found || len(rest) < 5 {
		return ""
	}
	return rest[:5]
}

// formatISODuration renders "PT13H15M" as "13h 15m". Unparseable values
// pass through untouched.
func formatISODuration(duration string) string {
	if duration == "" {
		return ""
	}
	match := isoDurationRe.FindStringSubmatch(duration)
	if match == nil {
		return duration
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	}
	return ""
}

func mapCabinToDuffel(cabin string) string {
	switch strings.ToLower(strings.TrimSpace(cabin)) {
	case "economy":
		return "economy"
	case "premium", "premium economy", "premium_economy":
		return "premium_economy"
	case "business":
		return "business"
	case "first":
		return "first"
	}
	return ""
}

func normalizePreferences(preferences []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, pref := range preferences {
		value := strings.TrimSpace(pref)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}

func preferredCabinFromPreferences(preferences []string) string {
	lowered := make(map[string]bool, len(preferences))
	for _, pref := range preferences {
		lowered[strings.ToLower(pref)] = true
	}
	switch {
	case lowered["first"]:
		return "first"
	case lowered["business"]:
		return "business"
	case lowered["premium eco"], lowered["premium economy"]:
		return "premium_economy"
	case lowered["eco"], lowered["economy"]:
		return "economy"
	}
	return ""
}

// filterLoyaltyAccounts keeps accounts with a two-character airline code and
// a non-empty member number, the shape Duffel accepts.
func filterLoyaltyAccounts(accounts []models.LoyaltyAccount) []models.LoyaltyAccount {
	var out []models.LoyaltyAccount
	for _, a := range accounts {
		code := strings.ToUpper(strings.TrimSpace(a.AirlineIATACode))
		number := strings.TrimSpace(a.AccountNumber)
		if !airlineCodeRe.MatchString(code) || number == "" {
			continue
		}
		out = append(out, models.LoyaltyAccount{AirlineIATACode: code, AccountNumber: number})
	}
	return out
}
