package models

// Offer sources. Seed offers come from the local inventory, duffel offers
// from the live Duffel API.
const (
	SourceSeed   = "seed"
	SourceDuffel = "duffel"
)

// Cabin buckets. These four keys are the unit of fee configuration.
const (
	CabinEconomy        = "economy"
	CabinPremiumEconomy = "premium_economy"
	CabinBusiness       = "business"
	CabinFirst          = "first"
)

// Offer is a flight offer normalized across sources. One-way offers leave the
// return fields empty; round-trip offers carry both legs. Offers are built
// once per search and treated as values from then on.
type Offer struct {
	ID                string   `json:"id"`
	OfferID           string   `json:"offerId,omitempty"`
	OfferPassengerIDs []string `json:"offerPassengerIds,omitempty"`
	Source            string   `json:"source"`

	From                 string `json:"from"`
	To                   string `json:"to"`
	OutboundFrom         string `json:"outboundFrom"`
	OutboundTo           string `json:"outboundTo"`
	OutboundAirline      string `json:"outboundAirline"`
	OutboundFlightNumber string `json:"outboundFlightNumber"`

	Date       string `json:"date"`
	ReturnDate string `json:"returnDate,omitempty"`
	RoundTrip  bool   `json:"roundTrip"`

	ReturnFrom         string `json:"returnFrom,omitempty"`
	ReturnTo           string `json:"returnTo,omitempty"`
	ReturnAirline      string `json:"returnAirline,omitempty"`
	ReturnFlightNumber string `json:"returnFlightNumber,omitempty"`

	Airline        string  `json:"airline"`
	FlightNumber   string  `json:"flightNumber"`
	Cabin          string  `json:"cabin"`
	PointsRequired int     `json:"pointsRequired"`
	CashPrice      float64 `json:"cashPrice"`
	Currency       string  `json:"currency"`

	DepTime       string `json:"depTime"`
	ArrTime       string `json:"arrTime"`
	ReturnDepTime string `json:"returnDepTime,omitempty"`
	ReturnArrTime string `json:"returnArrTime,omitempty"`

	Duration       string `json:"duration"`
	Stops          string `json:"stops"`
	ReturnDuration string `json:"returnDuration,omitempty"`
	ReturnStops    string `json:"returnStops,omitempty"`

	// ValueIndex is cashPrice / max(pointsRequired, 1); used only for ranking.
	ValueIndex float64 `json:"valueIndex,omitempty"`

	// Fee fields are attached by the pricing markup on duffel offers only.
	// CashPrice then holds the marked-up total.
	FeeCabin      string  `json:"feeCabin,omitempty"`
	BaseCashPrice float64 `json:"baseCashPrice,omitempty"`
	FeePercent    float64 `json:"feePercent,omitempty"`
	FeeAmount     float64 `json:"feeAmount,omitempty"`
}
