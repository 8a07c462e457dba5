package models

// LoyaltyAccount is a frequent-flyer account forwarded to the live provider
// so it can return member fares.
type LoyaltyAccount struct {
	AirlineIATACode string `json:"airline_iata_code"`
	AccountNumber   string `json:"account_number"`
}

// Reward is a loyalty-program membership as stored on a traveler profile.
type Reward struct {
	ProgramName string `json:"programName"`
	MemberID    string `json:"memberId"`
}

// SearchRequest is a fully resolved flight query: IATA codes, ISO dates and
// a cabin bucket. Free-text input goes through the parser and location
// resolver before it becomes one of these.
type SearchRequest struct {
	From            string           `json:"from"`
	To              string           `json:"to"`
	Date            string           `json:"date"`
	ReturnDate      string           `json:"returnDate,omitempty"`
	Cabin           string           `json:"cabin,omitempty"`
	Preferences     []string         `json:"preferences,omitempty"`
	LoyaltyAccounts []LoyaltyAccount `json:"loyaltyAccounts,omitempty"`
}

func (r *SearchRequest) Validate() error {
	if r.From == "" {
		return ErrMissingFrom
	}
	if r.To == "" {
		return ErrMissingTo
	}
	return nil
}

// AISearchContext carries values remembered from earlier turns of a search
// conversation; parsed values from the current message take precedence.
type AISearchContext struct {
	From       string `json:"from"`
	To         string `json:"to"`
	Date       string `json:"date"`
	ReturnDate string `json:"returnDate"`
	Cabin      string `json:"cabin"`
}

// AISearchRequest is a free-text search request.
type AISearchRequest struct {
	Message     string          `json:"message"`
	SessionID   string          `json:"sessionId,omitempty"`
	HomeAirport string          `json:"homeAirport,omitempty"`
	Context     AISearchContext `json:"context"`
	Preferences []string        `json:"preferences,omitempty"`
	Rewards     []Reward        `json:"rewards,omitempty"`
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingFrom ValidationError = "from airport code is required"
	ErrMissingTo   ValidationError = "to airport code is required"

	// ErrUnresolvedRoute is user-facing: the free-text pipeline could not
	// pin down both route ends.
	ErrUnresolvedRoute ValidationError = "Could not detect route. Please include origin and destination (e.g. from Frankfurt to New York)."
)
