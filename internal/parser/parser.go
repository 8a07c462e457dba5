// Package parser extracts a structured flight query from a free-text
// message: route fragments, travel dates, cabin class and round-trip
// intent. It deliberately stops at raw route text; turning "new york" into
// JFK is the location resolver's job.
package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/mitravel/flightsearch/internal/fuzzy"
	"github.com/mitravel/flightsearch/internal/models"
)

// Query is the partially resolved intent extracted from one message.
// FromCode/ToCode stay empty here and are filled by the caller after
// location resolution.
type Query struct {
	Raw        string
	FromText   string
	ToText     string
	FromCode   string
	ToCode     string
	Date       string
	ReturnDate string
	Cabin      string
	RoundTrip  bool
}

// Parser extracts queries. Now is injectable so date rollover is
// deterministic under test; it defaults to time.Now.
type Parser struct {
	Now func() time.Time
}

func New() *Parser {
	return &Parser{Now: time.Now}
}

var (
	fromTypoRe = regexp.MustCompile(`\b(frm|frmo|fom)\b`)
	toTypoRe   = regexp.MustCompile(`\b(tto|too)\b`)
)

// Parse normalizes the message and runs cabin, route and date extraction.
func (p *Parser) Parse(raw string) Query {
	raw = strings.TrimSpace(raw)

	lower := strings.ToLower(raw)
	lower = strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?':
			return ' '
		}
		return r
	}, lower)
	lower = strings.Join(strings.Fields(lower), " ")

	// Common connector typos in travel prompts.
	text := fromTypoRe.ReplaceAllString(lower, "from")
	text = toTypoRe.ReplaceAllString(text, "to")

	fromText, toText := extractRoute(text)
	date, returnDate := p.extractDates(text)

	return Query{
		Raw:        raw,
		FromText:   strings.TrimSpace(fromText),
		ToText:     strings.TrimSpace(toText),
		Date:       date,
		ReturnDate: returnDate,
		Cabin:      extractCabin(text),
		RoundTrip:  returnDate != "",
	}
}

// extractCabin picks the most specific cabin mention, tolerating the usual
// misspellings.
func extractCabin(text string) string {
	tokens := strings.Fields(text)
	hasWord := func(keyword string) bool {
		for _, token := range tokens {
			if fuzzy.KeywordMatch(token, keyword) {
				return true
			}
		}
		return false
	}

	switch {
	case strings.Contains(text, "premium economy"),
		strings.Contains(text, "premium eco"),
		strings.Contains(text, "premium_economy"):
		return models.CabinPremiumEconomy
	case strings.Contains(text, "business class"), strings.Contains(text, "business"):
		return models.CabinBusiness
	case strings.Contains(text, "first class"), hasWord("first"):
		return models.CabinFirst
	case hasWord("business"), hasWord("buisness"), hasWord("bussiness"):
		return models.CabinBusiness
	case hasWord("economy"), hasWord("eco"):
		return models.CabinEconomy
	default:
		return ""
	}
}
