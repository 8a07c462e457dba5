package location

import (
	"encoding/json"
	"os"
	"regexp"
	"strings"
	"sync"
)

var iataCodeRe = regexp.MustCompile(`^[A-Z0-9]{3}$`)

// AirportEntry is one row of the airport reference index.
type AirportEntry struct {
	IATA string `json:"iata"`
	City string `json:"city"`
	Name string `json:"name"`
}

// AirportIndex is a read-only lookup over the airport reference data. The
// lookup maps are built lazily on first use and never invalidated; the
// source entries are immutable for the process lifetime.
type AirportIndex struct {
	entries []AirportEntry

	once   sync.Once
	byIATA map[string]struct{}
	byCity map[string][]string
	byName map[string][]string
	cities []string
}

// NewAirportIndex wraps the given reference entries. The index keeps a
// reference to the slice; callers must not mutate it afterwards.
func NewAirportIndex(entries []AirportEntry) *AirportIndex {
	return &AirportIndex{entries: entries}
}

// LoadAirportIndex reads a JSON array of airport entries. A missing file
// yields an empty, still usable index.
func LoadAirportIndex(path string) (*AirportIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewAirportIndex(nil), nil
		}
		return nil, err
	}

	var entries []AirportEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return NewAirportIndex(entries), nil
}

func (x *AirportIndex) build() {
	x.byIATA = make(map[string]struct{})
	x.byCity = make(map[string][]string)
	x.byName = make(map[string][]string)

	for _, entry := range x.entries {
		iata := strings.ToUpper(strings.TrimSpace(entry.IATA))
		if !iataCodeRe.MatchString(iata) {
			continue
		}
		x.byIATA[iata] = struct{}{}

		if city := NormalizeQuery(entry.City); city != "" {
			if _, seen := x.byCity[city]; !seen {
				x.cities = append(x.cities, city)
			}
			x.byCity[city] = append(x.byCity[city], iata)
		}
		if name := NormalizeQuery(entry.Name); name != "" {
			x.byName[name] = append(x.byName[name], iata)
		}
	}
}

// Lookup is cascade step two: exact city match, exact airport-name match,
// then a scored scan over city names. Prefix matches score highest,
// substring containment next, and a query that itself contains the city
// name lowest. Returns "" when nothing matches.
func (x *AirportIndex) Lookup(query string) string {
	query = NormalizeQuery(query)
	if query == "" {
		return ""
	}
	x.once.Do(x.build)

	if len(query) == 3 && isLowerAlpha(query) {
		return strings.ToUpper(query)
	}

	if code := firstUniqueCode(x.byCity[query]); code != "" {
		return code
	}
	if code := firstUniqueCode(x.byName[query]); code != "" {
		return code
	}

	bestCode := ""
	bestScore := 0
	for _, city := range x.cities {
		score := 0
		switch {
		case strings.HasPrefix(city, query):
			score = 90 - abs(len(city)-len(query))
		case strings.Contains(city, query):
			score = 70 - abs(len(city)-len(query))
		case len(city) >= 4 && strings.Contains(query, city):
			score = 65 - abs(len(query)-len(city))
		}
		if score > bestScore {
			bestScore = score
			bestCode = firstUniqueCode(x.byCity[city])
		}
	}
	return bestCode
}

// NormalizeQuery lowercases, replaces punctuation with spaces and collapses
// whitespace.
func NormalizeQuery(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	value = strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?':
			return ' '
		}
		return r
	}, value)
	return strings.Join(strings.Fields(value), " ")
}

func firstUniqueCode(codes []string) string {
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(code)
		if !iataCodeRe.MatchString(code) {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		return code
	}
	return ""
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
