package location

import (
	"regexp"
	"strings"

	"github.com/mitravel/flightsearch/internal/fuzzy"
)

var bareCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

type alias struct {
	key  string
	code string
}

// Well-known city names and airport nicknames. Ordered so substring and
// fuzzy scans stay deterministic.
var cityAliases = []alias{
	{"frankfurt", "FRA"},
	{"new york", "JFK"},
	{"new york city", "JFK"},
	{"nyc", "JFK"},
	{"jfk", "JFK"},
	{"london", "LHR"},
	{"heathrow", "LHR"},
	{"lhr", "LHR"},
	{"paris", "CDG"},
	{"miami", "MIA"},
	{"singapore", "SIN"},
	{"manila", "MNL"},
	{"nice", "NCE"},
	{"nce", "NCE"},
	{"cote d azur", "NCE"},
	{"cdg", "CDG"},
	{"dubai", "DXB"},
	{"dxb", "DXB"},
	{"bangkok", "BKK"},
	{"bkk", "BKK"},
	{"san francisco", "SFO"},
	{"sfo", "SFO"},
	{"fra", "FRA"},
}

// Three-letter city abbreviations used only by the heuristic fallback.
var cityCodeAbbreviations = map[string]string{
	"nyc": "JFK",
	"lon": "LHR",
	"par": "CDG",
	"sin": "SIN",
	"mnl": "MNL",
	"rom": "FCO",
	"mil": "MXP",
	"chi": "ORD",
	"mia": "MIA",
	"lax": "LAX",
}

// resolveAlias is cascade step one: bare IATA code, then exact alias, then
// substring containment, then the closest fuzzy alias within tolerance.
func resolveAlias(text string) string {
	if bareCodeRe.MatchString(strings.ToUpper(strings.TrimSpace(text))) {
		return strings.ToUpper(strings.TrimSpace(text))
	}

	clean := strings.TrimSpace(strings.ToLower(text))
	clean = strings.TrimSpace(stripPunctuation(clean))

	for _, a := range cityAliases {
		if clean == a.key {
			return a.code
		}
	}

	for _, a := range cityAliases {
		if strings.Contains(clean, a.key) {
			return a.code
		}
	}

	bestCode := ""
	bestScore := -1
	for _, a := range cityAliases {
		if !fuzzy.AliasMatch(clean, a.key) {
			continue
		}
		score := fuzzy.Distance(clean, a.key)
		if bestScore == -1 || score < bestScore {
			bestScore = score
			bestCode = a.code
		}
	}
	return bestCode
}

// Guess is the heuristic fallback: a bare three-letter token, a known city
// abbreviation from the first three characters of a single word, or the
// initials of a multi-word phrase when exactly three letters result.
func Guess(text string) string {
	clean := NormalizeQuery(text)
	if clean == "" {
		return ""
	}
	if len(clean) == 3 && isLowerAlpha(clean) {
		return strings.ToUpper(clean)
	}

	words := strings.Fields(clean)
	if len(words) == 1 && len(words[0]) >= 3 {
		if code, ok := cityCodeAbbreviations[words[0][:3]]; ok {
			return code
		}
		return ""
	}

	if len(words) > 1 {
		var initials strings.Builder
		for _, w := range words {
			initials.WriteByte(w[0])
		}
		s := initials.String()
		if len(s) > 3 {
			s = s[:3]
		}
		if len(s) == 3 {
			return strings.ToUpper(s)
		}
	}
	return ""
}

func isLowerAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', ',', '!', '?':
			return -1
		}
		return r
	}, s)
}
