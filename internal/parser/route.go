package parser

import (
	"regexp"
	"strings"

	"github.com/mitravel/flightsearch/internal/fuzzy"
)

var codePairRe = regexp.MustCompile(`\b([a-z]{3})\s*(?:-|to)\s*([a-z]{3})\b`)

// Words that terminate a destination phrase.
var stopTerms = map[string]struct{}{
	"on": {}, "for": {}, "at": {}, "in": {}, "by": {},
	"tomorrow": {}, "today": {}, "return": {}, "back": {},
	"round": {}, "trip": {}, "with": {}, "and": {},
	"cabin": {}, "class": {},
}

// extractRoute tries each route strategy in order: keyword phrase bounds,
// bare code pair, fuzzy keyword tokens, destination-only phrase.
func extractRoute(text string) (fromText, toText string) {
	fromText, toText = routeFromPhrase(text)

	if fromText == "" || toText == "" {
		if m := codePairRe.FindStringSubmatch(text); m != nil {
			fromText, toText = m[1], m[2]
		}
	}

	if fromText == "" || toText == "" {
		fromText, toText = routeFromTokens(text)
	}

	return fromText, toText
}

// routeFromPhrase locates the phrase bounded by " from " and the last
// " to "; whichever keyword appears first determines the direction, so both
// "from X to Y" and "to Y from X" parse.
func routeFromPhrase(text string) (string, string) {
	fromPos := strings.Index(text, " from ")
	toPos := strings.LastIndex(text, " to ")
	if fromPos == -1 || toPos == -1 {
		return "", ""
	}

	if fromPos < toPos {
		if fromPos+6 > toPos {
			return "", ""
		}
		fromSegment := strings.TrimSpace(text[fromPos+6 : toPos])
		tail := text[toPos+4:]
		toSegment := strings.TrimSpace(strings.SplitN(tail, " on ", 2)[0])
		return fromSegment, toSegment
	}

	if toPos+4 > fromPos {
		return "", ""
	}
	toSegment := strings.TrimSpace(text[toPos+4 : fromPos])
	tail := text[fromPos+6:]
	fromSegment := strings.TrimSpace(strings.SplitN(tail, " on ", 2)[0])
	return fromSegment, toSegment
}

// routeFromTokens is the fuzzy token path: find "from"/"to" keywords
// allowing one-edit misspellings, repair "frankfurtto"-style glued tokens,
// and fall back to a destination-only "to Y" pattern.
func routeFromTokens(text string) (string, string) {
	tokens := strings.Fields(text)

	fromIdx := -1
	for i, token := range tokens {
		if fuzzy.KeywordMatch(token, "from") {
			fromIdx = i
			break
		}
	}
	toIdx := -1
	for i, token := range tokens {
		if i > fromIdx && fuzzy.KeywordMatch(token, "to") {
			toIdx = i
			break
		}
	}

	// Recover "from frankfurtto nice" style typos where "to" is glued on.
	if fromIdx != -1 && toIdx == -1 {
		for i := fromIdx + 1; i < len(tokens); i++ {
			token := tokens[i]
			if len(token) > 4 && strings.HasSuffix(token, "to") {
				left := token[:len(token)-2]
				if len(left) >= 3 {
					tokens[i] = left
					tokens = append(tokens[:i+1], append([]string{"to"}, tokens[i+1:]...)...)
					toIdx = i + 1
					break
				}
			}
		}
	}

	if fromIdx != -1 && toIdx != -1 && toIdx > fromIdx+1 {
		rawFrom := strings.TrimSpace(strings.Join(tokens[fromIdx+1:toIdx], " "))
		rawTo := collectUntilStop(tokens[toIdx+1:])
		if rawFrom != "" && rawTo != "" {
			return rawFrom, rawTo
		}
		return "", ""
	}

	// Destination-only pattern: "Y to Z" with no usable "from" keyword;
	// everything before "to" that survives the stop-word reset is the origin.
	toOnlyIdx := -1
	for i, token := range tokens {
		if fuzzy.KeywordMatch(token, "to") {
			toOnlyIdx = i
			break
		}
	}
	if toOnlyIdx <= 0 || toOnlyIdx >= len(tokens)-1 {
		return "", ""
	}

	var fromTokens []string
	for _, token := range tokens[:toOnlyIdx] {
		if _, stop := stopTerms[token]; stop {
			fromTokens = fromTokens[:0]
			continue
		}
		fromTokens = append(fromTokens, token)
	}
	rawFrom := strings.TrimSpace(strings.Join(fromTokens, " "))
	rawTo := collectUntilStop(tokens[toOnlyIdx+1:])
	if rawFrom != "" && rawTo != "" {
		return rawFrom, rawTo
	}
	return "", ""
}

func collectUntilStop(tokens []string) string {
	var collected []string
	for _, token := range tokens {
		if _, stop := stopTerms[token]; stop {
			break
		}
		collected = append(collected, token)
	}
	return strings.TrimSpace(strings.Join(collected, " "))
}
