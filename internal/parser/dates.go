package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRe   = regexp.MustCompile(`\b(20\d{2}-\d{2}-\d{2})\b`)
	slashDateRe = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](20\d{2})\b`)
	monthDayRe  = regexp.MustCompile(`(?:on|back on|return on|returning on|coming back on)\s+(?:the\s+)?(\d{1,2})(?:st|nd|rd|th)?(?:\s+of)?\s+([a-z]+)`)
	returnDayRe = regexp.MustCompile(`(?:back|return|returning|coming back)\s+(?:on\s+)?(?:the\s+)?(\d{1,2})(?:st|nd|rd|th)?(?:\s+of)?\s+([a-z]+)`)
)

var monthNumbers = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4,
	"may": 5, "june": 6, "july": 7, "august": 8,
	"september": 9, "october": 10, "november": 11, "december": 12,
}

// extractDates pulls the outbound and return dates from the text. Strategies
// in order: ISO dates, slash-delimited D/M/YYYY, natural-language day-of-
// month, tomorrow/today. A round-trip request without an explicit return
// date gets one synthesized seven days after the outbound. Unparseable
// fragments count as "no date provided".
func (p *Parser) extractDates(text string) (date, returnDate string) {
	if isoDates := isoDateRe.FindAllStringSubmatch(text, -1); len(isoDates) > 0 {
		date = isoDates[0][1]
		if len(isoDates) > 1 {
			returnDate = isoDates[1][1]
		}
	} else if slashDates := slashDateRe.FindAllStringSubmatch(text, -1); len(slashDates) > 0 {
		date = slashToISO(slashDates[0])
		if len(slashDates) > 1 {
			returnDate = slashToISO(slashDates[1])
		}
	}

	monthDays := monthDayRe.FindAllStringSubmatch(text, -1)
	if date == "" && len(monthDays) > 0 {
		date = p.monthDayToISO(monthDays[0][1], monthDays[0][2])
	}
	if returnDate == "" && len(monthDays) > 1 {
		returnDate = p.monthDayToISO(monthDays[1][1], monthDays[1][2])
	}

	if returnDate == "" {
		if m := returnDayRe.FindStringSubmatch(text); m != nil {
			returnDate = p.monthDayToISO(m[1], m[2])
		}
	}

	if date == "" && strings.Contains(text, "tomorrow") {
		date = p.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	}
	if date == "" && strings.Contains(text, "today") {
		date = p.Now().UTC().Format("2006-01-02")
	}

	if returnDate == "" && date != "" && wantsRoundTrip(text) {
		if outbound, err := time.Parse("2006-01-02", date); err == nil {
			returnDate = outbound.AddDate(0, 0, 7).Format("2006-01-02")
		}
	}

	return date, returnDate
}

func wantsRoundTrip(text string) bool {
	return strings.Contains(text, "round trip") ||
		strings.Contains(text, "return") ||
		strings.Contains(text, "back")
}

func slashToISO(m []string) string {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
}

// monthDayToISO resolves a spoken day/month to the next future occurrence
// relative to now. A pair that has already passed this calendar year rolls
// over to next year; the comparison is only against today, with no cap on
// how far out the result lands.
func (p *Parser) monthDayToISO(dayStr, monthStr string) string {
	month, ok := monthNumbers[strings.ToLower(monthStr)]
	if !ok {
		return ""
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return ""
	}

	now := p.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	candidate := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if candidate.Before(today) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate.Format("2006-01-02")
}
