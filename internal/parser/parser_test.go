package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// All parser tests run against a frozen clock so date rollover is stable.
func testParser() *Parser {
	return &Parser{
		Now: func() time.Time {
			return time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)
		},
	}
}

func TestParseRouteAndISODate(t *testing.T) {
	q := testParser().Parse("from Frankfurt to New York on 2026-04-10")

	require.Equal(t, "frankfurt", q.FromText)
	require.Equal(t, "new york", q.ToText)
	require.Equal(t, "2026-04-10", q.Date)
	require.Equal(t, "", q.ReturnDate)
	require.Equal(t, "", q.Cabin)
	require.False(t, q.RoundTrip)
}

func TestParseCabinAndRolledReturnDate(t *testing.T) {
	q := testParser().Parse("business class from FRA to JFK returning on 20 April")

	require.Equal(t, "business", q.Cabin)
	require.Equal(t, "fra", q.FromText)
	// April 20 has passed relative to the frozen August clock, so both the
	// outbound mention and the return qualifier roll over to next year.
	require.Equal(t, "2027-04-20", q.Date)
	require.Equal(t, "2027-04-20", q.ReturnDate)
	require.True(t, q.RoundTrip)
}

func TestParseReversedKeywordOrder(t *testing.T) {
	q := testParser().Parse("fly to Paris from London")

	require.Equal(t, "london", q.FromText)
	require.Equal(t, "paris", q.ToText)
}

func TestParseBareCodePair(t *testing.T) {
	q := testParser().Parse("fra-jfk 2026-05-01")

	require.Equal(t, "fra", q.FromText)
	require.Equal(t, "jfk", q.ToText)
	require.Equal(t, "2026-05-01", q.Date)
}

func TestParseGluedToTypo(t *testing.T) {
	q := testParser().Parse("frm frankfurtto nice")

	require.Equal(t, "frankfurt", q.FromText)
	require.Equal(t, "nice", q.ToText)
}

func TestParseStopWordsTerminateDestination(t *testing.T) {
	q := testParser().Parse("from fra to nyc tomorrow")

	require.Equal(t, "fra", q.FromText)
	require.Equal(t, "nyc", q.ToText)
	require.Equal(t, "2026-08-30", q.Date)
}

func TestParseSlashDates(t *testing.T) {
	q := testParser().Parse("from fra to jfk on 5/6/2026 back on 12/6/2026")

	require.Equal(t, "2026-06-05", q.Date)
	require.Equal(t, "2026-06-12", q.ReturnDate)
}

func TestParseTwoISODates(t *testing.T) {
	q := testParser().Parse("from fra to jfk 2026-04-10 2026-04-20")

	require.Equal(t, "2026-04-10", q.Date)
	require.Equal(t, "2026-04-20", q.ReturnDate)
}

func TestParseRoundTripSynthesizesReturn(t *testing.T) {
	q := testParser().Parse("round trip from fra to jfk on 2026-04-10")

	require.Equal(t, "2026-04-10", q.Date)
	require.Equal(t, "2026-04-17", q.ReturnDate)
	require.True(t, q.RoundTrip)
}

func TestParseFutureMonthDayStaysThisYear(t *testing.T) {
	q := testParser().Parse("from fra to jfk on the 15th of September")

	require.Equal(t, "2026-09-15", q.Date)
}

func TestParseCabinVariants(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"premium economy from fra to jfk", "premium_economy"},
		{"premium eco from fra to jfk", "premium_economy"},
		{"business class from fra to jfk", "business"},
		{"buisness from fra to jfk", "business"},
		{"first class from fra to jfk", "first"},
		{"economy from fra to jfk", "economy"},
		{"eco seats from fra to jfk", "economy"},
		{"from fra to jfk", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			require.Equal(t, tt.want, testParser().Parse(tt.text).Cabin)
		})
	}
}

func TestParseConnectorTypos(t *testing.T) {
	q := testParser().Parse("flight frm frankfurt tto nice")

	require.Equal(t, "frankfurt", q.FromText)
	require.Equal(t, "nice", q.ToText)
}

func TestParseMalformedDateIsNoDate(t *testing.T) {
	q := testParser().Parse("from fra to jfk on the 45th of nonmonth")

	require.Equal(t, "", q.Date)
	require.Equal(t, "", q.ReturnDate)
}
