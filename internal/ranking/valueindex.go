// Package ranking scores offers by value per point spent. The value index is
// cash price divided by points required; a higher index means the points go
// further, so results sort descending.
package ranking

import (
	"math"
	"sort"

	"github.com/mitravel/flightsearch/internal/models"
)

// ValueIndex returns cashPrice / max(pointsRequired, 1), rounded to four
// decimal places.
func ValueIndex(cashPrice float64, pointsRequired int) float64 {
	points := pointsRequired
	if points < 1 {
		points = 1
	}
	return math.Round(cashPrice/float64(points)*10000) / 10000
}

// Compute fills in ValueIndex on a copy of the offers.
func Compute(offers []models.Offer) []models.Offer {
	result := make([]models.Offer, len(offers))
	for i, o := range offers {
		o.ValueIndex = ValueIndex(o.CashPrice, o.PointsRequired)
		result[i] = o
	}
	return result
}

// SortOneWay orders by descending value index, ties broken by ascending
// points required.
func SortOneWay(offers []models.Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		if offers[i].ValueIndex != offers[j].ValueIndex {
			return offers[i].ValueIndex > offers[j].ValueIndex
		}
		return offers[i].PointsRequired < offers[j].PointsRequired
	})
}

// SortRoundTrip orders by descending value index, ties broken by ascending
// combined cash price.
func SortRoundTrip(offers []models.Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		if offers[i].ValueIndex != offers[j].ValueIndex {
			return offers[i].ValueIndex > offers[j].ValueIndex
		}
		return offers[i].CashPrice < offers[j].CashPrice
	})
}

// Top returns at most n leading offers.
func Top(offers []models.Offer, n int) []models.Offer {
	if len(offers) > n {
		return offers[:n]
	}
	return offers
}
