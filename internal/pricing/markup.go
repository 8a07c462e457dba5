// Package pricing applies the cabin-keyed service fee to live offers.
package pricing

import (
	"encoding/json"
	"math"
	"os"

	"github.com/mitravel/flightsearch/internal/models"
)

// FeeTable maps cabin buckets to a fee percentage. Percentages are clamped
// to [0, 100] when the table is built.
type FeeTable map[string]float64

// DefaultFeeTable is used when no admin config is present.
func DefaultFeeTable() FeeTable {
	return FeeTable{
		models.CabinEconomy:        5,
		models.CabinPremiumEconomy: 6,
		models.CabinBusiness:       8,
		models.CabinFirst:          10,
	}
}

// NewFeeTable normalizes cabin keys and clamps each percentage to [0, 100].
func NewFeeTable(raw map[string]float64) FeeTable {
	table := make(FeeTable, len(raw))
	for cabin, pct := range raw {
		table[models.NormalizeCabinKey(cabin)] = clampPercent(pct)
	}
	return table
}

// Percent returns the normalized cabin bucket and its fee percentage.
// Unrecognized cabins normalize to the economy bucket; a bucket absent from
// the table charges no fee.
func (t FeeTable) Percent(cabin string) (string, float64) {
	key := models.NormalizeCabinKey(cabin)
	return key, t[key]
}

// ApplyMarkup injects the service fee into a duffel offer and returns the
// adjusted copy. Offers from any other source pass through unchanged.
// CashPrice becomes the marked-up total; the pre-fee price is kept in
// BaseCashPrice.
func ApplyMarkup(offer models.Offer, fees FeeTable) models.Offer {
	if offer.Source != models.SourceDuffel {
		return offer
	}

	cabinKey, pct := fees.Percent(offer.Cabin)
	base := offer.CashPrice
	feeAmount := round2(base * pct / 100)
	total := round2(base + feeAmount)

	offer.FeeCabin = cabinKey
	offer.BaseCashPrice = base
	offer.FeePercent = pct
	offer.FeeAmount = feeAmount
	offer.CashPrice = total
	return offer
}

// adminConfig is the on-disk fee configuration. Older files carried a single
// duffelFeePercent applied to every cabin; feeByCabin supersedes it.
type adminConfig struct {
	FeeByCabin       map[string]float64 `json:"feeByCabin"`
	DuffelFeePercent *float64           `json:"duffelFeePercent"`
}

// LoadFeeTable reads the fee table from an admin config file. A missing file
// yields the default table; a present file with only the legacy
// duffelFeePercent field applies that percentage to all four cabins.
func LoadFeeTable(path string) (FeeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultFeeTable(), nil
		}
		return nil, err
	}

	var cfg adminConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if len(cfg.FeeByCabin) > 0 {
		return NewFeeTable(cfg.FeeByCabin), nil
	}
	if cfg.DuffelFeePercent != nil {
		pct := clampPercent(*cfg.DuffelFeePercent)
		return FeeTable{
			models.CabinEconomy:        pct,
			models.CabinPremiumEconomy: pct,
			models.CabinBusiness:       pct,
			models.CabinFirst:          pct,
		}, nil
	}
	return DefaultFeeTable(), nil
}

func clampPercent(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
