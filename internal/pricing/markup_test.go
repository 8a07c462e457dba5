package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitravel/flightsearch/internal/models"
)

func TestApplyMarkupLeavesSeedOffersUntouched(t *testing.T) {
	offer := models.Offer{Source: models.SourceSeed, CashPrice: 100, Cabin: "business"}

	got := ApplyMarkup(offer, FeeTable{models.CabinBusiness: 10})

	require.Equal(t, offer, got)
	require.Zero(t, got.FeeAmount)
	require.Empty(t, got.FeeCabin)
}

func TestApplyMarkupDuffelBusiness(t *testing.T) {
	offer := models.Offer{Source: models.SourceDuffel, CashPrice: 100, Cabin: "business"}

	got := ApplyMarkup(offer, FeeTable{models.CabinBusiness: 10})

	require.Equal(t, 110.0, got.CashPrice)
	require.Equal(t, 100.0, got.BaseCashPrice)
	require.Equal(t, 10.0, got.FeePercent)
	require.Equal(t, 10.0, got.FeeAmount)
	require.Equal(t, models.CabinBusiness, got.FeeCabin)
}

func TestApplyMarkupUnknownCabinFallsBackToEconomy(t *testing.T) {
	offer := models.Offer{Source: models.SourceDuffel, CashPrice: 200, Cabin: "suite"}

	got := ApplyMarkup(offer, FeeTable{models.CabinEconomy: 5, models.CabinBusiness: 10})

	require.Equal(t, 210.0, got.CashPrice)
	require.Equal(t, 5.0, got.FeePercent)
	require.Equal(t, models.CabinEconomy, got.FeeCabin)
}

func TestApplyMarkupMissingBucketChargesNothing(t *testing.T) {
	offer := models.Offer{Source: models.SourceDuffel, CashPrice: 100, Cabin: "business"}

	got := ApplyMarkup(offer, FeeTable{models.CabinEconomy: 5})

	require.Equal(t, 100.0, got.CashPrice)
	require.Equal(t, 100.0, got.BaseCashPrice)
	require.Zero(t, got.FeePercent)
	require.Zero(t, got.FeeAmount)
	require.Equal(t, models.CabinBusiness, got.FeeCabin)
}

func TestApplyMarkupRoundsToCents(t *testing.T) {
	offer := models.Offer{Source: models.SourceDuffel, CashPrice: 99.99, Cabin: "economy"}

	got := ApplyMarkup(offer, FeeTable{models.CabinEconomy: 7.5})

	require.Equal(t, 7.5, got.FeeAmount)
	require.Equal(t, 107.49, got.CashPrice)
}

func TestNewFeeTableClampsPercentages(t *testing.T) {
	table := NewFeeTable(map[string]float64{
		"Business":        150,
		"premium economy": -3,
		"first":           12,
	})

	require.Equal(t, 100.0, table[models.CabinBusiness])
	require.Equal(t, 0.0, table[models.CabinPremiumEconomy])
	require.Equal(t, 12.0, table[models.CabinFirst])
}

func TestLoadFeeTableMissingFileUsesDefaults(t *testing.T) {
	table, err := LoadFeeTable(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.Equal(t, DefaultFeeTable(), table)
}

func TestLoadFeeTableFeeByCabin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adminConfig.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"feeByCabin":{"economy":4,"business":120}}`), 0o644))

	table, err := LoadFeeTable(path)
	require.NoError(t, err)
	require.Equal(t, 4.0, table[models.CabinEconomy])
	require.Equal(t, 100.0, table[models.CabinBusiness])
}

func TestLoadFeeTableLegacyFlatPercent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adminConfig.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"duffelFeePercent":7}`), 0o644))

	table, err := LoadFeeTable(path)
	require.NoError(t, err)
	for _, cabin := range []string{models.CabinEconomy, models.CabinPremiumEconomy, models.CabinBusiness, models.CabinFirst} {
		require.Equal(t, 7.0, table[cabin])
	}
}
