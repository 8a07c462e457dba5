package models

import "strings"

// NormalizeCabinKey folds any cabin spelling into one of the four fee
// buckets. Unrecognized or empty cabins default to economy.
func NormalizeCabinKey(cabin string) string {
	raw := strings.ToLower(strings.TrimSpace(cabin))
	raw = strings.Join(strings.Fields(raw), "_")
	switch raw {
	case "premium", "premiumeco", "premiumeconomy", "premium_eco", "premium_economy":
		return CabinPremiumEconomy
	case "business":
		return CabinBusiness
	case "first":
		return CabinFirst
	default:
		return CabinEconomy
	}
}
