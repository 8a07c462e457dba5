// Package loyalty maps traveler loyalty-program memberships to the airline
// accounts the live provider accepts.
package loyalty

import (
	"strings"

	"github.com/mitravel/flightsearch/internal/models"
)

// programAirlines maps loyalty program names to the operating airline's
// IATA code. Programs not listed here are skipped.
var programAirlines = map[string]string{
	"miles & more":     "LH",
	"ana mileage club": "NH",
	"flying blue":      "AF",
	"executive club":   "BA",
	"iberia plus":      "IB",
	"krisflyer":        "SQ",
	"mileageplus":      "UA",
	"skymiles":         "DL",
	"privilege club":   "QR",
	"jal mileage bank": "JL",
}

// AirlineForProgram returns the airline IATA code for a loyalty program
// name, or "" for unknown programs.
func AirlineForProgram(programName string) string {
	return programAirlines[strings.ToLower(strings.TrimSpace(programName))]
}

// BuildAccounts converts reward memberships into loyalty accounts, dropping
// unknown programs, empty member numbers and duplicates.
func BuildAccounts(rewards []models.Reward) []models.LoyaltyAccount {
	seen := make(map[string]bool)
	var accounts []models.LoyaltyAccount
	for _, reward := range rewards {
		airlineCode := AirlineForProgram(reward.ProgramName)
		if airlineCode == "" {
			continue
		}
		accountNumber := strings.TrimSpace(reward.MemberID)
		if accountNumber == "" {
			continue
		}
		fingerprint := airlineCode + "|" + accountNumber
		if seen[fingerprint] {
			continue
		}
		seen[fingerprint] = true
		accounts = append(accounts, models.LoyaltyAccount{
			AirlineIATACode: airlineCode,
			AccountNumber:   accountNumber,
		})
	}
	return accounts
}
