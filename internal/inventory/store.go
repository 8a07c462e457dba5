// Package inventory holds the static seed flights and the combination and
// ranking engine that serves searches when the live provider is out of
// reach.
package inventory

import (
	_ "embed"
	"encoding/json"
	"os"
)

//go:embed seed_flights.json
var seedFlights []byte

// Flight is one row of the seed inventory. Times and duration are display
// strings; the inventory is date-keyed, not timetable-keyed.
type Flight struct {
	ID             string  `json:"id"`
	From           string  `json:"from"`
	To             string  `json:"to"`
	Date           string  `json:"date"`
	Airline        string  `json:"airline"`
	FlightNumber   string  `json:"flightNumber"`
	Cabin          string  `json:"cabin"`
	PointsRequired int     `json:"pointsRequired"`
	CashPrice      float64 `json:"cashPrice"`
	Currency       string  `json:"currency,omitempty"`
	DepTime        string  `json:"depTime"`
	ArrTime        string  `json:"arrTime"`
	Duration       string  `json:"duration"`
	Stops          string  `json:"stops"`
}

// Store is a read-only list of seed flights.
type Store struct {
	flights []Flight
}

func NewStore(flights []Flight) *Store {
	return &Store{flights: flights}
}

// DefaultStore loads the embedded seed inventory.
func DefaultStore() (*Store, error) {
	var flights []Flight
	if err := json.Unmarshal(seedFlights, &flights); err != nil {
		return nil, err
	}
	return NewStore(flights), nil
}

// LoadStore reads seed flights from a JSON file, falling back to the
// embedded inventory when the file does not exist.
func LoadStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultStore()
		}
		return nil, err
	}

	var flights []Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return NewStore(flights), nil
}

// Flights returns the seed rows. Callers must treat the slice as read-only.
func (s *Store) Flights() []Flight {
	return s.flights
}
