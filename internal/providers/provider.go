package providers

import (
	"context"

	"github.com/mitravel/flightsearch/internal/models"
)

// OfferSource is a live source of flight offers.
type OfferSource interface {
	Name() string
	Search(ctx context.Context, req models.SearchRequest) ([]models.Offer, error)
}

type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Err:      err,
	}
}
