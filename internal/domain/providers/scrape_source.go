package providers

import (
	"context"

	"github.com/realityscout/backend/internal/domain/entities"
)

// ScrapeSource is the external listing data source. Implementations trigger
// an asynchronous scrape for the given constraints, wait for it to finish,
// and return the raw records. Terminal non-success scrape states surface as
// upstream errors; exceeding the wait budget surfaces as a timeout error.
type ScrapeSource interface {
	FetchListings(ctx context.Context, params entities.SearchParams) ([]entities.RawListing, error)
}
