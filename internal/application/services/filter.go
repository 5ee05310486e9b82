package services

import (
	"github.com/realityscout/backend/internal/domain/entities"
)

// FilterListings returns the subsequence of listings passing all supplied
// constraints, in input order. A constraint only rejects on a proven
// violation: listings missing the relevant field pass, and absent parameters
// are no-ops. priceMax and keywords deliberately do not filter here; callers
// needing them must apply them downstream.
func FilterListings(params entities.SearchParams, listings []entities.Listing) []entities.Listing {
	out := make([]entities.Listing, 0, len(listings))

	for _, listing := range listings {
		if params.PriceM2Max != nil && listing.Derived.PricePerM2 != nil &&
			*listing.Derived.PricePerM2 > *params.PriceM2Max {
			continue
		}
		if params.RoomsFrom != nil && listing.Rooms != nil &&
			*listing.Rooms < *params.RoomsFrom {
			continue
		}
		out = append(out, listing)
	}

	return out
}
