package services

import (
	"testing"

	"github.com/realityscout/backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestFilterListings_NoConstraintsPassesEverything(t *testing.T) {
	listings := []entities.Listing{{ID: "a"}, {ID: "b"}}

	out := FilterListings(entities.SearchParams{}, listings)

	assert.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
}

func TestFilterListings_PricePerM2(t *testing.T) {
	over := entities.Listing{ID: "over"}
	over.Derived.PricePerM2 = intPtr(120000)
	under := entities.Listing{ID: "under"}
	under.Derived.PricePerM2 = intPtr(80000)
	unknown := entities.Listing{ID: "unknown"}

	params := entities.SearchParams{PriceM2Max: intPtr(100000)}
	out := FilterListings(params, []entities.Listing{over, under, unknown})

	// Only a proven violation rejects; unknown passes.
	assert.Len(t, out, 2)
	assert.Equal(t, "under", out[0].ID)
	assert.Equal(t, "unknown", out[1].ID)
}

func TestFilterListings_RoomsFrom(t *testing.T) {
	small := entities.Listing{ID: "small", Rooms: intPtr(1)}
	big := entities.Listing{ID: "big", Rooms: intPtr(3)}
	exact := entities.Listing{ID: "exact", Rooms: intPtr(2)}
	unknown := entities.Listing{ID: "unknown"}

	params := entities.SearchParams{RoomsFrom: intPtr(2)}
	out := FilterListings(params, []entities.Listing{small, big, exact, unknown})

	assert.Len(t, out, 3)
	assert.Equal(t, "big", out[0].ID)
	assert.Equal(t, "exact", out[1].ID)
	assert.Equal(t, "unknown", out[2].ID)
}

func TestFilterListings_Idempotent(t *testing.T) {
	a := entities.Listing{ID: "a", Rooms: intPtr(3)}
	b := entities.Listing{ID: "b", Rooms: intPtr(1)}

	params := entities.SearchParams{RoomsFrom: intPtr(2)}
	once := FilterListings(params, []entities.Listing{a, b})
	twice := FilterListings(params, once)

	assert.Equal(t, once, twice)
}
