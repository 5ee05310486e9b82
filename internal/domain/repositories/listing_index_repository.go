package repositories

import (
	"context"

	"github.com/realityscout/backend/internal/domain/entities"
)

// ListingIndexRepository is the full-text index over persisted listings.
// Indexing is best-effort: the pipeline logs and continues when it fails.
type ListingIndexRepository interface {
	// Index upserts the listings of a search into the index.
	Index(ctx context.Context, searchID string, listings []entities.Listing) error

	// Query searches indexed listings by free text.
	Query(ctx context.Context, query string, limit int) ([]entities.Listing, error)
}
