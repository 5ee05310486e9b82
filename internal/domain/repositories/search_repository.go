package repositories

import (
	"context"

	"github.com/realityscout/backend/internal/domain/entities"
)

// SearchRepository persists searches and their result sets. The store is
// append-only for the pipeline's purposes: a search and its results are
// written once and never mutated.
type SearchRepository interface {
	// CreateSearch records a search and returns its generated identifier.
	CreateSearch(ctx context.Context, params entities.SearchParams) (string, error)

	// SaveResults records the result set for a search. Saving an empty
	// result set is an idempotent no-op.
	SaveResults(ctx context.Context, searchID string, listings []entities.Listing) error

	// GetResults replays the persisted result set of a search.
	GetResults(ctx context.Context, searchID string) ([]entities.Listing, error)
}
