package providers

import (
	"context"

	"github.com/realityscout/backend/internal/domain/entities"
)

// ScoringProvider is the desirability-scoring oracle. Implementations score
// an ordered batch of listings and return one result per listing they could
// score; listings they could not score are simply absent from the result,
// never an error for the whole batch. Scores are clamped to [0,100].
type ScoringProvider interface {
	ScoreListings(ctx context.Context, listings []entities.Listing) ([]entities.ScoreResult, error)
}
