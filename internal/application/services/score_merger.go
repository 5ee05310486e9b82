package services

import (
	"github.com/realityscout/backend/internal/domain/entities"
)

// MergeScores attaches scoring results to listings by exact id match. The
// output has the same length and order as the input; listings without a
// matching result pass through with their score fields absent. When the
// result sequence carries duplicate ids the last one wins, since the lookup
// map is built front to back.
func MergeScores(listings []entities.Listing, results []entities.ScoreResult) []entities.Listing {
	byID := make(map[string]entities.ScoreResult, len(results))
	for _, result := range results {
		byID[result.ID] = result
	}

	out := make([]entities.Listing, len(listings))
	for i, listing := range listings {
		if result, ok := byID[listing.ID]; ok {
			score := result.AIScore
			listing.AIScore = &score
			listing.AIReason = result.AIReason
			listing.AIHighlights = result.AIHighlights
		}
		out[i] = listing
	}

	return out
}
