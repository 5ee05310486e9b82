package scoring

import (
	"context"

	"github.com/realityscout/backend/internal/domain/entities"
	"github.com/realityscout/backend/internal/domain/providers"
	"github.com/realityscout/backend/internal/infrastructure/observability"
)

// scoreOracle is the per-listing scoring call the local provider drives.
// Satisfied by the OpenAI client.
type scoreOracle interface {
	ScoreListing(ctx context.Context, listing entities.Listing) (*entities.ScoreResult, error)
}

// LocalProvider scores listings in-process, one at a time in sequence. The
// serial loop bounds oracle cost at the price of latency; items are scored
// independently, so a failed item is skipped rather than failing the batch.
type LocalProvider struct {
	oracle scoreOracle
}

// NewLocalProvider creates a local scoring provider around the given oracle.
func NewLocalProvider(oracle scoreOracle) providers.ScoringProvider {
	return &LocalProvider{oracle: oracle}
}

// ScoreListings scores each listing in order. Listings the oracle could not
// score are absent from the result; the batch itself only fails when the
// context is cancelled.
func (p *LocalProvider) ScoreListings(ctx context.Context, listings []entities.Listing) ([]entities.ScoreResult, error) {
	logger := observability.LoggerFromContext(ctx)
	results := make([]entities.ScoreResult, 0, len(listings))

	for _, listing := range listings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := p.oracle.ScoreListing(ctx, listing)
		if err != nil {
			logger.Warn().Err(err).Str("listing_id", listing.ID).Msg("listing could not be scored")
			continue
		}
		results = append(results, *result)
	}

	return results, nil
}
