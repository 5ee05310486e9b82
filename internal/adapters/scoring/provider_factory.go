package scoring

import (
	"context"
	"errors"

	"github.com/realityscout/backend/internal/domain/entities"
	"github.com/realityscout/backend/internal/domain/providers"
	"github.com/realityscout/backend/internal/infrastructure/observability"
)

// ProviderConfig configures scoring provider selection.
type ProviderConfig struct {
	// ServiceURL is the sibling scoring service; empty means local-only.
	ServiceURL string
	// Local is the in-process provider, used directly when no service URL is
	// configured and as the fallback otherwise. May be nil when a service
	// URL is set and no local oracle is available.
	Local providers.ScoringProvider
}

// NewScoringProvider selects the scoring path by availability: the remote
// service when addressed, degrading to the local provider when the remote
// call fails.
func NewScoringProvider(cfg ProviderConfig) (providers.ScoringProvider, error) {
	if cfg.ServiceURL == "" {
		if cfg.Local == nil {
			return nil, errors.New("no scoring provider configured")
		}
		return cfg.Local, nil
	}

	return &FallbackProvider{
		primary:  NewRemoteProvider(cfg.ServiceURL),
		fallback: cfg.Local,
	}, nil
}

// FallbackProvider wraps the remote provider with a local fallback. Both
// sides honor the same scoring contract, so the merger downstream is
// agnostic to which path executed.
type FallbackProvider struct {
	primary  providers.ScoringProvider
	fallback providers.ScoringProvider
}

// ScoreListings tries the remote path first and falls back locally on any
// remote failure.
func (p *FallbackProvider) ScoreListings(ctx context.Context, listings []entities.Listing) ([]entities.ScoreResult, error) {
	results, err := p.primary.ScoreListings(ctx, listings)
	if err == nil {
		return results, nil
	}

	if p.fallback == nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Warn().Err(err).
		Msg("remote scoring failed, falling back to local scorer")
	return p.fallback.ScoreListings(ctx, listings)
}
