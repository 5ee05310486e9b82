package scoring

import (
	"context"
	"encoding/json"
	"time"

	"github.com/realityscout/backend/internal/domain/entities"
	"github.com/realityscout/backend/internal/domain/providers"
	"github.com/realityscout/backend/internal/infrastructure/observability"
)

const scoreKeyPrefix = "score:"

// CachedProvider decorates a scoring provider with a Redis-backed cache
// keyed by listing id, so re-running a search does not re-bill the oracle
// for listings it already scored. Only derived scores are cached, never the
// scraped data itself.
type CachedProvider struct {
	inner   providers.ScoringProvider
	cache   providers.CacheProvider
	ttl     time.Duration
	metrics *observability.Metrics
}

// NewCachedProvider wraps inner with the given cache. metrics may be nil.
func NewCachedProvider(inner providers.ScoringProvider, cache providers.CacheProvider, ttl time.Duration, metrics *observability.Metrics) providers.ScoringProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
	}
}

// ScoreListings serves cached results where possible and delegates the
// remaining listings to the wrapped provider. Cache failures degrade to the
// wrapped provider; they never fail the batch.
func (p *CachedProvider) ScoreListings(ctx context.Context, listings []entities.Listing) ([]entities.ScoreResult, error) {
	logger := observability.LoggerFromContext(ctx)

	results := make([]entities.ScoreResult, 0, len(listings))
	misses := make([]entities.Listing, 0, len(listings))

	for _, listing := range listings {
		key := scoreKeyPrefix + listing.ID

		data, err := p.cache.Get(ctx, key)
		if err != nil {
			p.recordMiss(ctx, key)
			misses = append(misses, listing)
			continue
		}

		var cached entities.ScoreResult
		if err := json.Unmarshal(data, &cached); err != nil {
			p.recordMiss(ctx, key)
			misses = append(misses, listing)
			continue
		}

		p.recordHit(ctx, key)
		results = append(results, cached)
	}

	if len(misses) == 0 {
		return results, nil
	}

	fresh, err := p.inner.ScoreListings(ctx, misses)
	if err != nil {
		return nil, err
	}

	for _, result := range fresh {
		data, err := json.Marshal(result)
		if err != nil {
			continue
		}
		if err := p.cache.Set(ctx, scoreKeyPrefix+result.ID, data, int(p.ttl.Seconds())); err != nil {
			logger.Warn().Err(err).Str("listing_id", result.ID).Msg("failed to cache score")
		}
	}

	return append(results, fresh...), nil
}

func (p *CachedProvider) recordHit(ctx context.Context, key string) {
	if p.metrics != nil {
		observability.RecordCacheHit(ctx, p.metrics, key)
	}
}

func (p *CachedProvider) recordMiss(ctx context.Context, key string) {
	if p.metrics != nil {
		observability.RecordCacheMiss(ctx, p.metrics, key)
	}
}
