package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/realityscout/backend/internal/domain/entities"
	"github.com/realityscout/backend/internal/domain/providers"
	"github.com/realityscout/backend/internal/domain/repositories"
	"github.com/realityscout/backend/internal/infrastructure/observability"
)

// SearchService runs the listing pipeline for one search request:
// scrape → deduplicate → normalize → filter → (score) → persist → respond.
// Each stage either completes or fails the whole request; no partial result
// set is ever persisted or returned.
type SearchService struct {
	source     providers.ScrapeSource
	scoring    providers.ScoringProvider
	repo       repositories.SearchRepository
	index      repositories.ListingIndexRepository
	events     providers.EventBus
	normalizer *Normalizer
}

// NewSearchService creates a new search service. index and events may be nil
// when no full-text index or event bus is configured.
func NewSearchService(
	source providers.ScrapeSource,
	scoring providers.ScoringProvider,
	repo repositories.SearchRepository,
	index repositories.ListingIndexRepository,
	events providers.EventBus,
) *SearchService {
	return &SearchService{
		source:     source,
		scoring:    scoring,
		repo:       repo,
		index:      index,
		events:     events,
		normalizer: NewNormalizer(),
	}
}

// Run executes the pipeline for the given parameters. The request is
// processed start to finish without internal parallelism; every external
// call is a blocking request/response.
func (s *SearchService) Run(ctx context.Context, params entities.SearchParams) (*entities.SearchResponse, error) {
	logger := observability.LoggerFromContext(ctx)
	start := time.Now()

	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	raw, err := s.source.FetchListings(ctx, params)
	if err != nil {
		return nil, err
	}
	logger.Info().Str("city", params.City).Int("raw", len(raw)).Msg("scrape finished")
	rawCount := len(raw)

	raw = Deduplicate(raw)

	listings := make([]entities.Listing, 0, len(raw))
	for _, r := range raw {
		listings = append(listings, s.normalizer.Normalize(r))
	}

	listings = FilterListings(params, listings)
	logger.Info().Int("filtered", len(listings)).Msg("listings filtered")

	if params.UseAI && len(listings) > 0 {
		results, err := s.scoring.ScoreListings(ctx, listings)
		if err != nil {
			return nil, err
		}
		listings = MergeScores(listings, results)
		logger.Info().Int("scored", len(results)).Msg("scores merged")
	}

	searchID, err := s.repo.CreateSearch(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveResults(ctx, searchID, listings); err != nil {
		return nil, err
	}

	// Indexing is eventually consistent; a failure here does not fail the
	// already-persisted search.
	if s.index != nil {
		if err := s.index.Index(ctx, searchID, listings); err != nil {
			logger.Warn().Err(err).Str("search_id", searchID).Msg("failed to index listings")
		}
	}

	s.publishCompleted(ctx, searchID, params, rawCount, len(listings), time.Since(start))

	return &entities.SearchResponse{SearchID: searchID, Results: listings}, nil
}

// publishCompleted emits the analytics event for a finished run. Best effort;
// the search has already succeeded by the time it fires.
func (s *SearchService) publishCompleted(ctx context.Context, searchID string, params entities.SearchParams, rawCount, resultCount int, elapsed time.Duration) {
	if s.events == nil {
		return
	}

	event := &entities.SearchEvent{
		ID:          uuid.NewString(),
		SearchID:    searchID,
		City:        params.City,
		UseAI:       params.UseAI,
		RawCount:    rawCount,
		ResultCount: resultCount,
		LatencyMs:   int(elapsed.Milliseconds()),
		CreatedAt:   time.Now(),
	}

	if err := s.events.Publish(ctx, providers.EventChannelSearchCompleted, event); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("search_id", searchID).Msg("failed to publish search event")
	}
}

// Results replays the persisted result set of an earlier search.
func (s *SearchService) Results(ctx context.Context, searchID string) ([]entities.Listing, error) {
	return s.repo.GetResults(ctx, searchID)
}
