package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/realityscout/backend/internal/adapters/cache"
	"github.com/realityscout/backend/internal/adapters/database"
	"github.com/realityscout/backend/internal/adapters/events"
	"github.com/realityscout/backend/internal/adapters/scoring"
	"github.com/realityscout/backend/internal/adapters/search"
	"github.com/realityscout/backend/internal/api/handlers"
	"github.com/realityscout/backend/internal/api/routes"
	"github.com/realityscout/backend/internal/application/services"
	"github.com/realityscout/backend/internal/domain/providers"
	"github.com/realityscout/backend/internal/domain/repositories"
	"github.com/realityscout/backend/internal/infrastructure/clients/apify"
	"github.com/realityscout/backend/internal/infrastructure/clients/openai"
	"github.com/realityscout/backend/internal/infrastructure/clients/postgres"
	"github.com/realityscout/backend/internal/infrastructure/clients/redis"
	"github.com/realityscout/backend/internal/infrastructure/clients/typesense"
	"github.com/realityscout/backend/internal/infrastructure/observability"
	"github.com/realityscout/backend/pkg/config"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	logger := observability.GetLogger()

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					logger.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	// Redis is optional; without it scoring isn't cached and no search
	// events are published.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Redis client, scoring cache and events disabled")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		defer eventBus.Close()
	}

	// Typesense is optional; without it listings simply aren't indexed.
	var listingIndex repositories.ListingIndexRepository
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to initialize Typesense client, listing index disabled")
	} else {
		if err := typesenseClient.InitSchema(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to initialize Typesense schema, listing index disabled")
		} else {
			listingIndex = search.NewTypesenseAdapter(typesenseClient)
		}
	}

	// Scoring: local oracle plus optional remote service, remote preferred
	// when configured.
	var localProvider providers.ScoringProvider
	if cfg.OpenAI.APIKey != "" {
		openaiClient, err := openai.NewClient(&cfg.OpenAI)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialize OpenAI client")
		} else {
			localProvider = scoring.NewLocalProvider(openaiClient)
		}
	}

	scoringProvider, err := scoring.NewScoringProvider(scoring.ProviderConfig{
		ServiceURL: cfg.Scoring.ServiceURL,
		Local:      localProvider,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize scoring provider")
	}
	if cacheProvider != nil {
		scoringProvider = scoring.NewCachedProvider(scoringProvider, cacheProvider, cfg.Scoring.CacheTTL, metrics)
	}

	// Wire the pipeline
	scrapeSource := apify.NewClient(&cfg.Apify, metrics)
	searchRepo := database.NewSearchAdapter(pgClient)
	searchService := services.NewSearchService(scrapeSource, scoringProvider, searchRepo, listingIndex, eventBus)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService)
	listingHandler := handlers.NewListingHandler(listingIndex)
	var scoreHandler *handlers.ScoreHandler
	if localProvider != nil {
		scoreHandler = handlers.NewScoreHandler(localProvider)
	}

	router := routes.NewRouter(searchHandler, scoreHandler, listingHandler, metrics)
	handler := router.SetupRoutes()

	// The write timeout has to cover a full scrape-and-score run, which can
	// poll the actor for minutes.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Apify.MaxWait + 5*time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
	}

	logger.Info().Msg("server stopped")
}
