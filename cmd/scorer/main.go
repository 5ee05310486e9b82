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
	"github.com/realityscout/backend/internal/adapters/scoring"
	"github.com/realityscout/backend/internal/api/handlers"
	"github.com/realityscout/backend/internal/api/routes"
	"github.com/realityscout/backend/internal/infrastructure/clients/openai"
	"github.com/realityscout/backend/internal/infrastructure/observability"
	"github.com/realityscout/backend/pkg/config"
)

// The scorer is a standalone scoring service. The API server can point
// SCORING_SERVICE_URL at it to offload AI scoring to a separate deployment
// with its own rate limits.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger("realityscout-scorer", cfg.Env)
	logger := observability.GetLogger()

	if cfg.OpenAI.APIKey == "" {
		logger.Fatal().Msg("OPENAI_API_KEY is required for the scorer service")
	}

	openaiClient, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize OpenAI client")
	}

	scoreHandler := handlers.NewScoreHandler(scoring.NewLocalProvider(openaiClient))

	router := routes.NewRouter(nil, scoreHandler, nil, nil)
	handler := router.SetupRoutes()

	// Scoring a batch is sequential, one model call per listing; the write
	// timeout has to absorb that.
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", serverAddr).Msg("scorer starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("scorer failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("scorer shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("error during scorer shutdown")
	}

	logger.Info().Msg("scorer stopped")
}
