package routes

import (
	"net/http"

	"github.com/realityscout/backend/internal/api/handlers"
	"github.com/realityscout/backend/internal/api/middleware"
	"github.com/realityscout/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler  *handlers.SearchHandler
	scoreHandler   *handlers.ScoreHandler
	listingHandler *handlers.ListingHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	scoreHandler *handlers.ScoreHandler,
	listingHandler *handlers.ListingHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		searchHandler:  searchHandler,
		scoreHandler:   scoreHandler,
		listingHandler: listingHandler,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	if r.searchHandler != nil {
		r.mux.HandleFunc("POST /api/searches", r.searchHandler.CreateSearch)
		r.mux.HandleFunc("GET /api/searches/{id}/results", r.searchHandler.GetSearchResults)
	}

	if r.scoreHandler != nil {
		r.mux.HandleFunc("POST /api/score", r.scoreHandler.ScoreListings)
	}

	if r.listingHandler != nil {
		r.mux.HandleFunc("GET /api/listings/search", r.listingHandler.SearchListings)
	}

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}
	handler = middleware.CORSMiddleware(handler)

	return handler
}
