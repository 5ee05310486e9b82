package handlers

import (
	"net/http"
	"strconv"

	"github.com/realityscout/backend/internal/domain/repositories"
)

// ListingHandler serves lookups over previously indexed listings.
type ListingHandler struct {
	index repositories.ListingIndexRepository
}

// NewListingHandler creates a new listing handler
func NewListingHandler(index repositories.ListingIndexRepository) *ListingHandler {
	return &ListingHandler{
		index: index,
	}
}

// SearchListings handles GET /api/listings/search
func (h *ListingHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	if h.index == nil {
		respondWithError(w, http.StatusServiceUnavailable, "listing index is not configured")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	limit := 30
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	listings, err := h.index.Query(r.Context(), query, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to search listings")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"listings": listings,
		"count":    len(listings),
	})
}
