package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/realityscout/backend/internal/application/services"
	"github.com/realityscout/backend/internal/domain/entities"
	apperrors "github.com/realityscout/backend/pkg/errors"
)

// SearchHandler handles search-related HTTP requests
type SearchHandler struct {
	service *services.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service *services.SearchService) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// CreateSearch handles POST /api/searches. The response is either the full
// result set or a single error; never a partial list.
func (h *SearchHandler) CreateSearch(w http.ResponseWriter, r *http.Request) {
	var params entities.SearchParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	response, err := h.service.Run(r.Context(), params)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}

// GetSearchResults handles GET /api/searches/{id}/results
func (h *SearchHandler) GetSearchResults(w http.ResponseWriter, r *http.Request) {
	searchID := r.PathValue("id")
	if searchID == "" {
		respondWithError(w, http.StatusBadRequest, "search ID is required")
		return
	}

	results, err := h.service.Results(r.Context(), searchID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"searchId": searchID,
		"results":  results,
	})
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func respondWithAppError(w http.ResponseWriter, err error) {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, err.Error())
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, err.Error())
	case apperrors.ErrorTypeTimeout:
		respondWithError(w, http.StatusGatewayTimeout, err.Error())
	case apperrors.ErrorTypeUpstream:
		respondWithError(w, http.StatusBadGateway, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
