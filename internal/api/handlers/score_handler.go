package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/realityscout/backend/internal/domain/entities"
	"github.com/realityscout/backend/internal/domain/providers"
)

// ScoreHandler exposes the scoring oracle over HTTP. This is the surface the
// remote scoring path of sibling instances calls.
type ScoreHandler struct {
	provider providers.ScoringProvider
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(provider providers.ScoringProvider) *ScoreHandler {
	return &ScoreHandler{
		provider: provider,
	}
}

type scoreRequest struct {
	Items []entities.Listing `json:"items"`
}

// ScoreListings handles POST /api/score
func (h *ScoreHandler) ScoreListings(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	results, err := h.provider.ScoreListings(r.Context(), req.Items)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if results == nil {
		results = []entities.ScoreResult{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}
