package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/realityscout/backend/internal/domain/entities"
	apperrors "github.com/realityscout/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedScoring struct {
	results []entities.ScoreResult
	err     error
}

func (s *scriptedScoring) ScoreListings(_ context.Context, _ []entities.Listing) ([]entities.ScoreResult, error) {
	return s.results, s.err
}

func TestScoreListings_Success(t *testing.T) {
	handler := NewScoreHandler(&scriptedScoring{results: []entities.ScoreResult{
		{ID: "a", AIScore: 77, AIReason: "bright flat"},
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/score",
		strings.NewReader(`{"items": [{"id": "a", "title": "Byt"}]}`))
	rec := httptest.NewRecorder()

	handler.ScoreListings(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"aiScore":77`)
}

func TestScoreListings_InvalidPayload(t *testing.T) {
	handler := NewScoreHandler(&scriptedScoring{})

	req := httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader("nope"))
	rec := httptest.NewRecorder()

	handler.ScoreListings(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoreListings_NilResultsEncodeAsEmptyArray(t *testing.T) {
	handler := NewScoreHandler(&scriptedScoring{})

	req := httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader(`{"items": []}`))
	rec := httptest.NewRecorder()

	handler.ScoreListings(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"results":[]`)
}

func TestScoreListings_ProviderErrorMapsTo502(t *testing.T) {
	handler := NewScoreHandler(&scriptedScoring{err: apperrors.NewUpstreamError("oracle down", nil)})

	req := httptest.NewRequest(http.MethodPost, "/api/score", strings.NewReader(`{"items": []}`))
	rec := httptest.NewRecorder()

	handler.ScoreListings(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
