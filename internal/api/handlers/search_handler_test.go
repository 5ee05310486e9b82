package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/realityscout/backend/internal/application/services"
	"github.com/realityscout/backend/internal/domain/entities"
	apperrors "github.com/realityscout/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	raw []entities.RawListing
	err error
}

func (f *fakeSource) FetchListings(_ context.Context, _ entities.SearchParams) ([]entities.RawListing, error) {
	return f.raw, f.err
}

type fakeScoring struct{}

func (f *fakeScoring) ScoreListings(_ context.Context, _ []entities.Listing) ([]entities.ScoreResult, error) {
	return nil, nil
}

type fakeRepo struct {
	results []entities.Listing
	getErr  error
}

func (f *fakeRepo) CreateSearch(_ context.Context, _ entities.SearchParams) (string, error) {
	return "search-1", nil
}

func (f *fakeRepo) SaveResults(_ context.Context, _ string, _ []entities.Listing) error {
	return nil
}

func (f *fakeRepo) GetResults(_ context.Context, _ string) ([]entities.Listing, error) {
	return f.results, f.getErr
}

func newTestSearchHandler(source *fakeSource, repo *fakeRepo) *SearchHandler {
	svc := services.NewSearchService(source, &fakeScoring{}, repo, nil, nil)
	return NewSearchHandler(svc)
}

func TestCreateSearch_Success(t *testing.T) {
	source := &fakeSource{raw: []entities.RawListing{
		{"id": "a", "title": "Byt 2+kk, 50 m2", "url": "https://example.com/a"},
	}}
	handler := newTestSearchHandler(source, &fakeRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/searches",
		strings.NewReader(`{"city": "Praha"}`))
	rec := httptest.NewRecorder()

	handler.CreateSearch(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp entities.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "search-1", resp.SearchID)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "a", resp.Results[0].ID)
}

func TestCreateSearch_InvalidJSON(t *testing.T) {
	handler := newTestSearchHandler(&fakeSource{}, &fakeRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/searches", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler.CreateSearch(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSearch_MissingCity(t *testing.T) {
	handler := newTestSearchHandler(&fakeSource{}, &fakeRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/searches", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	handler.CreateSearch(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "city is required")
}

func TestCreateSearch_UpstreamErrorMapsTo502(t *testing.T) {
	source := &fakeSource{err: apperrors.NewUpstreamError("actor unavailable", nil)}
	handler := newTestSearchHandler(source, &fakeRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/searches",
		strings.NewReader(`{"city": "Praha"}`))
	rec := httptest.NewRecorder()

	handler.CreateSearch(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCreateSearch_TimeoutMapsTo504(t *testing.T) {
	source := &fakeSource{err: apperrors.NewTimeoutError("run did not finish")}
	handler := newTestSearchHandler(source, &fakeRepo{})

	req := httptest.NewRequest(http.MethodPost, "/api/searches",
		strings.NewReader(`{"city": "Praha"}`))
	rec := httptest.NewRecorder()

	handler.CreateSearch(rec, req)

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestGetSearchResults_Success(t *testing.T) {
	repo := &fakeRepo{results: []entities.Listing{{ID: "a", Title: "Byt"}}}
	handler := newTestSearchHandler(&fakeSource{}, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/searches/search-1/results", nil)
	req.SetPathValue("id", "search-1")
	rec := httptest.NewRecorder()

	handler.GetSearchResults(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"searchId":"search-1"`)
}

func TestGetSearchResults_NotFound(t *testing.T) {
	repo := &fakeRepo{getErr: apperrors.NewNotFoundError("search not found")}
	handler := newTestSearchHandler(&fakeSource{}, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/searches/missing/results", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	handler.GetSearchResults(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
