package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/realityscout/backend/internal/domain/entities"
	"github.com/realityscout/backend/internal/domain/providers"
	apperrors "github.com/realityscout/backend/pkg/errors"
)

// RemoteProvider scores listings through the sibling scoring service. It
// honors the same contract as the local provider, so callers cannot tell
// which path executed.
type RemoteProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteProvider creates a scoring provider backed by the scoring service
// at baseURL.
func NewRemoteProvider(baseURL string) providers.ScoringProvider {
	return &RemoteProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type scoreRequest struct {
	Items []entities.Listing `json:"items"`
}

type scoreResponse struct {
	Results []entities.ScoreResult `json:"results"`
}

// ScoreListings sends the whole batch to the scoring service.
func (p *RemoteProvider) ScoreListings(ctx context.Context, listings []entities.Listing) ([]entities.ScoreResult, error) {
	body, err := json.Marshal(scoreRequest{Items: listings})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode scoring request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/score", bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build scoring request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamError("scoring service call failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewUpstreamError(
			fmt.Sprintf("scoring service returned status %d", resp.StatusCode), nil)
	}

	var decoded scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, apperrors.NewUpstreamError("failed to decode scoring response", err)
	}
	return decoded.Results, nil
}
