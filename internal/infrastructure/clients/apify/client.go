package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/realityscout/backend/internal/domain/entities"
	"github.com/realityscout/backend/internal/infrastructure/observability"
	"github.com/realityscout/backend/pkg/config"
	apperrors "github.com/realityscout/backend/pkg/errors"
)

// Run statuses reported by the actor platform.
const (
	statusReady     = "READY"
	statusRunning   = "RUNNING"
	statusSucceeded = "SUCCEEDED"
	statusFailed    = "FAILED"
	statusAborted   = "ABORTED"
	statusTimedOut  = "TIMED-OUT"
)

// Client drives the scraping actor: it triggers a run, polls its status at a
// fixed interval up to a maximum total wait, and downloads the resulting
// dataset. Exceeding the wait budget is a timeout failure, not retry-forever.
type Client struct {
	token        string
	actorID      string
	baseURL      string
	httpClient   *http.Client
	pollInterval time.Duration
	maxWait      time.Duration
	metrics      *observability.Metrics
}

// NewClient creates a new scraping actor client. metrics may be nil.
func NewClient(cfg *config.ApifyConfig, metrics *observability.Metrics) *Client {
	return &Client{
		token:        cfg.Token,
		actorID:      cfg.ActorID,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		pollInterval: cfg.PollInterval,
		maxWait:      cfg.MaxWait,
		metrics:      metrics,
	}
}

// actorInput is the constraint payload handed to the actor.
type actorInput struct {
	City       string   `json:"city"`
	PriceMax   *int     `json:"priceMax,omitempty"`
	PriceM2Max *int     `json:"priceM2Max,omitempty"`
	RoomsFrom  *int     `json:"roomsFrom,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
}

type runData struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

type runEnvelope struct {
	Data runData `json:"data"`
}

// FetchListings runs a scrape for the given constraints and returns the raw
// records. It blocks until the run reaches a terminal state or the wait
// budget is exhausted.
func (c *Client) FetchListings(ctx context.Context, params entities.SearchParams) ([]entities.RawListing, error) {
	start := time.Now()

	run, err := c.triggerRun(ctx, params)
	if err != nil {
		return nil, err
	}

	pollStart := time.Now()
	run, err = c.waitForRun(ctx, run)
	c.recordPollWait(ctx, run.Status, time.Since(pollStart))
	if err != nil {
		c.recordRun(ctx, run.Status, time.Since(start))
		return nil, err
	}
	c.recordRun(ctx, run.Status, time.Since(start))

	return c.downloadItems(ctx, run.DefaultDatasetID)
}

func (c *Client) triggerRun(ctx context.Context, params entities.SearchParams) (runData, error) {
	input := actorInput{
		City:       params.City,
		PriceMax:   params.PriceMax,
		PriceM2Max: params.PriceM2Max,
		RoomsFrom:  params.RoomsFrom,
		Keywords:   params.Keywords,
	}

	body, err := json.Marshal(input)
	if err != nil {
		return runData{}, apperrors.NewInternalError("failed to encode actor input", err)
	}

	url := fmt.Sprintf("%s/v2/acts/%s/runs?token=%s", c.baseURL, c.actorID, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return runData{}, apperrors.NewInternalError("failed to build trigger request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return runData{}, apperrors.NewUpstreamError("failed to trigger scrape run", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return runData{}, apperrors.NewUpstreamError(
			fmt.Sprintf("scrape trigger failed with status %d", resp.StatusCode), nil)
	}

	var envelope runEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return runData{}, apperrors.NewUpstreamError("failed to decode scrape run", err)
	}
	return envelope.Data, nil
}

// waitForRun polls the run until it reaches a terminal status. The only
// cancellation mechanism mid-poll is the caller's context.
func (c *Client) waitForRun(ctx context.Context, run runData) (runData, error) {
	deadline := time.Now().Add(c.maxWait)

	for {
		switch run.Status {
		case statusSucceeded:
			return run, nil
		case statusFailed, statusAborted, statusTimedOut:
			return run, apperrors.NewUpstreamError(
				fmt.Sprintf("scrape run %s ended with status %s", run.ID, run.Status), nil)
		case statusReady, statusRunning, "":
			// keep polling
		default:
			return run, apperrors.NewUpstreamError(
				fmt.Sprintf("scrape run %s reported unknown status %s", run.ID, run.Status), nil)
		}

		if time.Now().After(deadline) {
			return run, apperrors.NewTimeoutError(
				fmt.Sprintf("scrape run %s did not finish within %s", run.ID, c.maxWait))
		}

		select {
		case <-ctx.Done():
			return run, apperrors.NewUpstreamError("scrape poll cancelled", ctx.Err())
		case <-time.After(c.pollInterval):
		}

		var err error
		run, err = c.getRun(ctx, run.ID)
		if err != nil {
			return run, err
		}
	}
}

func (c *Client) getRun(ctx context.Context, runID string) (runData, error) {
	url := fmt.Sprintf("%s/v2/actor-runs/%s?token=%s", c.baseURL, runID, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return runData{}, apperrors.NewInternalError("failed to build poll request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return runData{}, apperrors.NewUpstreamError("failed to poll scrape run", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return runData{}, apperrors.NewUpstreamError(
			fmt.Sprintf("scrape poll failed with status %d", resp.StatusCode), nil)
	}

	var envelope runEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return runData{}, apperrors.NewUpstreamError("failed to decode scrape run", err)
	}
	return envelope.Data, nil
}

func (c *Client) downloadItems(ctx context.Context, datasetID string) ([]entities.RawListing, error) {
	url := fmt.Sprintf("%s/v2/datasets/%s/items?token=%s&format=json", c.baseURL, datasetID, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build download request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamError("failed to download scraped items", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewUpstreamError(
			fmt.Sprintf("dataset download failed with status %d", resp.StatusCode), nil)
	}

	var items []entities.RawListing
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, apperrors.NewUpstreamError("failed to decode scraped items", err)
	}
	return items, nil
}

func (c *Client) recordRun(ctx context.Context, status string, duration time.Duration) {
	if c.metrics == nil {
		return
	}
	if status == "" {
		status = "UNKNOWN"
	}
	observability.RecordScrapeMetric(ctx, c.metrics, status, duration)
}

func (c *Client) recordPollWait(ctx context.Context, status string, duration time.Duration) {
	if c.metrics == nil {
		return
	}
	if status == "" {
		status = "UNKNOWN"
	}
	observability.RecordPollWait(ctx, c.metrics, status, duration)
}
