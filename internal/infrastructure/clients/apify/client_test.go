package apify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/realityscout/backend/internal/domain/entities"
	"github.com/realityscout/backend/pkg/config"
	apperrors "github.com/realityscout/backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.ApifyConfig{
		Token:        "test-token",
		ActorID:      "test-actor",
		BaseURL:      baseURL,
		PollInterval: 5 * time.Millisecond,
		MaxWait:      500 * time.Millisecond,
	}, nil)
}

func writeRun(w http.ResponseWriter, id, status, datasetID string) {
	_ = json.NewEncoder(w).Encode(runEnvelope{Data: runData{
		ID:               id,
		Status:           status,
		DefaultDatasetID: datasetID,
	}})
}

func TestFetchListings_Success(t *testing.T) {
	var polls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v2/acts/test-actor/runs":
			assert.Equal(t, "test-token", r.URL.Query().Get("token"))

			var input actorInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
			assert.Equal(t, "Praha", input.City)

			writeRun(w, "run-1", statusRunning, "")
		case r.Method == http.MethodGet && r.URL.Path == "/v2/actor-runs/run-1":
			// Succeed on the second poll.
			if polls.Add(1) < 2 {
				writeRun(w, "run-1", statusRunning, "")
			} else {
				writeRun(w, "run-1", statusSucceeded, "ds-1")
			}
		case r.Method == http.MethodGet && r.URL.Path == "/v2/datasets/ds-1/items":
			assert.Equal(t, "json", r.URL.Query().Get("format"))
			fmt.Fprint(w, `[{"id":"a","title":"Byt 2+kk"},{"id":"b"}]`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	items, err := client.FetchListings(context.Background(), entities.SearchParams{City: "Praha"})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0]["id"])
	assert.GreaterOrEqual(t, polls.Load(), int32(2))
}

func TestFetchListings_TerminalFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			writeRun(w, "run-1", statusRunning, "")
			return
		}
		writeRun(w, "run-1", statusFailed, "")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchListings(context.Background(), entities.SearchParams{City: "Praha"})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeUpstream, apperrors.TypeOf(err))
	assert.Contains(t, err.Error(), statusFailed)
}

func TestFetchListings_TimesOutAfterMaxWait(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			writeRun(w, "run-1", statusRunning, "")
			return
		}
		// Never finishes.
		writeRun(w, "run-1", statusRunning, "")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.maxWait = 20 * time.Millisecond

	_, err := client.FetchListings(context.Background(), entities.SearchParams{City: "Praha"})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeTimeout, apperrors.TypeOf(err))
}

func TestFetchListings_UnknownStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeRun(w, "run-1", "EXPLODED", "")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchListings(context.Background(), entities.SearchParams{City: "Praha"})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeUpstream, apperrors.TypeOf(err))
	assert.Contains(t, err.Error(), "unknown status")
}

func TestFetchListings_TriggerHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchListings(context.Background(), entities.SearchParams{City: "Praha"})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeUpstream, apperrors.TypeOf(err))
}

func TestFetchListings_ContextCancelledMidPoll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeRun(w, "run-1", statusRunning, "")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server.URL)
	_, err := client.FetchListings(ctx, entities.SearchParams{City: "Praha"})

	require.Error(t, err)
}
