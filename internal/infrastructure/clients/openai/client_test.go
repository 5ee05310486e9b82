package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/realityscout/backend/internal/domain/entities"
	"github.com/realityscout/backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScoringClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	client, err := NewClient(&config.OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini"})
	require.NoError(t, err)
	return client.WithBaseURL(server.URL), server.Close
}

func responsesBody(text string) string {
	body, _ := json.Marshal(responseEnvelope{Output: []responseOutput{
		{Content: []responseContent{{Type: "output_text", Text: text}}},
	}})
	return string(body)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(&config.OpenAIConfig{})
	assert.Error(t, err)
}

func TestScoreListing_ParsesScore(t *testing.T) {
	client, cleanup := newTestScoringClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "gpt-4o-mini", payload["model"])

		fmt.Fprint(w, responsesBody(`{"score": 87, "reason": "good price for the area", "highlights": ["balcony", "metro nearby"]}`))
	})
	defer cleanup()

	result, err := client.ScoreListing(context.Background(), entities.Listing{ID: "l1", Title: "Byt 2+kk"})

	require.NoError(t, err)
	assert.Equal(t, "l1", result.ID)
	assert.Equal(t, 87.0, result.AIScore)
	assert.Equal(t, "good price for the area", result.AIReason)
	assert.Equal(t, []string{"balcony", "metro nearby"}, result.AIHighlights)
}

func TestScoreListing_StripsCodeFences(t *testing.T) {
	client, cleanup := newTestScoringClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, responsesBody("```json\n{\"score\": 55, \"reason\": \"ok\", \"highlights\": []}\n```"))
	})
	defer cleanup()

	result, err := client.ScoreListing(context.Background(), entities.Listing{ID: "l1"})

	require.NoError(t, err)
	assert.Equal(t, 55.0, result.AIScore)
}

func TestScoreListing_ClampsScore(t *testing.T) {
	client, cleanup := newTestScoringClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, responsesBody(`{"score": 250, "reason": "overenthusiastic", "highlights": []}`))
	})
	defer cleanup()

	result, err := client.ScoreListing(context.Background(), entities.Listing{ID: "l1"})

	require.NoError(t, err)
	assert.Equal(t, 100.0, result.AIScore)
}

func TestScoreListing_MalformedOutputDegrades(t *testing.T) {
	client, cleanup := newTestScoringClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, responsesBody("I think this flat is quite nice overall."))
	})
	defer cleanup()

	// Unparseable model output degrades instead of failing the call.
	result, err := client.ScoreListing(context.Background(), entities.Listing{ID: "l1"})

	require.NoError(t, err)
	assert.Equal(t, "l1", result.ID)
	assert.Equal(t, 0.0, result.AIScore)
	assert.Equal(t, "could not parse scoring response", result.AIReason)
	assert.Empty(t, result.AIHighlights)
}

func TestScoreListing_HTTPErrorFails(t *testing.T) {
	client, cleanup := newTestScoringClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer cleanup()

	_, err := client.ScoreListing(context.Background(), entities.Listing{ID: "l1"})
	assert.Error(t, err)
}

func TestScoreListing_MissingOutputTextFails(t *testing.T) {
	client, cleanup := newTestScoringClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"output": []}`)
	})
	defer cleanup()

	_, err := client.ScoreListing(context.Background(), entities.Listing{ID: "l1"})
	assert.Error(t, err)
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}

func TestBuildScoringUserPrompt_IncludesKnownFields(t *testing.T) {
	price := 4500000.0
	size := 55.0
	rooms := 2
	ppm2 := 81818

	listing := entities.Listing{
		ID:       "l1",
		Title:    "Krásný byt 2+kk",
		Location: "Praha 3",
		Price:    &price,
		SizeM2:   &size,
		Rooms:    &rooms,
	}
	listing.Derived.PricePerM2 = &ppm2
	listing.Derived.LayoutLabel = "2+kk"

	prompt := buildScoringUserPrompt(listing)

	assert.Contains(t, prompt, "Krásný byt 2+kk")
	assert.Contains(t, prompt, "Praha 3")
	assert.Contains(t, prompt, "4500000 CZK")
	assert.Contains(t, prompt, "55 m2")
	assert.Contains(t, prompt, "Rooms: 2")
	assert.Contains(t, prompt, "81818")
}
