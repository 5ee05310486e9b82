package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_ApifyConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("APIFY_TOKEN", "test-token")
	os.Setenv("APIFY_ACTOR_ID", "user~actor")
	os.Setenv("APIFY_POLL_INTERVAL", "2s")
	defer func() {
		os.Unsetenv("APIFY_TOKEN")
		os.Unsetenv("APIFY_ACTOR_ID")
		os.Unsetenv("APIFY_POLL_INTERVAL")
	}()

	// Load config
	cfg, err := Load()
	assert.NoError(t, err)

	// Verify Apify config
	assert.Equal(t, "test-token", cfg.Apify.Token)
	assert.Equal(t, "user~actor", cfg.Apify.ActorID)
	assert.Equal(t, 2*time.Second, cfg.Apify.PollInterval)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("APIFY_BASE_URL")
	os.Unsetenv("APIFY_MAX_WAIT")
	os.Unsetenv("TYPESENSE_URL")

	cfg, err := Load()
	assert.NoError(t, err)

	// Verify defaults
	assert.Equal(t, "https://api.apify.com", cfg.Apify.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.Apify.MaxWait)
	assert.Equal(t, "http://localhost:8108", cfg.Typesense.URL)
}

func TestValidate_MissingCredentials(t *testing.T) {
	os.Unsetenv("APIFY_TOKEN")
	os.Unsetenv("APIFY_ACTOR_ID")
	os.Unsetenv("OPENAI_API_KEY")
	os.Unsetenv("SCORING_SERVICE_URL")

	cfg, err := Load()
	assert.NoError(t, err)

	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "APIFY_TOKEN")

	cfg.Apify.Token = "t"
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "APIFY_ACTOR_ID")

	cfg.Apify.ActorID = "a"
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	cfg.OpenAI.APIKey = "k"
	assert.NoError(t, cfg.Validate())
}
