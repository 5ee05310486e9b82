package entities

import (
	"time"
)

// SearchEvent records one completed pipeline run for analytics consumers.
type SearchEvent struct {
	ID          string    `json:"id"`
	SearchID    string    `json:"search_id"`
	City        string    `json:"city"`
	UseAI       bool      `json:"use_ai"`
	RawCount    int       `json:"raw_count"`
	ResultCount int       `json:"result_count"`
	LatencyMs   int       `json:"latency_ms"`
	CreatedAt   time.Time `json:"created_at"`
}
