package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/realityscout/backend/internal/domain/entities"
)

const scoringSystemPrompt = `You are an assistant rating apartment listings for a Czech real estate search platform. Return ONLY valid JSON with this schema:
{
  "score": number (0-100, overall desirability of the listing),
  "reason": string (1-2 short sentences explaining the score),
  "highlights": string[] (1-5 short phrases naming the listing's strongest points)
}
Judge price relative to size and location, the layout, and anything notable in the description. Keep language simple and factual. Do not invent details that are not in the listing.`

// scorePayload is the JSON the model is asked to return for one listing.
type scorePayload struct {
	Score      float64  `json:"score"`
	Reason     string   `json:"reason"`
	Highlights []string `json:"highlights"`
}

func buildScoringUserPrompt(listing entities.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", listing.Title)
	if listing.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", listing.Location)
	}
	if listing.Price != nil {
		fmt.Fprintf(&b, "Price: %.0f CZK\n", *listing.Price)
	}
	if listing.SizeM2 != nil {
		fmt.Fprintf(&b, "Size: %.0f m2\n", *listing.SizeM2)
	}
	if listing.Rooms != nil {
		fmt.Fprintf(&b, "Rooms: %d\n", *listing.Rooms)
	}
	if listing.Derived.PricePerM2 != nil {
		fmt.Fprintf(&b, "Price per m2: %d CZK\n", *listing.Derived.PricePerM2)
	}
	if listing.Derived.LayoutLabel != "" {
		fmt.Fprintf(&b, "Layout: %s\n", listing.Derived.LayoutLabel)
	}
	if listing.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", listing.Description)
	}
	return b.String()
}

func parseScorePayload(data []byte) (*scorePayload, error) {
	var payload scorePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse score payload: %w", err)
	}
	return &payload, nil
}
