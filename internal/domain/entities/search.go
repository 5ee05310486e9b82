package entities

import (
	"strings"
	"time"

	apperrors "github.com/realityscout/backend/pkg/errors"
)

// SearchParams are the normalized user constraints for one search request.
// City and keywords are trimmed before the pipeline sees them; the pointer
// fields distinguish "not supplied" from zero.
type SearchParams struct {
	City       string   `json:"city"`
	PriceMax   *int     `json:"priceMax,omitempty"`
	PriceM2Max *int     `json:"priceM2Max,omitempty"`
	RoomsFrom  *int     `json:"roomsFrom,omitempty"`
	Keywords   []string `json:"keywords,omitempty"`
	UseAI      bool     `json:"useAI,omitempty"`
}

// Normalize trims the city and drops empty keywords. Call before Validate.
func (p *SearchParams) Normalize() {
	p.City = strings.TrimSpace(p.City)

	keywords := make([]string, 0, len(p.Keywords))
	for _, kw := range p.Keywords {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	p.Keywords = keywords
}

// Validate rejects malformed parameters before any external call is made.
func (p *SearchParams) Validate() error {
	if p.City == "" {
		return apperrors.NewValidationError("city is required")
	}
	if p.PriceMax != nil && *p.PriceMax <= 0 {
		return apperrors.NewValidationError("priceMax must be positive")
	}
	if p.PriceM2Max != nil && *p.PriceM2Max <= 0 {
		return apperrors.NewValidationError("priceM2Max must be positive")
	}
	if p.RoomsFrom != nil && *p.RoomsFrom <= 0 {
		return apperrors.NewValidationError("roomsFrom must be positive")
	}
	return nil
}

// Search is one persisted search request.
type Search struct {
	ID        string       `json:"id" db:"id"`
	Params    SearchParams `json:"params" db:"-"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}

// SearchResponse is the successful response of one pipeline run.
type SearchResponse struct {
	SearchID string    `json:"searchId"`
	Results  []Listing `json:"results"`
}
