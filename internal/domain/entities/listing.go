package entities

// RawListing is one record as it arrives from the scraping actor. The actor
// output is open-ended, so the record is kept as a generic mapping and the
// known fields are pulled out explicitly during normalization. Any field may
// be absent and nothing here is trusted.
type RawListing map[string]interface{}

// String returns the value under any of the given keys as a string, or ""
// when no key holds a usable string.
func (r RawListing) String(keys ...string) string {
	for _, key := range keys {
		if v, ok := r[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// Number returns the value under any of the given keys as a float64. JSON
// decoding yields float64 for all numbers, but scraped payloads sometimes
// carry ints after a round-trip through other tooling, so both are accepted.
func (r RawListing) Number(keys ...string) (float64, bool) {
	for _, key := range keys {
		switch v := r[key].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		}
	}
	return 0, false
}

// Strings returns the value under the given key as a string slice, skipping
// non-string elements.
func (r RawListing) Strings(key string) []string {
	items, ok := r[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Listing is the canonical form of a scraped listing. It is created once by
// the normalizer, optionally has its AI fields attached by the score merger,
// and is otherwise immutable.
type Listing struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	URL          string            `json:"url"`
	Location     string            `json:"location,omitempty"`
	Price        *float64          `json:"price,omitempty"`
	SizeM2       *float64          `json:"sizeM2,omitempty"`
	Rooms        *int              `json:"rooms,omitempty"`
	Images       []string          `json:"images,omitempty"`
	Description  string            `json:"description,omitempty"`
	Derived      DerivedAttributes `json:"derived"`
	AIScore      *float64          `json:"aiScore,omitempty"`
	AIReason     string            `json:"aiReason,omitempty"`
	AIHighlights []string          `json:"aiHighlights,omitempty"`

	// Raw is a back-reference to the scraped record the listing was
	// normalized from. It is not persisted or serialized.
	Raw RawListing `json:"-"`
}

// DerivedAttributes holds values computed during normalization rather than
// taken from the raw record.
type DerivedAttributes struct {
	PricePerM2  *int     `json:"pricePerM2,omitempty"`
	SizeM2      *float64 `json:"sizeM2,omitempty"`
	LayoutLabel string   `json:"layoutLabel,omitempty"`
}

// ScoreResult is the per-listing output of the scoring oracle, joined back
// onto listings by ID. It only lives between the scoring call and the merge.
type ScoreResult struct {
	ID           string   `json:"id"`
	AIScore      float64  `json:"aiScore"`
	AIReason     string   `json:"aiReason"`
	AIHighlights []string `json:"aiHighlights"`
}
