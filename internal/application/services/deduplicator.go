package services

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/realityscout/backend/internal/domain/entities"
)

// rawIdentifier returns the raw record's identifier field as a string.
// Scraped payloads carry ids both as strings and as numbers.
func rawIdentifier(raw entities.RawListing) string {
	switch v := raw["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

// identityKey derives the deduplication key for a raw listing: URL first,
// then the stringified identifier. Records with neither get a fresh random
// key so they are never silently dropped, at the cost of never deduplicating
// against other identity-less records.
func identityKey(raw entities.RawListing) string {
	if url := raw.String("url"); url != "" {
		return url
	}
	if id := rawIdentifier(raw); id != "" {
		return id
	}
	return uuid.NewString()
}

// Deduplicate collapses raw listings sharing an identity key, keeping the
// first occurrence and preserving input order.
func Deduplicate(raw []entities.RawListing) []entities.RawListing {
	seen := make(map[string]struct{}, len(raw))
	out := make([]entities.RawListing, 0, len(raw))

	for _, r := range raw {
		key := identityKey(r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}

	return out
}
