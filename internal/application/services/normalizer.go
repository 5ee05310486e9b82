package services

import (
	"encoding/base64"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/realityscout/backend/internal/domain/entities"
)

const (
	placeholderTitle = "Untitled listing"
	placeholderURL   = "about:blank"
)

// The extraction patterns are heuristic and tuned to Czech listing text
// (Kč currency, m² unit, N+kk layout codes). Their exact semantics are load
// bearing: persisted historical results were produced with them, so they
// must not be "improved" casually.
var (
	// sizePattern matches a number immediately followed by an m² marker,
	// with or without the superscript.
	sizePattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:m²|m2)`)

	// pricePattern matches the first run of two or more digits in
	// whitespace-stripped text, optionally followed by a currency marker.
	// Thousands separators other than whitespace are not handled: a price
	// written as "4.500.000" parses as 4.
	pricePattern = regexp.MustCompile(`(?i)(\d{2,})(?:kč|kc|czk)?`)

	// roomsPlusPattern and roomsBarePattern match "2+kk" and "2kk" layout
	// codes; the plus form is preferred.
	roomsPlusPattern = regexp.MustCompile(`(?i)(\d+)\s*\+\s*kk`)
	roomsBarePattern = regexp.MustCompile(`(?i)(\d+)kk`)

	// layoutPattern matches either layout form for the verbatim label.
	layoutPattern = regexp.MustCompile(`(?i)\d+\s*\+\s*kk|\d+kk`)
)

// Normalizer converts raw scraped records into canonical listings.
type Normalizer struct{}

// NewNormalizer creates a new normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize maps one raw record to exactly one canonical listing. It never
// fails: missing data degrades to absent optional fields.
func (n *Normalizer) Normalize(raw entities.RawListing) entities.Listing {
	title := raw.String("title", "name")
	url := raw.String("url")
	description := raw.String("description")

	listing := entities.Listing{
		ID:          listingID(raw, url),
		Title:       title,
		URL:         url,
		Location:    raw.String("locality", "location"),
		Description: description,
		Images:      raw.Strings("images"),
		Raw:         raw,
	}

	if listing.Title == "" {
		listing.Title = placeholderTitle
	}
	if listing.URL == "" {
		listing.URL = placeholderURL
	}

	if size, ok := extractSize(raw, title, description); ok {
		listing.SizeM2 = &size
		listing.Derived.SizeM2 = &size
	}

	if price, ok := extractPrice(raw, description); ok {
		listing.Price = &price
	}

	if rooms, ok := extractRooms(raw, title, description); ok {
		listing.Rooms = &rooms
	}

	if listing.Price != nil && listing.SizeM2 != nil && *listing.SizeM2 > 0 {
		ppm2 := int(math.Round(*listing.Price / *listing.SizeM2))
		listing.Derived.PricePerM2 = &ppm2
	}

	if label := layoutPattern.FindString(title); label != "" {
		listing.Derived.LayoutLabel = label
	} else if label := layoutPattern.FindString(description); label != "" {
		listing.Derived.LayoutLabel = label
	}

	return listing
}

// listingID derives a stable identifier: the raw id when present, else a
// reversible encoding of the URL. Records with neither get a random id,
// which breaks re-normalization determinism for them; kept that way because
// persisted historical results depend on the existing behavior.
func listingID(raw entities.RawListing, url string) string {
	if id := rawIdentifier(raw); id != "" {
		return id
	}
	if url != "" {
		return base64.RawURLEncoding.EncodeToString([]byte(url))
	}
	return uuid.NewString()
}

// extractSize prefers the explicit size field, then the area field, then the
// first m² match in the title, then the description. No unit conversion.
func extractSize(raw entities.RawListing, title, description string) (float64, bool) {
	if size, ok := raw.Number("surface", "size"); ok {
		return size, true
	}
	if area, ok := raw.Number("area"); ok {
		return area, true
	}
	for _, text := range []string{title, description} {
		if m := sizePattern.FindStringSubmatch(text); m != nil {
			if size, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
				return size, true
			}
		}
	}
	return 0, false
}

// extractPrice prefers the explicit price field, then the first digit run of
// length ≥2 in the whitespace-stripped description.
func extractPrice(raw entities.RawListing, description string) (float64, bool) {
	if price, ok := raw.Number("price"); ok {
		return price, true
	}
	stripped := strings.Join(strings.Fields(description), "")
	if m := pricePattern.FindStringSubmatch(stripped); m != nil {
		if price, err := strconv.ParseFloat(m[1], 64); err == nil {
			return price, true
		}
	}
	return 0, false
}

// extractRooms prefers the explicit rooms field, then a "N+kk" layout code
// in the title or description, then a bare "Nkk" code.
func extractRooms(raw entities.RawListing, title, description string) (int, bool) {
	if rooms, ok := raw.Number("rooms"); ok {
		return int(rooms), true
	}
	for _, pattern := range []*regexp.Regexp{roomsPlusPattern, roomsBarePattern} {
		for _, text := range []string{title, description} {
			if m := pattern.FindStringSubmatch(text); m != nil {
				if rooms, err := strconv.Atoi(m[1]); err == nil {
					return rooms, true
				}
			}
		}
	}
	return 0, false
}
