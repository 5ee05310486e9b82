package search

import (
	"context"
	"fmt"
	"time"

	"github.com/realityscout/backend/internal/domain/entities"
	"github.com/realityscout/backend/internal/domain/repositories"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	tsclient "github.com/realityscout/backend/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements the listing index using Typesense.
type TypesenseAdapter struct {
	client *tsclient.Client
}

// Ensure TypesenseAdapter implements ListingIndexRepository
var _ repositories.ListingIndexRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index upserts the listings of a search into the index.
func (a *TypesenseAdapter) Index(ctx context.Context, searchID string, listings []entities.Listing) error {
	now := time.Now().Unix()

	for _, listing := range listings {
		document := buildListingDocument(searchID, listing, now)
		if _, err := a.client.Client().Collection(tsclient.ListingsCollection).Documents().Upsert(ctx, document); err != nil {
			return fmt.Errorf("failed to index listing %s: %w", listing.ID, err)
		}
	}

	return nil
}

// buildListingDocument flattens a listing into an index document. Optional
// fields are omitted entirely rather than written as zero values.
func buildListingDocument(searchID string, listing entities.Listing, createdAt int64) map[string]interface{} {
	document := map[string]interface{}{
		"id":         searchID + ":" + listing.ID,
		"search_id":  searchID,
		"title":      listing.Title,
		"created_at": createdAt,
	}
	if listing.Location != "" {
		document["location"] = listing.Location
	}
	if listing.Description != "" {
		document["description"] = listing.Description
	}
	if listing.Price != nil {
		document["price"] = *listing.Price
	}
	if listing.SizeM2 != nil {
		document["size_m2"] = *listing.SizeM2
	}
	if listing.Rooms != nil {
		document["rooms"] = *listing.Rooms
	}
	if listing.Derived.LayoutLabel != "" {
		document["layout_label"] = listing.Derived.LayoutLabel
	}
	if listing.AIScore != nil {
		document["ai_score"] = *listing.AIScore
	}
	return document
}

// Query searches indexed listings by free text over title, location and
// description.
func (a *TypesenseAdapter) Query(ctx context.Context, query string, limit int) ([]entities.Listing, error) {
	if limit <= 0 {
		limit = 30
	}

	searchParams := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("title,location,description"),
		PerPage: pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.ListingsCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}

	listings := []entities.Listing{}
	if result.Hits == nil {
		return listings, nil
	}

	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		listings = append(listings, listingFromDocument(*hit.Document))
	}

	return listings, nil
}

// listingFromDocument rebuilds a listing from an index document.
func listingFromDocument(doc map[string]interface{}) entities.Listing {
	listing := entities.Listing{}
	if v, ok := doc["id"].(string); ok {
		listing.ID = v
	}
	if v, ok := doc["title"].(string); ok {
		listing.Title = v
	}
	if v, ok := doc["location"].(string); ok {
		listing.Location = v
	}
	if v, ok := doc["description"].(string); ok {
		listing.Description = v
	}
	if v, ok := doc["price"].(float64); ok {
		price := v
		listing.Price = &price
	}
	if v, ok := doc["size_m2"].(float64); ok {
		size := v
		listing.SizeM2 = &size
		listing.Derived.SizeM2 = &size
	}
	if v, ok := doc["rooms"].(float64); ok {
		rooms := int(v)
		listing.Rooms = &rooms
	}
	if v, ok := doc["layout_label"].(string); ok {
		listing.Derived.LayoutLabel = v
	}
	if v, ok := doc["ai_score"].(float64); ok {
		score := v
		listing.AIScore = &score
	}
	return listing
}
