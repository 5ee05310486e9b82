package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/realityscout/backend/internal/domain/entities"
	"github.com/realityscout/backend/internal/domain/repositories"
	"github.com/realityscout/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/realityscout/backend/pkg/errors"
)

// SearchAdapter implements search persistence in Postgres.
type SearchAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSearchAdapter creates a new search adapter.
func NewSearchAdapter(client *postgres.Client) repositories.SearchRepository {
	return &SearchAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// CreateSearch records a search and returns its generated identifier.
func (a *SearchAdapter) CreateSearch(ctx context.Context, params entities.SearchParams) (string, error) {
	id := uuid.NewString()

	record := goqu.Record{
		"id":           id,
		"city":         params.City,
		"price_max":    nullableInt(params.PriceMax),
		"price_m2_max": nullableInt(params.PriceM2Max),
		"rooms_from":   nullableInt(params.RoomsFrom),
		"keywords":     pq.Array(params.Keywords),
		"use_ai":       params.UseAI,
		"created_at":   time.Now(),
	}

	query, args, err := a.db.Insert("searches").Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return "", apperrors.NewInternalError("failed to build search insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return "", apperrors.NewInternalError("failed to create search", err)
	}

	return id, nil
}

// SaveResults records the result set for a search. Saving an empty result
// set is an idempotent no-op.
func (a *SearchAdapter) SaveResults(ctx context.Context, searchID string, listings []entities.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	now := time.Now()
	records := make([]interface{}, 0, len(listings))
	for position, listing := range listings {
		records = append(records, goqu.Record{
			"search_id":     searchID,
			"position":      position,
			"listing_id":    listing.ID,
			"title":         listing.Title,
			"url":           listing.URL,
			"location":      sql.NullString{String: listing.Location, Valid: listing.Location != ""},
			"description":   sql.NullString{String: listing.Description, Valid: listing.Description != ""},
			"price":         nullableFloat(listing.Price),
			"size_m2":       nullableFloat(listing.SizeM2),
			"rooms":         nullableInt(listing.Rooms),
			"price_per_m2":  nullableInt(listing.Derived.PricePerM2),
			"layout_label":  sql.NullString{String: listing.Derived.LayoutLabel, Valid: listing.Derived.LayoutLabel != ""},
			"images":        pq.Array(listing.Images),
			"ai_score":      nullableFloat(listing.AIScore),
			"ai_reason":     sql.NullString{String: listing.AIReason, Valid: listing.AIReason != ""},
			"ai_highlights": pq.Array(listing.AIHighlights),
			"created_at":    now,
		})
	}

	query, args, err := a.db.Insert("search_results").Prepared(true).Rows(records...).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build results insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to save search results", err)
	}

	return nil
}

// GetResults replays the persisted result set of a search in its original
// order.
func (a *SearchAdapter) GetResults(ctx context.Context, searchID string) ([]entities.Listing, error) {
	query, args, err := a.db.From("search_results").
		Prepared(true).
		Select(
			"listing_id", "title", "url", "location", "description",
			"price", "size_m2", "rooms", "price_per_m2", "layout_label",
			"images", "ai_score", "ai_reason", "ai_highlights",
		).
		Where(goqu.Ex{"search_id": searchID}).
		Order(goqu.I("position").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build results query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query search results", err)
	}
	defer rows.Close()

	listings := []entities.Listing{}
	for rows.Next() {
		var (
			listing      entities.Listing
			location     sql.NullString
			description  sql.NullString
			price        sql.NullFloat64
			sizeM2       sql.NullFloat64
			rooms        sql.NullInt64
			pricePerM2   sql.NullInt64
			layoutLabel  sql.NullString
			images       pq.StringArray
			aiScore      sql.NullFloat64
			aiReason     sql.NullString
			aiHighlights pq.StringArray
		)

		if err := rows.Scan(
			&listing.ID, &listing.Title, &listing.URL, &location, &description,
			&price, &sizeM2, &rooms, &pricePerM2, &layoutLabel,
			&images, &aiScore, &aiReason, &aiHighlights,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan search result", err)
		}

		listing.Location = location.String
		listing.Description = description.String
		listing.Images = images
		if price.Valid {
			v := price.Float64
			listing.Price = &v
		}
		if sizeM2.Valid {
			v := sizeM2.Float64
			listing.SizeM2 = &v
			listing.Derived.SizeM2 = &v
		}
		if rooms.Valid {
			v := int(rooms.Int64)
			listing.Rooms = &v
		}
		if pricePerM2.Valid {
			v := int(pricePerM2.Int64)
			listing.Derived.PricePerM2 = &v
		}
		listing.Derived.LayoutLabel = layoutLabel.String
		if aiScore.Valid {
			v := aiScore.Float64
			listing.AIScore = &v
			listing.AIReason = aiReason.String
			listing.AIHighlights = aiHighlights
		}

		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read search results", err)
	}

	return listings, nil
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
