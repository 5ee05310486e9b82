package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/realityscout/backend/internal/domain/entities"
	"github.com/realityscout/backend/internal/domain/repositories"
	"github.com/realityscout/backend/internal/infrastructure/clients/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockAdapter(t *testing.T) (repositories.SearchRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSearchAdapter(postgres.NewClientWithDB(db)), mock
}

func TestCreateSearch_InsertsAndReturnsID(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`INSERT INTO "searches"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	priceM2Max := 100000
	id, err := adapter.CreateSearch(context.Background(), entities.SearchParams{
		City:       "Praha",
		PriceM2Max: &priceM2Max,
		Keywords:   []string{"balkon"},
		UseAI:      true,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSearch_ExecErrorWraps(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`INSERT INTO "searches"`).
		WillReturnError(assert.AnError)

	_, err := adapter.CreateSearch(context.Background(), entities.SearchParams{City: "Praha"})
	assert.Error(t, err)
}

func TestSaveResults_EmptyIsNoOp(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	// No expectations: nothing may touch the database.
	err := adapter.SaveResults(context.Background(), "search-1", nil)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveResults_InsertsAllRows(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	mock.ExpectExec(`INSERT INTO "search_results"`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	price := 4500000.0
	size := 55.0
	rooms := 2
	ppm2 := 81818

	first := entities.Listing{
		ID:     "a",
		Title:  "Byt 2+kk",
		URL:    "https://example.com/a",
		Price:  &price,
		SizeM2: &size,
		Rooms:  &rooms,
	}
	first.Derived.PricePerM2 = &ppm2
	first.Derived.LayoutLabel = "2+kk"

	second := entities.Listing{ID: "b", Title: "Untitled listing", URL: "about:blank"}

	err := adapter.SaveResults(context.Background(), "search-1", []entities.Listing{first, second})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetResults_RebuildsListings(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	columns := []string{
		"listing_id", "title", "url", "location", "description",
		"price", "size_m2", "rooms", "price_per_m2", "layout_label",
		"images", "ai_score", "ai_reason", "ai_highlights",
	}
	rows := sqlmock.NewRows(columns).
		AddRow("a", "Byt 2+kk", "https://example.com/a", "Praha 3", "Cena 4500000 Kc",
			4500000.0, 55.0, 2, 81818, "2+kk",
			pq.StringArray{"img1"}, 80.0, "good value", pq.StringArray{"balcony"}).
		AddRow("b", "Untitled listing", "about:blank", nil, nil,
			nil, nil, nil, nil, nil,
			pq.StringArray{}, nil, nil, pq.StringArray{})

	mock.ExpectQuery(`SELECT .+ FROM "search_results"`).
		WithArgs("search-1").
		WillReturnRows(rows)

	listings, err := adapter.GetResults(context.Background(), "search-1")

	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "a", listings[0].ID)
	assert.Equal(t, "Praha 3", listings[0].Location)
	require.NotNil(t, listings[0].Price)
	assert.Equal(t, 4500000.0, *listings[0].Price)
	require.NotNil(t, listings[0].Derived.PricePerM2)
	assert.Equal(t, 81818, *listings[0].Derived.PricePerM2)
	assert.Equal(t, "2+kk", listings[0].Derived.LayoutLabel)
	require.NotNil(t, listings[0].AIScore)
	assert.Equal(t, 80.0, *listings[0].AIScore)

	assert.Equal(t, "b", listings[1].ID)
	assert.Nil(t, listings[1].Price)
	assert.Nil(t, listings[1].Rooms)
	assert.Nil(t, listings[1].AIScore)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetResults_EmptySet(t *testing.T) {
	adapter, mock := newMockAdapter(t)

	columns := []string{
		"listing_id", "title", "url", "location", "description",
		"price", "size_m2", "rooms", "price_per_m2", "layout_label",
		"images", "ai_score", "ai_reason", "ai_highlights",
	}
	mock.ExpectQuery(`SELECT .+ FROM "search_results"`).
		WithArgs("search-1").
		WillReturnRows(sqlmock.NewRows(columns))

	listings, err := adapter.GetResults(context.Background(), "search-1")

	require.NoError(t, err)
	assert.Empty(t, listings)
	assert.NotNil(t, listings)
}
