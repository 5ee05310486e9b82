package main

import (
	"context"
	"log"
	"os"

	"github.com/realityscout/backend/internal/adapters/database"
	"github.com/realityscout/backend/internal/adapters/search"
	"github.com/realityscout/backend/internal/application/services"
	"github.com/realityscout/backend/internal/domain/entities"
	"github.com/realityscout/backend/internal/infrastructure/clients/postgres"
	"github.com/realityscout/backend/internal/infrastructure/clients/typesense"
	"github.com/realityscout/backend/pkg/config"
)

// Seeds a demo search with normalized listings so the API has data to serve
// without running a real scrape.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				search_results,
				searches
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	raw := []entities.RawListing{
		{
			"id":          "demo-1",
			"title":       "Prodej bytu 2+kk, 55 m2, Praha 3 - Žižkov",
			"url":         "https://example.com/listing/demo-1",
			"locality":    "Praha 3 - Žižkov",
			"price":       float64(6900000),
			"description": "Světlý byt 2+kk po rekonstrukci, 55 m2, balkon, sklep.",
		},
		{
			"id":          "demo-2",
			"title":       "Prodej bytu 3+kk, 78 m2, Praha 6",
			"url":         "https://example.com/listing/demo-2",
			"locality":    "Praha 6 - Dejvice",
			"price":       float64(10500000),
			"description": "Prostorný byt 3+kk v cihlovém domě, 78 m2, garážové stání.",
		},
		{
			"id":          "demo-3",
			"title":       "Prodej bytu 1+kk, Praha 9",
			"url":         "https://example.com/listing/demo-3",
			"locality":    "Praha 9 - Vysočany",
			"description": "Novostavba 1+kk, 32 m2. Cena 4200000 Kč.",
		},
	}

	normalizer := services.NewNormalizer()
	listings := make([]entities.Listing, 0, len(raw))
	for _, r := range services.Deduplicate(raw) {
		listings = append(listings, normalizer.Normalize(r))
	}

	repo := database.NewSearchAdapter(pgClient)
	searchID, err := repo.CreateSearch(ctx, entities.SearchParams{City: "Praha"})
	if err != nil {
		log.Fatalf("Failed to create search: %v", err)
	}
	if err := repo.SaveResults(ctx, searchID, listings); err != nil {
		log.Fatalf("Failed to save results: %v", err)
	}
	log.Printf("Seeded search %s with %d listings", searchID, len(listings))

	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Typesense unavailable, skipping index: %v", err)
		return
	}
	if err := tsClient.InitSchema(ctx); err != nil {
		log.Printf("Failed to initialize Typesense schema, skipping index: %v", err)
		return
	}
	if err := search.NewTypesenseAdapter(tsClient).Index(ctx, searchID, listings); err != nil {
		log.Printf("Failed to index listings: %v", err)
		return
	}
	log.Println("Indexed seeded listings")
}
