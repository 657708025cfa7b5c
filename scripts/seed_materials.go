// seed_materials.go — standalone script to load a product JSON dump into the
// materials table used by the Postgres catalog backend.
//
// Usage:
//
//	go run scripts/seed_materials.go -data /path/to/materials.json -db postgres://localhost/ecoselect
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createTable = `
CREATE TABLE IF NOT EXISTS materials (
	id                          BIGINT PRIMARY KEY,
	manufacturer_name           TEXT NOT NULL DEFAULT '',
	product_name                TEXT NOT NULL DEFAULT '',
	product_code                TEXT NOT NULL DEFAULT '',
	product_description         TEXT NOT NULL DEFAULT '',
	categories                  TEXT[] NOT NULL DEFAULT '{}',
	volatile_organic_compounds  TEXT NOT NULL DEFAULT '',
	substances_of_concern       TEXT NOT NULL DEFAULT '',
	recyclable_percentage       TEXT,
	recycled_content_percentage TEXT,
	reusable                    TEXT NOT NULL DEFAULT '',
	expected_lifespan_years     TEXT,
	independent_lca             TEXT NOT NULL DEFAULT '',
	certifications              JSONB NOT NULL DEFAULT '[]',
	image                       TEXT,
	images                      JSONB NOT NULL DEFAULT '[]'
)`

type material struct {
	ID                 int64  `json:"id"`
	ManufacturerName   string `json:"manufacturer_name"`
	ProductName        string `json:"product_name"`
	ProductCode        string `json:"product_code"`
	ProductDescription string `json:"product_description"`
	ProductCategories  []struct {
		CategoryName string `json:"category_name"`
	} `json:"product_categories"`
	VolatileOrganicCompounds  string          `json:"volatile_organic_compounds"`
	SubstancesOfConcern       string          `json:"substances_of_concern"`
	RecyclablePercentage      json.RawMessage `json:"recyclable_percentage"`
	RecycledContentPercentage json.RawMessage `json:"recycled_content_percentage"`
	Reusable                  string          `json:"reusable"`
	ExpectedLifespanYears     json.RawMessage `json:"expected_lifespan_years"`
	IndependentLCA            string          `json:"independent_lca"`
	Certifications            json.RawMessage `json:"certifications"`
	Image                     string          `json:"image"`
	Images                    json.RawMessage `json:"images"`
}

func main() {
	dataPath := flag.String("data", "data/materials.json", "path to product JSON dump")
	dbURL := flag.String("db", os.Getenv("ECOSELECT_DATABASE_URL"), "Postgres URL")
	dryRun := flag.Bool("dry-run", false, "parse and report without inserting")
	flag.Parse()

	raw, err := os.ReadFile(*dataPath)
	if err != nil {
		log.Fatalf("read dump: %v", err)
	}
	var materials []material
	if err := json.Unmarshal(raw, &materials); err != nil {
		log.Fatalf("parse dump: %v", err)
	}
	fmt.Printf("parsed %d materials from %s\n", len(materials), *dataPath)

	if *dryRun {
		return
	}
	if *dbURL == "" {
		log.Fatal("no database URL: pass -db or set ECOSELECT_DATABASE_URL")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, *dbURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, createTable); err != nil {
		log.Fatalf("create table: %v", err)
	}

	inserted := 0
	for _, m := range materials {
		var cats []string
		for _, c := range m.ProductCategories {
			if c.CategoryName != "" {
				cats = append(cats, c.CategoryName)
			}
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO materials (id, manufacturer_name, product_name, product_code, product_description,
				categories, volatile_organic_compounds, substances_of_concern,
				recyclable_percentage, recycled_content_percentage, reusable, expected_lifespan_years,
				independent_lca, certifications, image, images)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			ON CONFLICT (id) DO UPDATE SET
				manufacturer_name = EXCLUDED.manufacturer_name,
				product_name = EXCLUDED.product_name,
				categories = EXCLUDED.categories,
				certifications = EXCLUDED.certifications`,
			m.ID, m.ManufacturerName, m.ProductName, m.ProductCode, m.ProductDescription,
			cats, m.VolatileOrganicCompounds, m.SubstancesOfConcern,
			rawText(m.RecyclablePercentage), rawText(m.RecycledContentPercentage), m.Reusable, rawText(m.ExpectedLifespanYears),
			m.IndependentLCA, orEmptyArray(m.Certifications), nullable(m.Image), orEmptyArray(m.Images),
		)
		if err != nil {
			log.Fatalf("insert material %d: %v", m.ID, err)
		}
		inserted++
	}
	fmt.Printf("seeded %d materials\n", inserted)
}

// rawText flattens a JSON scalar (string, number, or null) to its text form.
func rawText(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s
	}
	v := string(raw)
	return &v
}

func orEmptyArray(raw json.RawMessage) []byte {
	if len(raw) == 0 || string(raw) == "null" {
		return []byte("[]")
	}
	return raw
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
