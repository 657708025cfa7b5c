package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore serves materials from a Postgres table, for deployments where
// the dataset outgrows a single JSON file.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const materialColumns = `id, manufacturer_name, product_name, product_code, product_description,
	categories,
	volatile_organic_compounds, substances_of_concern,
	recyclable_percentage, recycled_content_percentage, reusable, expected_lifespan_years,
	independent_lca, certifications,
	image, images`

func (s *PostgresStore) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT unnest(categories) AS name
		FROM materials
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cats = append(cats, name)
	}
	return cats, rows.Err()
}

func (s *PostgresStore) List(ctx context.Context, category string) ([]*Material, error) {
	query := `SELECT ` + materialColumns + ` FROM materials ORDER BY id`
	args := []interface{}{}
	if category != "" {
		query = `SELECT ` + materialColumns + ` FROM materials WHERE $1 = ANY(categories) ORDER BY id`
		args = append(args, category)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*Material, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+materialColumns+` FROM materials WHERE id = $1`, id)
	m, err := scanMaterial(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func scanMaterial(row pgx.Row) (*Material, error) {
	m := &Material{}
	var categories []string
	var recyclable, recycled, lifespan *string
	var certsJSON, imagesJSON []byte
	var image *string

	err := row.Scan(
		&m.ID, &m.ManufacturerName, &m.ProductName, &m.ProductCode, &m.ProductDescription,
		&categories,
		&m.VolatileOrganicCompounds, &m.SubstancesOfConcern,
		&recyclable, &recycled, &m.Reusable, &lifespan,
		&m.IndependentLCA, &certsJSON,
		&image, &imagesJSON,
	)
	if err != nil {
		return nil, err
	}

	for _, name := range categories {
		m.ProductCategories = append(m.ProductCategories, CategoryRef{CategoryName: name})
	}
	if recyclable != nil {
		m.RecyclablePercentage = FlexValue(*recyclable)
	}
	if recycled != nil {
		m.RecycledContentPercentage = FlexValue(*recycled)
	}
	if lifespan != nil {
		m.ExpectedLifespanYears = FlexValue(*lifespan)
	}
	if image != nil {
		m.Image = *image
	}
	if certsJSON != nil {
		_ = json.Unmarshal(certsJSON, &m.Certifications)
	}
	if imagesJSON != nil {
		_ = json.Unmarshal(imagesJSON, &m.Images)
	}
	return m, nil
}
