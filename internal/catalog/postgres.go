package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"destination-recommender/internal/models"

	"github.com/lib/pq"
)

const postgresColumns = "id, name, country, description, image, " +
	"climate, activities, budget_range, best_seasons, cuisine, accommodation_types, " +
	"latitude, longitude, popularity_score, seasonal_trends, destination_vector"

// PostgresSource reads the catalog table. Tag arrays, seasonal trends and
// the vector are JSONB columns.
type PostgresSource struct {
	db    *sql.DB
	table string
}

func NewPostgresSource(db *sql.DB, table string) *PostgresSource {
	if table == "" {
		table = "destinations"
	}
	return &PostgresSource{db: db, table: table}
}

func (s *PostgresSource) Name() string { return "postgres" }

func (s *PostgresSource) query() string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY sort_order, id", postgresColumns, pq.QuoteIdentifier(s.table))
}

func (s *PostgresSource) Load(ctx context.Context) ([]models.Destination, error) {
	rows, err := s.db.QueryContext(ctx, s.query())
	if err != nil {
		return nil, loadFailed(s.Name(), fmt.Errorf("query %s: %w", s.table, err))
	}
	defer rows.Close()

	items := []models.Destination{}
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, loadFailed(s.Name(), err)
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, loadFailed(s.Name(), fmt.Errorf("iterate %s: %w", s.table, err))
	}
	return items, nil
}

func scanDestination(rows *sql.Rows) (models.Destination, error) {
	var (
		d                                                            models.Destination
		image                                                        sql.NullString
		climate, activities, seasons, cuisine, accommodation, trends []byte
		vector                                                       []byte
	)
	err := rows.Scan(
		&d.ID, &d.Name, &d.Country, &d.Description, &image,
		&climate, &activities, &d.BudgetRange, &seasons, &cuisine, &accommodation,
		&d.Coordinates[0], &d.Coordinates[1], &d.PopularityScore, &trends, &vector,
	)
	if err != nil {
		return d, fmt.Errorf("scan destination: %w", err)
	}
	d.Image = image.String

	columns := []struct {
		name string
		raw  []byte
		dst  interface{}
	}{
		{"climate", climate, &d.Climate},
		{"activities", activities, &d.Activities},
		{"best_seasons", seasons, &d.BestSeasons},
		{"cuisine", cuisine, &d.Cuisine},
		{"accommodation_types", accommodation, &d.AccommodationTypes},
		{"seasonal_trends", trends, &d.SeasonalTrends},
		{"destination_vector", vector, &d.DestinationVector},
	}
	for _, c := range columns {
		if len(c.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(c.raw, c.dst); err != nil {
			return d, fmt.Errorf("destination %s: decode %s: %w", d.ID, c.name, err)
		}
	}
	return d, nil
}
