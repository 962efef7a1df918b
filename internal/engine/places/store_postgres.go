package places

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/anatolykoptev/go_yori/internal/engine"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// PostgresStore keeps trip places in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgresStore creates a pgx pool and runs schema migrations.
func ConnectPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("places postgres connected", slog.String("addr", config.ConnConfig.Host))
	return s, nil
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	entries, err := schemaFS.ReadDir("schema")
	if err != nil {
		return fmt.Errorf("read schema dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		data, err := schemaFS.ReadFile("schema/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		if _, err := s.pool.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("execute %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// SavePlaces inserts places for a trip and returns how many were new.
func (s *PostgresStore) SavePlaces(ctx context.Context, tripID, sourceURL string, places []engine.GeocodedPlace) (int, error) {
	tripID, err := normalizeTrip(tripID)
	if err != nil {
		return 0, err
	}
	if len(places) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, p := range places {
		batch.Queue(
			`INSERT INTO trip_places
			 (trip_id, source_url, name, category, description, location_context,
			  latitude, longitude, formatted_address, place_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 ON CONFLICT (trip_id, source_url, name) DO NOTHING`,
			tripID, sourceURL, p.Name, string(p.Category), p.Description, p.LocationContext,
			p.Latitude, p.Longitude, p.FormattedAddress, p.PlaceID,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	saved := 0
	for _, p := range places {
		tag, err := br.Exec()
		if err != nil {
			return saved, fmt.Errorf("places: insert %q: %w", p.Name, err)
		}
		saved += int(tag.RowsAffected())
	}
	return saved, nil
}

// ListPlaces returns the most recently saved places of a trip.
func (s *PostgresStore) ListPlaces(ctx context.Context, tripID string, limit int) ([]StoredPlace, error) {
	tripID, err := normalizeTrip(tripID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, trip_id, source_url, name, category, description, location_context,
		        latitude, longitude, formatted_address, place_id, created_at
		 FROM trip_places WHERE trip_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		tripID, clampLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("places: list: %w", err)
	}
	defer rows.Close()

	var out []StoredPlace
	for rows.Next() {
		var sp StoredPlace
		var category string
		var createdAt time.Time
		if err := rows.Scan(&sp.ID, &sp.TripID, &sp.SourceURL, &sp.Name, &category, &sp.Description,
			&sp.LocationContext, &sp.Latitude, &sp.Longitude, &sp.FormattedAddress, &sp.PlaceID, &createdAt); err != nil {
			return nil, fmt.Errorf("places: scan: %w", err)
		}
		sp.Category = engine.Category(category)
		sp.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, sp)
	}
	return out, rows.Err()
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
