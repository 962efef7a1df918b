package places

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/anatolykoptev/go_yori/internal/engine"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the default local place store.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultSQLitePath is ~/.go_yori/places.db.
func DefaultSQLitePath() string {
	return filepath.Join(os.Getenv("HOME"), ".go_yori", "places.db")
}

// OpenSQLiteStore opens (or creates) the SQLite database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("places: mkdir %s: %w", filepath.Dir(path), err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("places: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer
	if err := initSQLiteSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("places: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initSQLiteSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS trip_places (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		trip_id           TEXT NOT NULL,
		source_url        TEXT NOT NULL,
		name              TEXT NOT NULL,
		category          TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		location_context  TEXT NOT NULL DEFAULT '',
		latitude          REAL NOT NULL,
		longitude         REAL NOT NULL,
		formatted_address TEXT NOT NULL DEFAULT '',
		place_id          TEXT NOT NULL DEFAULT '',
		created_at        TEXT NOT NULL,
		UNIQUE (trip_id, source_url, name)
	)`)
	return err
}

// SavePlaces inserts places for a trip and returns how many were new.
func (s *SQLiteStore) SavePlaces(ctx context.Context, tripID, sourceURL string, places []engine.GeocodedPlace) (int, error) {
	tripID, err := normalizeTrip(tripID)
	if err != nil {
		return 0, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("places: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	now := time.Now().UTC().Format(time.RFC3339)
	saved := 0
	for _, p := range places {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO trip_places
			 (trip_id, source_url, name, category, description, location_context,
			  latitude, longitude, formatted_address, place_id, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			tripID, sourceURL, p.Name, string(p.Category), p.Description, p.LocationContext,
			p.Latitude, p.Longitude, p.FormattedAddress, p.PlaceID, now,
		)
		if err != nil {
			return 0, fmt.Errorf("places: insert %q: %w", p.Name, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			saved++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("places: commit: %w", err)
	}
	return saved, nil
}

// ListPlaces returns the most recently saved places of a trip.
func (s *SQLiteStore) ListPlaces(ctx context.Context, tripID string, limit int) ([]StoredPlace, error) {
	tripID, err := normalizeTrip(tripID)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trip_id, source_url, name, category, description, location_context,
		        latitude, longitude, formatted_address, place_id, created_at
		 FROM trip_places WHERE trip_id = ? ORDER BY id DESC LIMIT ?`,
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
		if err := rows.Scan(&sp.ID, &sp.TripID, &sp.SourceURL, &sp.Name, &category, &sp.Description,
			&sp.LocationContext, &sp.Latitude, &sp.Longitude, &sp.FormattedAddress, &sp.PlaceID, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("places: scan: %w", err)
		}
		sp.Category = engine.Category(category)
		out = append(out, sp)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
