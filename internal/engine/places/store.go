package places

import (
	"context"
	"errors"
	"strings"

	"github.com/anatolykoptev/go_yori/internal/engine"
)

// StoredPlace is a geocoded place saved to a trip.
type StoredPlace struct {
	ID        int64  `json:"id"`
	TripID    string `json:"trip_id"`
	SourceURL string `json:"source_url"`
	CreatedAt string `json:"created_at"` // RFC3339
	engine.GeocodedPlace
}

// Store persists geocoded places per trip. Saving the same place from the same
// source twice is a no-op.
type Store interface {
	SavePlaces(ctx context.Context, tripID, sourceURL string, places []engine.GeocodedPlace) (int, error)
	ListPlaces(ctx context.Context, tripID string, limit int) ([]StoredPlace, error)
	Close() error
}

// Listing limits shared by store implementations.
const (
	defaultListLimit = 50
	maxListLimit     = 500
)

var errTripRequired = errors.New("trip_id is required")

func normalizeTrip(tripID string) (string, error) {
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return "", errTripRequired
	}
	return tripID, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// TripPlacesOutput is the trip_places tool result.
type TripPlacesOutput struct {
	TripID string        `json:"trip_id"`
	Count  int           `json:"count"`
	Places []StoredPlace `json:"places"`
}
