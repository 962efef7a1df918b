package places

import (
	"context"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_yori/internal/engine"
	"golang.org/x/time/rate"
)

// PlaceGeocoder resolves one candidate; (nil, nil) means the provider found nothing.
type PlaceGeocoder interface {
	Configured() bool
	Geocode(ctx context.Context, c engine.CandidatePlace) (*engine.GeocodedPlace, error)
}

// BatchGeocoder geocodes candidates one by one, spacing calls with a limiter.
type BatchGeocoder struct {
	geocoder PlaceGeocoder
	delay    time.Duration
}

// NewBatchGeocoder wraps g; calls are at least delay apart within one batch.
func NewBatchGeocoder(g PlaceGeocoder, delay time.Duration) *BatchGeocoder {
	if delay <= 0 {
		delay = engine.DefaultGeocodeDelay
	}
	return &BatchGeocoder{geocoder: g, delay: delay}
}

// Configured reports whether the underlying geocoder has credentials.
func (b *BatchGeocoder) Configured() bool {
	return b != nil && b.geocoder != nil && b.geocoder.Configured()
}

// GeocodeAll returns a slice aligned with candidates: nil where that candidate
// could not be resolved. One failure never affects the others.
func (b *BatchGeocoder) GeocodeAll(ctx context.Context, candidates []engine.CandidatePlace) []*engine.GeocodedPlace {
	out := make([]*engine.GeocodedPlace, len(candidates))
	if !b.Configured() {
		return out
	}
	// Fresh limiter per batch: runs share no state.
	limiter := rate.NewLimiter(rate.Every(b.delay), 1)
	for i, c := range candidates {
		if err := limiter.Wait(ctx); err != nil {
			slog.Warn("geocode: batch aborted", slog.Int("remaining", len(candidates)-i), slog.Any("error", err))
			break
		}
		place, err := b.geocoder.Geocode(ctx, c)
		if err != nil {
			engine.IncrGeocodeMisses()
			slog.Warn("geocode: candidate failed", slog.String("name", c.Name), slog.Any("error", err))
			continue
		}
		if place == nil {
			engine.IncrGeocodeMisses()
			slog.Info("geocode: no match", slog.String("name", c.Name), slog.String("location", c.LocationContext))
			continue
		}
		out[i] = place
	}
	return out
}

// Resolved drops the nil entries of a GeocodeAll result.
func Resolved(results []*engine.GeocodedPlace) []engine.GeocodedPlace {
	out := make([]engine.GeocodedPlace, 0, len(results))
	for _, p := range results {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
