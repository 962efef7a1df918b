package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anatolykoptev/go_yori/internal/engine"
	"googlemaps.github.io/maps"
)

// Geocoder resolves a candidate place to coordinates via the Google Geocoding API.
type Geocoder struct {
	client *maps.Client // nil when no API key is configured
}

// NewGeocoder creates a geocoder from the engine configuration.
// Without an API key the geocoder is unconfigured and every call fails with ErrNotConfigured.
func NewGeocoder(cfg engine.Config) *Geocoder {
	cfg = cfg.WithDefaults()
	if cfg.GoogleMapsAPIKey == "" {
		return &Geocoder{}
	}
	// maps.WithHTTPClient wraps the client's transport in place, so it gets its own copy.
	hc := &http.Client{Timeout: cfg.HTTPClient.Timeout, Transport: cfg.HTTPClient.Transport}
	client, err := maps.NewClient(
		maps.WithAPIKey(cfg.GoogleMapsAPIKey),
		maps.WithBaseURL(strings.TrimRight(cfg.GeocodeBaseURL, "/")),
		maps.WithHTTPClient(hc),
	)
	if err != nil {
		slog.Warn("geocoder: client init failed", slog.Any("error", err))
		return &Geocoder{}
	}
	return &Geocoder{client: client}
}

// Configured reports whether an API key is present.
func (g *Geocoder) Configured() bool {
	return g != nil && g.client != nil
}

// GeocodeQuery builds the address query: the name, qualified by the location hint when present.
func GeocodeQuery(c engine.CandidatePlace) string {
	name := strings.TrimSpace(c.Name)
	hint := strings.TrimSpace(c.LocationContext)
	if hint == "" || strings.Contains(strings.ToLower(name), strings.ToLower(hint)) {
		return name
	}
	return name + ", " + hint
}

// Geocode resolves one candidate and takes the first result. ZERO_RESULTS yields
// (nil, nil); transport failures and any other non-OK status return an error.
func (g *Geocoder) Geocode(ctx context.Context, c engine.CandidatePlace) (*engine.GeocodedPlace, error) {
	if !g.Configured() {
		return nil, engine.ErrNotConfigured
	}
	engine.IncrGeocodeRequests()

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: GeocodeQuery(c)})
	if err != nil {
		return nil, fmt.Errorf("geocode %q: %w", c.Name, err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	first := results[0]
	return &engine.GeocodedPlace{
		CandidatePlace:   c,
		Latitude:         first.Geometry.Location.Lat,
		Longitude:        first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
		PlaceID:          first.PlaceID,
	}, nil
}
