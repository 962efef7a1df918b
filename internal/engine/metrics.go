package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	ContentRequests     atomic.Int64
	TranscriptRequests  atomic.Int64
	TranscriptHits      atomic.Int64
	ProviderErrors      atomic.Int64
	MetadataRequests    atomic.Int64
	VideoRequests       atomic.Int64
	VideoHits           atomic.Int64
	LLMCalls            atomic.Int64
	LLMErrors           atomic.Int64
	GeocodeRequests     atomic.Int64
	GeocodeMisses       atomic.Int64
	ResultsTranscript   atomic.Int64
	ResultsVideo        atomic.Int64
	ResultsMetadataOnly atomic.Int64
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"content_requests":      metrics.ContentRequests.Load(),
		"transcript_requests":   metrics.TranscriptRequests.Load(),
		"transcript_hits":       metrics.TranscriptHits.Load(),
		"provider_errors":       metrics.ProviderErrors.Load(),
		"metadata_requests":     metrics.MetadataRequests.Load(),
		"video_requests":        metrics.VideoRequests.Load(),
		"video_hits":            metrics.VideoHits.Load(),
		"llm_calls":             metrics.LLMCalls.Load(),
		"llm_errors":            metrics.LLMErrors.Load(),
		"geocode_requests":      metrics.GeocodeRequests.Load(),
		"geocode_misses":        metrics.GeocodeMisses.Load(),
		"results_transcript":    metrics.ResultsTranscript.Load(),
		"results_video":         metrics.ResultsVideo.Load(),
		"results_metadata_only": metrics.ResultsMetadataOnly.Load(),
		"cache_hits":            hits,
		"cache_misses":          misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"content_requests",
		"transcript_requests", "transcript_hits", "provider_errors",
		"metadata_requests",
		"video_requests", "video_hits",
		"llm_calls", "llm_errors",
		"geocode_requests", "geocode_misses",
		"results_transcript", "results_video", "results_metadata_only",
		"cache_hits", "cache_misses",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// Incrementors for sources/ and places/ sub-packages.
func IncrContentRequests()    { metrics.ContentRequests.Add(1) }
func IncrTranscriptRequests() { metrics.TranscriptRequests.Add(1) }
func IncrTranscriptHits()     { metrics.TranscriptHits.Add(1) }
func IncrProviderErrors()     { metrics.ProviderErrors.Add(1) }
func IncrMetadataRequests()   { metrics.MetadataRequests.Add(1) }
func IncrVideoRequests()      { metrics.VideoRequests.Add(1) }
func IncrVideoHits()          { metrics.VideoHits.Add(1) }
func IncrGeocodeRequests()    { metrics.GeocodeRequests.Add(1) }
func IncrGeocodeMisses()      { metrics.GeocodeMisses.Add(1) }

// IncrResult counts a terminal pipeline outcome by kind.
func IncrResult(kind ResultKind) {
	switch kind {
	case ResultTranscript:
		metrics.ResultsTranscript.Add(1)
	case ResultVideo:
		metrics.ResultsVideo.Add(1)
	case ResultMetadata:
		metrics.ResultsMetadataOnly.Add(1)
	}
}

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, threshold time.Duration, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > threshold {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
