package sources

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/anatolykoptev/go_yori/internal/engine"
)

// Transcript resolution.
// Primary:   dedicated transcript scraper (Apify actor)
// Secondary: general video scraper with subtitles (independent Apify actor)
// Fallback:  platform-native metadata, no transcript

// TranscriptProvider is one adapter in the transcript fallback chain.
// TryExtract returns (nil, nil) when the provider has nothing for ref.
type TranscriptProvider interface {
	Name() string
	Configured() bool
	Supports(p engine.Platform) bool
	TryExtract(ctx context.Context, ref engine.SourceReference) (*engine.ContentPayload, error)
}

// MetadataSource returns lightweight metadata for ref.
type MetadataSource interface {
	Fetch(ctx context.Context, ref engine.SourceReference) (*engine.ContentPayload, error)
}

// urlAliasInput carries the target URL under every key the scrapers are known to read.
func urlAliasInput(rawURL string, extra map[string]any) map[string]any {
	in := map[string]any{
		"startUrls": []map[string]string{{"url": rawURL}},
		"urls":      []string{rawURL},
		"videoUrls": []string{rawURL},
		"videoUrl":  rawURL,
	}
	for k, v := range extra {
		in[k] = v
	}
	return in
}

// ApifyProvider is a transcript provider backed by one Apify actor.
type ApifyProvider struct {
	name       string
	client     *ApifyClient
	actor      string
	wait       time.Duration
	platforms  []engine.Platform
	input      map[string]any
	transcript []TextStrategy
	// metadata key aliases
	titleKeys       []string
	authorKeys      []string
	thumbnailKeys   []string
	descriptionKeys []string
}

// NewApifyTranscriptProvider is the primary provider: a dedicated transcript scraper.
func NewApifyTranscriptProvider(client *ApifyClient, cfg engine.Config) *ApifyProvider {
	cfg = cfg.WithDefaults()
	return &ApifyProvider{
		name:          "apify_transcript",
		client:        client,
		actor:         cfg.TranscriptActor,
		wait:          cfg.TranscriptWait,
		platforms:     []engine.Platform{engine.PlatformYouTube},
		transcript:    transcriptStrategies,
		titleKeys:     []string{"title", "videoTitle"},
		authorKeys:    []string{"channelName", "channel", "author"},
		thumbnailKeys: []string{"thumbnailUrl", "thumbnail"},
	}
}

// NewApifyScraperProvider is the secondary provider: a general video scraper asked for subtitles.
// Its "text" field is the video description, so it is not a transcript alias here.
func NewApifyScraperProvider(client *ApifyClient, cfg engine.Config) *ApifyProvider {
	cfg = cfg.WithDefaults()
	return &ApifyProvider{
		name:      "apify_scraper",
		client:    client,
		actor:     cfg.ScraperActor,
		wait:      cfg.TranscriptWait,
		platforms: []engine.Platform{engine.PlatformYouTube},
		input: map[string]any{
			"maxResults":        1,
			"downloadSubtitles": true,
			"subtitlesFormat":   "plaintext",
			"subtitlesLanguage": "any",
		},
		transcript: []TextStrategy{
			FieldText("subtitles"),
			FieldText("captions"),
			FieldText("transcript"),
		},
		titleKeys:       []string{"title"},
		authorKeys:      []string{"channelName", "channel", "author"},
		thumbnailKeys:   []string{"thumbnailUrl", "thumbnail"},
		descriptionKeys: []string{"text", "description"},
	}
}

func (p *ApifyProvider) Name() string     { return p.name }
func (p *ApifyProvider) Configured() bool { return p.client.Configured() }

func (p *ApifyProvider) Supports(platform engine.Platform) bool {
	return slices.Contains(p.platforms, platform)
}

// TryExtract runs the actor once. Items are read in order; some actors emit one
// item per segment, so transcript text from every item is joined.
func (p *ApifyProvider) TryExtract(ctx context.Context, ref engine.SourceReference) (*engine.ContentPayload, error) {
	items, err := p.client.RunActor(ctx, p.actor, urlAliasInput(ref.URL, p.input), p.wait)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		if text, _ := FirstText(item, p.transcript); text != "" {
			parts = append(parts, text)
		}
	}

	first := items[0]
	return &engine.ContentPayload{
		Title:        FirstString(first, p.titleKeys...),
		Author:       FirstString(first, p.authorKeys...),
		ThumbnailURL: FirstString(first, p.thumbnailKeys...),
		Description:  engine.CollapseWhitespace(FirstString(first, p.descriptionKeys...)),
		Transcript:   engine.CollapseWhitespace(strings.Join(parts, " ")),
		Source:       p.name,
	}, nil
}

// TranscriptResolver walks the provider chain, then falls back to metadata.
type TranscriptResolver struct {
	providers []TranscriptProvider
	metadata  MetadataSource
	minChars  int
}

// NewTranscriptResolver builds the default chain: transcript scraper, then video scraper.
func NewTranscriptResolver(cfg engine.Config, client *ApifyClient, metadata MetadataSource) *TranscriptResolver {
	cfg = cfg.WithDefaults()
	return NewTranscriptResolverWith(cfg.MinTranscriptChars, metadata,
		NewApifyTranscriptProvider(client, cfg),
		NewApifyScraperProvider(client, cfg),
	)
}

// NewTranscriptResolverWith builds a resolver over an explicit provider order.
func NewTranscriptResolverWith(minChars int, metadata MetadataSource, providers ...TranscriptProvider) *TranscriptResolver {
	if minChars <= 0 {
		minChars = engine.DefaultMinTranscriptChars
	}
	return &TranscriptResolver{providers: providers, metadata: metadata, minChars: minChars}
}

// MinChars is the transcript usability threshold.
func (r *TranscriptResolver) MinChars() int { return r.minChars }

// Configured reports whether any provider in the chain has credentials.
func (r *TranscriptResolver) Configured() bool {
	for _, p := range r.providers {
		if p.Configured() {
			return true
		}
	}
	return false
}

// Resolve returns the first usable transcript for rawURL, or metadata without a
// transcript when every provider comes back without one. Only an unrecognized URL is an error;
// the result is nil when even metadata is unavailable.
func (r *TranscriptResolver) Resolve(ctx context.Context, rawURL string) (*engine.ContentPayload, error) {
	ref, err := ParseSource(rawURL)
	if err != nil {
		return nil, err
	}
	if p := r.ResolveTranscript(ctx, ref); p != nil {
		return p, nil
	}
	return r.FetchMetadata(ctx, ref), nil
}

// ResolveTranscript tries each provider once, in order, and stops at the first
// transcript longer than the threshold. Shorter transcripts do not stop the chain,
// but when no provider clears the threshold the longest non-empty one is returned
// rather than nothing. Provider errors are logged and absorbed.
func (r *TranscriptResolver) ResolveTranscript(ctx context.Context, ref engine.SourceReference) *engine.ContentPayload {
	engine.IncrTranscriptRequests()
	var short *engine.ContentPayload
	for _, p := range r.providers {
		if !p.Supports(ref.Platform) {
			continue
		}
		if !p.Configured() {
			slog.Debug("transcript: provider not configured", slog.String("provider", p.Name()))
			continue
		}
		payload, err := p.TryExtract(ctx, ref)
		if err != nil {
			engine.IncrProviderErrors()
			slog.Warn("transcript: provider failed, trying next",
				slog.String("provider", p.Name()), slog.String("url", ref.URL), slog.Any("error", err))
			continue
		}
		if !payload.HasTranscript(r.minChars) {
			n := payload.TranscriptChars()
			if n > short.TranscriptChars() {
				short = payload
			}
			slog.Info("transcript: no usable transcript, trying next",
				slog.String("provider", p.Name()), slog.Int("chars", n))
			continue
		}
		engine.IncrTranscriptHits()
		return payload
	}
	if short != nil {
		slog.Info("transcript: keeping short transcript",
			slog.String("provider", short.Source), slog.Int("chars", short.TranscriptChars()))
		engine.IncrTranscriptHits()
	}
	return short
}

// FetchMetadata returns lightweight metadata, or nil when the metadata call fails.
func (r *TranscriptResolver) FetchMetadata(ctx context.Context, ref engine.SourceReference) *engine.ContentPayload {
	if r.metadata == nil {
		return nil
	}
	meta, err := r.metadata.Fetch(ctx, ref)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			engine.IncrProviderErrors()
		}
		slog.Warn("metadata: fetch failed", slog.String("url", ref.URL), slog.Any("error", err))
		return nil
	}
	return meta
}
