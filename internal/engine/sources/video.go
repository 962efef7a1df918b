package sources

import (
	"context"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_yori/internal/engine"
)

// Keys a video-download dataset item may carry its media URL under, in priority order.
var videoURLKeys = []string{"videoUrl", "downloadUrl", "url", "video_url", "mediaUrl", "media_url", "fileUrl", "file_url"}

var (
	videoTitleKeys    = []string{"title", "videoTitle", "name"}
	videoDurationKeys = []string{"duration", "durationSeconds", "duration_seconds", "lengthSeconds"}
	videoSizeKeys     = []string{"fileSize", "file_size", "size", "filesize"}
)

// VideoResolver requests a downloadable, lowest-quality media URL for a shared link.
type VideoResolver struct {
	client *ApifyClient
	actor  string
	wait   time.Duration
}

// NewVideoResolver creates a resolver from the engine configuration.
func NewVideoResolver(cfg engine.Config, client *ApifyClient) *VideoResolver {
	cfg = cfg.WithDefaults()
	return &VideoResolver{client: client, actor: cfg.VideoActor, wait: cfg.VideoWait}
}

// Configured reports whether the download provider has credentials.
func (v *VideoResolver) Configured() bool {
	return v.client.Configured()
}

// Resolve returns the video asset for rawURL.
// It fails on an unrecognized URL or missing credentials; provider failures,
// an empty dataset or an item without a media URL all yield (nil, nil).
func (v *VideoResolver) Resolve(ctx context.Context, rawURL string) (*engine.VideoAsset, error) {
	ref, err := ParseSource(rawURL)
	if err != nil {
		return nil, err
	}
	if !v.Configured() {
		return nil, engine.ErrNotConfigured
	}
	return v.ResolveRef(ctx, ref), nil
}

// ResolveRef is Resolve for an already classified source.
func (v *VideoResolver) ResolveRef(ctx context.Context, ref engine.SourceReference) *engine.VideoAsset {
	engine.IncrVideoRequests()
	input := urlAliasInput(ref.URL, map[string]any{
		"quality": "lowest",
		"format":  "mp4",
	})
	items, err := v.client.RunActor(ctx, v.actor, input, v.wait)
	if err != nil {
		engine.IncrProviderErrors()
		slog.Warn("video: provider failed", slog.String("url", ref.URL), slog.Any("error", err))
		return nil
	}
	if len(items) == 0 {
		slog.Info("video: empty dataset", slog.String("url", ref.URL))
		return nil
	}
	asset := parseVideoItem(items[0])
	if asset == nil {
		slog.Info("video: no media url in result", slog.String("url", ref.URL))
		return nil
	}
	engine.IncrVideoHits()
	return asset
}

func parseVideoItem(item Item) *engine.VideoAsset {
	u := FirstString(item, videoURLKeys...)
	if u == "" {
		return nil
	}
	asset := &engine.VideoAsset{
		DownloadURL: u,
		Title:       FirstString(item, videoTitleKeys...),
	}
	if d, ok := FirstNumber(item, videoDurationKeys...); ok {
		asset.DurationSeconds = d
	}
	if s, ok := FirstNumber(item, videoSizeKeys...); ok {
		asset.FileSize = int64(s)
	}
	return asset
}
