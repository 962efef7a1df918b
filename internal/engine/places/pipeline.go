package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anatolykoptev/go_yori/internal/engine"
	"github.com/anatolykoptev/go_yori/internal/engine/sources"
)

// Content resolution for one shared link:
//
//	metadata → transcript providers → transcript found:  classify + geocode → transcript result
//	                                → no transcript:     video asset → found:     video result
//	                                                                 → not found: metadata result
//
// Nothing is persisted and no state survives a run.

// TranscriptChain is the ordered transcript provider chain plus its metadata fallback.
type TranscriptChain interface {
	Configured() bool
	MinChars() int
	Resolve(ctx context.Context, rawURL string) (*engine.ContentPayload, error)
	ResolveTranscript(ctx context.Context, ref engine.SourceReference) *engine.ContentPayload
	FetchMetadata(ctx context.Context, ref engine.SourceReference) *engine.ContentPayload
}

// VideoSource resolves a downloadable media asset; nil means none was found.
type VideoSource interface {
	Configured() bool
	Resolve(ctx context.Context, rawURL string) (*engine.VideoAsset, error)
	ResolveRef(ctx context.Context, ref engine.SourceReference) *engine.VideoAsset
}

// ContentClassifier classifies text into candidate places.
type ContentClassifier interface {
	Configured() bool
	Classify(ctx context.Context, title, text string, isTranscript bool) (*engine.ContentAnalysis, error)
}

// Geocoding resolves a batch of candidates, aligned with the input.
type Geocoding interface {
	Configured() bool
	GeocodeAll(ctx context.Context, candidates []engine.CandidatePlace) []*engine.GeocodedPlace
}

// Pipeline orchestrates one content resolution run.
type Pipeline struct {
	transcripts TranscriptChain
	video       VideoSource
	classifier  ContentClassifier
	geocoder    Geocoding
}

// NewPipeline wires the stages. Any stage may be nil and is then skipped,
// except transcripts, which also supplies metadata.
func NewPipeline(transcripts TranscriptChain, video VideoSource, classifier ContentClassifier, geocoder Geocoding) *Pipeline {
	return &Pipeline{transcripts: transcripts, video: video, classifier: classifier, geocoder: geocoder}
}

// Status reports which stages have credentials.
type Status struct {
	Transcripts bool `json:"transcripts"`
	Video       bool `json:"video"`
	Classifier  bool `json:"classifier"`
	Geocoder    bool `json:"geocoder"`
}

// Status reports credential presence per stage without any network call.
func (p *Pipeline) Status() Status {
	return Status{
		Transcripts: p.transcripts != nil && p.transcripts.Configured(),
		Video:       p.video != nil && p.video.Configured(),
		Classifier:  p.classifier != nil && p.classifier.Configured(),
		Geocoder:    p.geocoder != nil && p.geocoder.Configured(),
	}
}

// IsConfigured reports whether any content provider can be reached.
func (p *Pipeline) IsConfigured() bool {
	s := p.Status()
	return s.Transcripts || s.Video
}

// GetVideoTranscript runs the transcript chain with its metadata fallback.
// A nil payload with a nil error means nothing was found.
func (p *Pipeline) GetVideoTranscript(ctx context.Context, rawURL string) (*engine.ContentPayload, error) {
	return p.transcripts.Resolve(ctx, rawURL)
}

// DownloadVideo resolves a low-quality downloadable asset for rawURL.
func (p *Pipeline) DownloadVideo(ctx context.Context, rawURL string) (*engine.VideoAsset, error) {
	if p.video == nil {
		if _, err := sources.ParseSource(rawURL); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("video: %w", engine.ErrNotConfigured)
	}
	return p.video.Resolve(ctx, rawURL)
}

// GetVideoContent resolves rawURL to a PipelineResult. "Nothing found" is a
// metadata result, not an error; errors are limited to an unrecognized URL and
// an unparsable classifier response. A classifier outage yields a result without analysis.
func (p *Pipeline) GetVideoContent(ctx context.Context, rawURL string) (*engine.PipelineResult, error) {
	ref, err := sources.ParseSource(rawURL)
	if err != nil {
		return nil, err
	}
	engine.IncrContentRequests()

	var res *engine.PipelineResult
	err = engine.TrackOperation(ctx, "get_video_content", 30*time.Second, func(ctx context.Context) error {
		var runErr error
		res, runErr = p.run(ctx, ref)
		return runErr
	})
	if err != nil {
		return nil, err
	}
	engine.IncrResult(res.Kind)
	slog.Info("content: resolved",
		slog.String("url", ref.URL),
		slog.String("kind", string(res.Kind)),
		slog.Int("places", len(res.Places)))
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, ref engine.SourceReference) (*engine.PipelineResult, error) {
	meta := p.transcripts.FetchMetadata(ctx, ref)

	if payload := p.transcripts.ResolveTranscript(ctx, ref); payload != nil {
		payload.MergeMetadata(meta)
		res := &engine.PipelineResult{
			Kind:      engine.ResultTranscript,
			SourceURL: ref.URL,
			Reference: ref,
			Content:   payload,
		}
		if err := p.analyze(ctx, res, payload.Title, payload.Transcript, true); err != nil {
			return nil, err
		}
		return res, nil
	}

	if p.video != nil && p.video.Configured() {
		if asset := p.video.ResolveRef(ctx, ref); asset != nil {
			if asset.Title == "" && meta != nil {
				asset.Title = meta.Title
			}
			return &engine.PipelineResult{
				Kind:      engine.ResultVideo,
				SourceURL: ref.URL,
				Reference: ref,
				Video:     asset,
			}, nil
		}
	} else {
		slog.Debug("content: video provider not configured", slog.String("url", ref.URL))
	}

	if meta == nil {
		meta = &engine.ContentPayload{}
	}
	res := &engine.PipelineResult{
		Kind:      engine.ResultMetadata,
		SourceURL: ref.URL,
		Reference: ref,
		Content:   meta,
	}
	if meta.HasText(p.transcripts.MinChars()) {
		if err := p.analyze(ctx, res, meta.Title, meta.Text(), false); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// analyze classifies text and geocodes the candidates into res.
// A missing or unreachable classifier leaves res without analysis; only an
// unparsable model response is returned as an error.
func (p *Pipeline) analyze(ctx context.Context, res *engine.PipelineResult, title, text string, isTranscript bool) error {
	if p.classifier == nil || !p.classifier.Configured() {
		slog.Warn("content: classifier not configured, skipping analysis", slog.String("url", res.SourceURL))
		return nil
	}
	analysis, err := p.classifier.Classify(ctx, title, text, isTranscript)
	if errors.Is(err, engine.ErrUnparsableResponse) {
		return fmt.Errorf("classify %s: %w", res.SourceURL, err)
	}
	if err != nil {
		engine.IncrProviderErrors()
		slog.Warn("content: classifier failed, returning unanalyzed result",
			slog.String("url", res.SourceURL), slog.Any("error", err))
		return nil
	}
	res.Analysis = analysis
	res.Places = p.geocode(ctx, analysis.Places)
	return nil
}

func (p *Pipeline) geocode(ctx context.Context, candidates []engine.CandidatePlace) []engine.GeocodedPlace {
	if len(candidates) == 0 || p.geocoder == nil || !p.geocoder.Configured() {
		return nil
	}
	return Resolved(p.geocoder.GeocodeAll(ctx, candidates))
}

// ExtractPlaces classifies caller-supplied text and optionally geocodes the result.
func (p *Pipeline) ExtractPlaces(ctx context.Context, title, text string, geocode bool) (*engine.ContentAnalysis, []engine.GeocodedPlace, error) {
	if p.classifier == nil || !p.classifier.Configured() {
		return nil, nil, fmt.Errorf("classifier: %w", engine.ErrNotConfigured)
	}
	analysis, err := p.classifier.Classify(ctx, title, text, false)
	if err != nil {
		return nil, nil, err
	}
	if !geocode {
		return analysis, nil, nil
	}
	return analysis, p.geocode(ctx, analysis.Places), nil
}
