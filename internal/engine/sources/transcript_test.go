package sources

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anatolykoptev/go_yori/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVideoURL = "https://www.youtube.com/watch?v=VcuM9JvZrp4"

// countingProvider is a TranscriptProvider stub that records how often it ran.
type countingProvider struct {
	name         string
	payload      *engine.ContentPayload
	err          error
	unconfigured bool
	calls        int
}

func (p *countingProvider) Name() string                  { return p.name }
func (p *countingProvider) Configured() bool              { return !p.unconfigured }
func (p *countingProvider) Supports(engine.Platform) bool { return true }
func (p *countingProvider) TryExtract(context.Context, engine.SourceReference) (*engine.ContentPayload, error) {
	p.calls++
	if p.payload == nil {
		return nil, p.err
	}
	cp := *p.payload
	return &cp, p.err
}

type countingMetadata struct {
	payload *engine.ContentPayload
	err     error
	calls   int
}

func (m *countingMetadata) Fetch(context.Context, engine.SourceReference) (*engine.ContentPayload, error) {
	m.calls++
	if m.payload == nil {
		return nil, m.err
	}
	cp := *m.payload
	return &cp, m.err
}

func transcriptOf(n int) string {
	return strings.Repeat("a", n)
}

func TestResolve_SecondaryAfterEmptyPrimary(t *testing.T) {
	primary := &countingProvider{name: "primary"}
	secondary := &countingProvider{name: "secondary", payload: &engine.ContentPayload{
		Title: "Tokyo in 48 hours", Transcript: "Visit Shibuya Crossing and then have dinner at Ichiran Ramen in Shibuya", Source: "secondary",
	}}
	meta := &countingMetadata{payload: &engine.ContentPayload{Title: "meta"}}

	r := NewTranscriptResolverWith(50, meta, primary, secondary)
	got, err := r.Resolve(context.Background(), testVideoURL)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "secondary", got.Source)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	assert.Equal(t, 0, meta.calls, "metadata must not be fetched after a usable transcript")
}

func TestResolve_MetadataAfterBothEmpty(t *testing.T) {
	primary := &countingProvider{name: "primary", payload: &engine.ContentPayload{}}
	secondary := &countingProvider{name: "secondary"}
	meta := &countingMetadata{payload: &engine.ContentPayload{Title: "Tokyo vlog", Author: "traveller", Source: "youtube_oembed"}}

	r := NewTranscriptResolverWith(50, meta, primary, secondary)
	got, err := r.Resolve(context.Background(), testVideoURL)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "youtube_oembed", got.Source)
	assert.Empty(t, got.Transcript)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	assert.Equal(t, 1, meta.calls)
}

func TestResolve_ProviderErrorFallsThrough(t *testing.T) {
	primary := &countingProvider{name: "primary", err: errors.New("actor timed out")}
	secondary := &countingProvider{name: "secondary", payload: &engine.ContentPayload{Transcript: transcriptOf(60)}}

	r := NewTranscriptResolverWith(50, nil, primary, secondary)
	got, err := r.Resolve(context.Background(), testVideoURL)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Transcript, 60)
}

func TestResolve_NothingAtAll(t *testing.T) {
	meta := &countingMetadata{err: errors.New("oembed 404")}
	r := NewTranscriptResolverWith(50, meta, &countingProvider{name: "primary"})

	got, err := r.Resolve(context.Background(), testVideoURL)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 1, meta.calls)
}

func TestResolveTranscript_Threshold(t *testing.T) {
	tests := []struct {
		chars         int
		secondaryUsed bool
	}{
		{0, true},
		{50, true},
		{51, false},
	}
	for _, tt := range tests {
		primary := &countingProvider{name: "primary", payload: &engine.ContentPayload{Transcript: transcriptOf(tt.chars), Source: "primary"}}
		secondary := &countingProvider{name: "secondary", payload: &engine.ContentPayload{Transcript: transcriptOf(70), Source: "secondary"}}
		r := NewTranscriptResolverWith(50, nil, primary, secondary)
		ref, _ := ParseSource(testVideoURL)

		got := r.ResolveTranscript(context.Background(), ref)
		require.NotNil(t, got)
		if (secondary.calls == 1) != tt.secondaryUsed {
			t.Errorf("%d chars: secondary calls = %d, want used=%v", tt.chars, secondary.calls, tt.secondaryUsed)
		}
		if tt.secondaryUsed && got.Source != "secondary" {
			t.Errorf("%d chars: source = %q, want secondary", tt.chars, got.Source)
		}
	}
}

func TestResolveTranscript_KeepsLongestShort(t *testing.T) {
	primary := &countingProvider{name: "primary", payload: &engine.ContentPayload{Transcript: "Visit Shibuya Crossing", Source: "primary"}}
	secondary := &countingProvider{name: "secondary", payload: &engine.ContentPayload{Transcript: "Visit Shibuya Crossing and Ichiran Ramen", Source: "secondary"}}
	meta := &countingMetadata{payload: &engine.ContentPayload{Title: "meta"}}

	r := NewTranscriptResolverWith(50, meta, primary, secondary)
	got, err := r.Resolve(context.Background(), testVideoURL)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "secondary", got.Source)
	assert.Equal(t, "Visit Shibuya Crossing and Ichiran Ramen", got.Transcript)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
	assert.Equal(t, 0, meta.calls)

	only := &countingProvider{name: "only", payload: &engine.ContentPayload{Transcript: "Ichiran Ramen", Source: "only"}}
	empty := &countingProvider{name: "empty", payload: &engine.ContentPayload{}}
	r = NewTranscriptResolverWith(50, nil, only, empty)
	ref, _ := ParseSource(testVideoURL)
	got = r.ResolveTranscript(context.Background(), ref)
	require.NotNil(t, got)
	assert.Equal(t, "only", got.Source)
}

func TestResolve_SkipsUnconfigured(t *testing.T) {
	primary := &countingProvider{name: "primary", unconfigured: true, payload: &engine.ContentPayload{Transcript: transcriptOf(80)}}
	secondary := &countingProvider{name: "secondary", payload: &engine.ContentPayload{Transcript: transcriptOf(70)}}

	r := NewTranscriptResolverWith(50, nil, primary, secondary)
	assert.True(t, r.Configured())

	got, err := r.Resolve(context.Background(), testVideoURL)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 0, primary.calls)
	assert.Len(t, got.Transcript, 70)
}

func TestResolve_Idempotent(t *testing.T) {
	p := &countingProvider{name: "p", payload: &engine.ContentPayload{
		Title: "Tokyo", Transcript: "Visit Shibuya Crossing and Ichiran Ramen, both are open late at night", Source: "p",
	}}
	r := NewTranscriptResolverWith(50, nil, p)

	first, err := r.Resolve(context.Background(), testVideoURL)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := r.Resolve(context.Background(), testVideoURL)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestResolve_InvalidURL(t *testing.T) {
	p := &countingProvider{name: "p"}
	meta := &countingMetadata{}
	r := NewTranscriptResolverWith(50, meta, p)

	_, err := r.Resolve(context.Background(), "https://example.com/video/1")
	assert.True(t, errors.Is(err, engine.ErrUnsupportedURL))
	assert.Equal(t, 0, p.calls)
	assert.Equal(t, 0, meta.calls)
}

func TestApifyProvider_JoinsItems(t *testing.T) {
	f := &fakeApify{startStatus: "SUCCEEDED", items: `[
		{"title":"Tokyo food tour","channelName":"Eats","thumbnailUrl":"https://i.ytimg.com/t.jpg","transcript":"Visit Shibuya Crossing"},
		{"transcript":"and  Ichiran\nRamen"}
	]`}
	srv := f.server(t)
	cfg := testConfig(srv.URL)

	p := NewApifyTranscriptProvider(NewApifyClient(cfg), cfg)
	assert.True(t, p.Supports(engine.PlatformYouTube))
	assert.False(t, p.Supports(engine.PlatformInstagram))

	ref, err := ParseSource(testVideoURL)
	require.NoError(t, err)
	got, err := p.TryExtract(context.Background(), ref)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Visit Shibuya Crossing and Ichiran Ramen", got.Transcript)
	assert.Equal(t, "Tokyo food tour", got.Title)
	assert.Equal(t, "Eats", got.Author)
	assert.Equal(t, "https://i.ytimg.com/t.jpg", got.ThumbnailURL)
	assert.Equal(t, "apify_transcript", got.Source)
}

func TestApifyProvider_EmptyDataset(t *testing.T) {
	f := &fakeApify{startStatus: "SUCCEEDED", items: `[]`}
	srv := f.server(t)
	cfg := testConfig(srv.URL)

	p := NewApifyScraperProvider(NewApifyClient(cfg), cfg)
	ref, _ := ParseSource(testVideoURL)
	got, err := p.TryExtract(context.Background(), ref)
	require.NoError(t, err)
	assert.Nil(t, got)

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, true, f.input["downloadSubtitles"])
}
