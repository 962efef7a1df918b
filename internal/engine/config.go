package engine

import (
	"net/http"
	"time"
)

// Config holds all pipeline configuration, built in main and passed to each
// component constructor. Zero durations and limits fall back to the defaults below.
type Config struct {
	ApifyToken      string
	ApifyBaseURL    string
	TranscriptActor string // primary transcript scraper
	ScraperActor    string // secondary general video scraper
	VideoActor      string // video download provider
	TranscriptWait  time.Duration
	VideoWait       time.Duration

	MinTranscriptChars int // transcripts at or below this length are noise
	MaxContentChars    int // classifier input budget, in runes

	GoogleMapsAPIKey string
	GeocodeBaseURL   string
	GeocodeDelay     time.Duration

	OEmbedYouTubeURL string
	OEmbedTikTokURL  string
	OEmbedRedditURL  string
	RedditBaseURL    string

	HTTPClient    *http.Client
	BrowserClient *BrowserClient // nil = Instagram page scrape uses HTTPClient
}

// Defaults applied by WithDefaults.
const (
	DefaultApifyBaseURL       = "https://api.apify.com"
	DefaultTranscriptActor    = "pintostudio~youtube-transcript-scraper"
	DefaultScraperActor       = "streamers~youtube-scraper"
	DefaultVideoActor         = "epctex~video-downloader"
	DefaultTranscriptWait     = 120 * time.Second
	DefaultVideoWait          = 180 * time.Second
	DefaultMinTranscriptChars = 50
	DefaultMaxContentChars    = 12000
	DefaultGeocodeBaseURL     = "https://maps.googleapis.com"
	DefaultGeocodeDelay       = 200 * time.Millisecond
	DefaultOEmbedYouTubeURL   = "https://www.youtube.com/oembed"
	DefaultOEmbedTikTokURL    = "https://www.tiktok.com/oembed"
	DefaultOEmbedRedditURL    = "https://www.reddit.com/oembed"
	DefaultRedditBaseURL      = "https://www.reddit.com"
)

// WithDefaults returns a copy of c with empty fields set to their defaults.
func (c Config) WithDefaults() Config {
	if c.ApifyBaseURL == "" {
		c.ApifyBaseURL = DefaultApifyBaseURL
	}
	if c.TranscriptActor == "" {
		c.TranscriptActor = DefaultTranscriptActor
	}
	if c.ScraperActor == "" {
		c.ScraperActor = DefaultScraperActor
	}
	if c.VideoActor == "" {
		c.VideoActor = DefaultVideoActor
	}
	if c.TranscriptWait <= 0 {
		c.TranscriptWait = DefaultTranscriptWait
	}
	if c.VideoWait <= 0 {
		c.VideoWait = DefaultVideoWait
	}
	if c.MinTranscriptChars <= 0 {
		c.MinTranscriptChars = DefaultMinTranscriptChars
	}
	if c.MaxContentChars <= 0 {
		c.MaxContentChars = DefaultMaxContentChars
	}
	if c.GeocodeBaseURL == "" {
		c.GeocodeBaseURL = DefaultGeocodeBaseURL
	}
	if c.GeocodeDelay <= 0 {
		c.GeocodeDelay = DefaultGeocodeDelay
	}
	if c.OEmbedYouTubeURL == "" {
		c.OEmbedYouTubeURL = DefaultOEmbedYouTubeURL
	}
	if c.OEmbedTikTokURL == "" {
		c.OEmbedTikTokURL = DefaultOEmbedTikTokURL
	}
	if c.OEmbedRedditURL == "" {
		c.OEmbedRedditURL = DefaultOEmbedRedditURL
	}
	if c.RedditBaseURL == "" {
		c.RedditBaseURL = DefaultRedditBaseURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return c
}
