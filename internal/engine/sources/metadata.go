package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/anatolykoptev/go_yori/internal/engine"
)

// Lightweight metadata: title, author and thumbnail without any transcript.
// YouTube and TikTok use oEmbed, Reddit its public .json listing (oEmbed as
// fallback), Instagram the OpenGraph tags of the post page.

type oEmbedResp struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type redditListing []struct {
	Data struct {
		Children []struct {
			Data struct {
				Title     string `json:"title"`
				Selftext  string `json:"selftext"`
				Author    string `json:"author"`
				Thumbnail string `json:"thumbnail"`
				Subreddit string `json:"subreddit"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// MetadataFetcher resolves platform-native metadata for a source reference.
type MetadataFetcher struct {
	youtubeOEmbed string
	tiktokOEmbed  string
	redditOEmbed  string
	redditBase    string
	http          *http.Client
	browser       *engine.BrowserClient
}

// NewMetadataFetcher creates a fetcher from the engine configuration.
func NewMetadataFetcher(cfg engine.Config) *MetadataFetcher {
	cfg = cfg.WithDefaults()
	return &MetadataFetcher{
		youtubeOEmbed: cfg.OEmbedYouTubeURL,
		tiktokOEmbed:  cfg.OEmbedTikTokURL,
		redditOEmbed:  cfg.OEmbedRedditURL,
		redditBase:    strings.TrimRight(cfg.RedditBaseURL, "/"),
		http:          cfg.HTTPClient,
		browser:       cfg.BrowserClient,
	}
}

// Fetch returns metadata for ref. It needs no credentials.
func (m *MetadataFetcher) Fetch(ctx context.Context, ref engine.SourceReference) (*engine.ContentPayload, error) {
	engine.IncrMetadataRequests()
	switch ref.Platform {
	case engine.PlatformYouTube:
		return m.oEmbed(ctx, m.youtubeOEmbed, "https://www.youtube.com/watch?v="+ref.ID, "youtube_oembed")
	case engine.PlatformTikTok:
		p, err := m.oEmbed(ctx, m.tiktokOEmbed, ref.URL, "tiktok_oembed")
		if err != nil {
			return nil, err
		}
		// TikTok oEmbed titles are the post caption.
		p.Description = p.Title
		return p, nil
	case engine.PlatformReddit:
		p, err := m.redditPost(ctx, ref)
		if err == nil {
			return p, nil
		}
		slog.Warn("metadata: reddit listing failed, trying oembed", slog.String("id", ref.ID), slog.Any("error", err))
		return m.oEmbed(ctx, m.redditOEmbed, ref.URL, "reddit_oembed")
	case engine.PlatformInstagram:
		return m.openGraph(ctx, ref.URL)
	}
	return nil, fmt.Errorf("metadata: platform %q: %w", ref.Platform, engine.ErrUnsupportedURL)
}

func (m *MetadataFetcher) oEmbed(ctx context.Context, endpoint, target, source string) (*engine.ContentPayload, error) {
	q := url.Values{"url": {target}, "format": {"json"}}
	body, err := m.get(ctx, endpoint+"?"+q.Encode(), "application/json")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	var oe oEmbedResp
	if err := json.Unmarshal(body, &oe); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", source, err)
	}
	return &engine.ContentPayload{
		Title:        oe.Title,
		Author:       oe.AuthorName,
		ThumbnailURL: oe.ThumbnailURL,
		Source:       source,
	}, nil
}

func (m *MetadataFetcher) redditPost(ctx context.Context, ref engine.SourceReference) (*engine.ContentPayload, error) {
	body, err := m.get(ctx, fmt.Sprintf("%s/comments/%s.json?raw_json=1", m.redditBase, url.PathEscape(ref.ID)), "application/json")
	if err != nil {
		return nil, err
	}
	var listing redditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}
	if len(listing) == 0 || len(listing[0].Data.Children) == 0 {
		return nil, errors.New("empty listing")
	}
	post := listing[0].Data.Children[0].Data
	p := &engine.ContentPayload{
		Title:       post.Title,
		Author:      post.Author,
		Description: engine.CollapseWhitespace(post.Selftext),
		Source:      "reddit_json",
	}
	if strings.HasPrefix(post.Thumbnail, "http") {
		p.ThumbnailURL = post.Thumbnail
	}
	return p, nil
}

// openGraph scrapes og:* meta tags from the page. Uses the browser client when available.
func (m *MetadataFetcher) openGraph(ctx context.Context, pageURL string) (*engine.ContentPayload, error) {
	var body []byte
	if m.browser != nil {
		data, _, status, err := m.browser.Do(http.MethodGet, pageURL, engine.ChromeHeaders(), nil)
		if err != nil {
			return nil, fmt.Errorf("opengraph: %w", err)
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("opengraph: status %d", status)
		}
		body = data
	} else {
		data, err := m.get(ctx, pageURL, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		if err != nil {
			return nil, fmt.Errorf("opengraph: %w", err)
		}
		body = data
	}
	return parseOpenGraph(body)
}

func parseOpenGraph(body []byte) (*engine.ContentPayload, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("opengraph: parse: %w", err)
	}
	meta := func(prop string) string {
		v, _ := doc.Find(fmt.Sprintf(`meta[property="%s"]`, prop)).First().Attr("content")
		if v == "" {
			v, _ = doc.Find(fmt.Sprintf(`meta[name="%s"]`, prop)).First().Attr("content")
		}
		return strings.TrimSpace(v)
	}
	p := &engine.ContentPayload{
		Title:        meta("og:title"),
		Description:  engine.CollapseWhitespace(meta("og:description")),
		ThumbnailURL: meta("og:image"),
		Source:       "opengraph",
	}
	if p.Title == "" {
		p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if p.Title == "" && p.Description == "" && p.ThumbnailURL == "" {
		return nil, errors.New("opengraph: no metadata tags")
	}
	return p, nil
}

func (m *MetadataFetcher) get(ctx context.Context, target, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", engine.RandomUserAgent())
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
}
