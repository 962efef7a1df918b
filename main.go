// go_yori is an MCP server that extracts places from shared social video links.
//
// Resolves YouTube, Instagram, TikTok and Reddit links into transcripts,
// video assets or metadata, classifies the content with an LLM and geocodes
// the places it mentions. Runs as HTTP MCP server or stdio transport.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-kit/llm"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/anatolykoptev/go_yori/internal/engine"
	"github.com/anatolykoptev/go_yori/internal/engine/places"
	"github.com/anatolykoptev/go_yori/internal/engine/sources"
	"github.com/anatolykoptev/go_yori/internal/yoriserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	deps := initEngine()
	if deps.Store != nil {
		defer deps.Store.Close()
	}

	slog.Info("starting go_yori",
		slog.String("port", mcpPort),
		slog.Bool("configured", deps.Pipeline.IsConfigured()),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_yori",
		Version: version,
	}, nil)

	n := yoriserver.RegisterTools(server, deps)
	slog.Info("tools registered", slog.Int("count", n))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_yori",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() yoriserver.Deps {
	c := engine.Config{
		ApifyToken:         env.Str("APIFY_TOKEN", ""),
		ApifyBaseURL:       env.Str("APIFY_BASE_URL", engine.DefaultApifyBaseURL),
		TranscriptActor:    env.Str("APIFY_TRANSCRIPT_ACTOR", engine.DefaultTranscriptActor),
		ScraperActor:       env.Str("APIFY_SCRAPER_ACTOR", engine.DefaultScraperActor),
		VideoActor:         env.Str("APIFY_VIDEO_ACTOR", engine.DefaultVideoActor),
		TranscriptWait:     env.Duration("TRANSCRIPT_WAIT", engine.DefaultTranscriptWait),
		VideoWait:          env.Duration("VIDEO_WAIT", engine.DefaultVideoWait),
		MinTranscriptChars: env.Int("MIN_TRANSCRIPT_CHARS", engine.DefaultMinTranscriptChars),
		MaxContentChars:    env.Int("MAX_CONTENT_CHARS", engine.DefaultMaxContentChars),
		GoogleMapsAPIKey:   env.Str("GOOGLE_MAPS_API_KEY", ""),
		GeocodeDelay:       env.Duration("GEOCODE_DELAY", engine.DefaultGeocodeDelay),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	var opts []stealth.ClientOption
	opts = append(opts, stealth.WithTimeout(15))

	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Error("stealth client init failed", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("stealth browser client initialized")
	}

	var model engine.LLM
	if key := env.Str("LLM_API_KEY", ""); key != "" {
		temperature := env.Float("LLM_TEMPERATURE", 0.2)
		maxTokens := env.Int("LLM_MAX_TOKENS", 4096)
		client := llm.NewClient(
			env.Str("LLM_API_BASE", "https://generativelanguage.googleapis.com/v1beta/openai"),
			key,
			env.Str("LLM_MODEL", "gemini-2.5-flash"),
			llm.WithFallbackKeys(env.List("LLM_API_KEY_FALLBACKS", "")),
			llm.WithMaxTokens(maxTokens),
			llm.WithTemperature(temperature),
			llm.WithHTTPClient(&http.Client{Timeout: 60 * time.Second}),
		)
		model = engine.NewLLM(client, temperature, maxTokens)
	} else {
		slog.Warn("LLM_API_KEY not set, content classification disabled")
	}

	apify := sources.NewApifyClient(c)
	pipeline := places.NewPipeline(
		sources.NewTranscriptResolver(c, apify, sources.NewMetadataFetcher(c)),
		sources.NewVideoResolver(c, apify),
		places.NewClassifier(model, c),
		places.NewBatchGeocoder(sources.NewGeocoder(c), c.GeocodeDelay),
	)

	cacheTTL := env.Duration("CACHE_TTL", 6*time.Hour)
	engine.InitCache(env.Str("REDIS_URL", ""),
		cacheTTL,
		env.Int("CACHE_MAX_ENTRIES", 1000),
		env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
	)

	return yoriserver.Deps{Pipeline: pipeline, Store: openStore()}
}

// openStore picks Postgres when DATABASE_URL is set, SQLite otherwise.
// A store that fails to open disables trip persistence.
func openStore() places.Store {
	if dsn := env.Str("DATABASE_URL", ""); dsn != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		pg, err := places.ConnectPostgresStore(ctx, dsn)
		if err != nil {
			slog.Warn("place store: postgres init failed", slog.Any("error", err))
			return nil
		}
		return pg
	}

	path := env.Str("PLACES_DB", places.DefaultSQLitePath())
	lite, err := places.OpenSQLiteStore(path)
	if err != nil {
		slog.Warn("place store: sqlite init failed", slog.String("path", path), slog.Any("error", err))
		return nil
	}
	slog.Info("place store: sqlite ready", slog.String("path", path))
	return lite
}
