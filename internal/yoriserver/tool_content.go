package yoriserver

import (
	"context"
	"log/slog"

	"github.com/anatolykoptev/go_yori/internal/engine"
	"github.com/anatolykoptev/go_yori/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerVideoContent(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name: "get_video_content",
		Description: "Extract places from a shared link (YouTube, Instagram, TikTok, Reddit). Returns kind=transcript with the classified and geocoded places, " +
			"kind=video with a downloadable asset when no transcript exists (analyse it, then call extract_places), or kind=metadata with whatever the platform exposes. " +
			"Pass trip_id to save geocoded places to that trip.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.VideoContentInput) (*mcp.CallToolResult, engine.VideoContentOutput, error) {
		out, err := videoContent(ctx, deps, input)
		return nil, out, err
	})
}

// videoContent serves a cached result per URL and saves places when a trip is given,
// including on cache hits so one link can feed several trips.
func videoContent(ctx context.Context, deps Deps, input engine.VideoContentInput) (engine.VideoContentOutput, error) {
	u, err := toolutil.NormURL(input.URL)
	if err != nil {
		return engine.VideoContentOutput{}, err
	}

	var out engine.VideoContentOutput
	cacheKey := engine.CacheKey("get_video_content", u)
	if res, ok := toolutil.CacheLoadJSON[engine.PipelineResult](ctx, cacheKey); ok {
		out.PipelineResult = res
		out.Cached = true
	} else {
		res, err := deps.Pipeline.GetVideoContent(ctx, u)
		if err != nil {
			return engine.VideoContentOutput{}, err
		}
		out.PipelineResult = *res
		if cacheable(res) {
			toolutil.CacheStoreJSON(ctx, cacheKey, *res)
		}
	}

	if input.TripID == "" || len(out.Places) == 0 {
		return out, nil
	}
	if deps.Store == nil {
		slog.Warn("get_video_content: trip_id given but no place store configured", slog.String("trip_id", input.TripID))
		return out, nil
	}
	saved, err := deps.Store.SavePlaces(ctx, input.TripID, out.SourceURL, out.Places)
	if err != nil {
		return engine.VideoContentOutput{}, err
	}
	out.SavedPlaces = saved
	return out, nil
}

// cacheable reports whether res is worth keeping for the cache TTL. Metadata
// results and transcripts left unanalyzed can come from a transient provider
// failure, so they are recomputed on the next call.
func cacheable(res *engine.PipelineResult) bool {
	switch res.Kind {
	case engine.ResultVideo:
		return true
	case engine.ResultTranscript:
		return res.Analysis != nil
	}
	return false
}
