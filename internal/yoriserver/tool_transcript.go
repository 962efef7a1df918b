package yoriserver

import (
	"context"

	"github.com/anatolykoptev/go_yori/internal/engine"
	"github.com/anatolykoptev/go_yori/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerVideoTranscript(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_video_transcript",
		Description: "Get the transcript of a shared video link. Tries a dedicated transcript scraper, then a general video scraper, then falls back to title/author/thumbnail metadata. found=false means not even metadata was available.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.VideoURLInput) (*mcp.CallToolResult, engine.TranscriptOutput, error) {
		u, err := toolutil.NormURL(input.URL)
		if err != nil {
			return nil, engine.TranscriptOutput{}, err
		}

		cacheKey := engine.CacheKey("get_video_transcript", u)
		if out, ok := toolutil.CacheLoadJSON[engine.TranscriptOutput](ctx, cacheKey); ok {
			return nil, out, nil
		}

		payload, err := deps.Pipeline.GetVideoTranscript(ctx, u)
		if err != nil {
			return nil, engine.TranscriptOutput{}, err
		}
		out := engine.TranscriptOutput{URL: u, Found: payload != nil, Content: payload}
		if out.Found {
			toolutil.CacheStoreJSON(ctx, cacheKey, out)
		}
		return nil, out, nil
	})
}
