package yoriserver

import (
	"context"

	"github.com/anatolykoptev/go_yori/internal/engine"
	"github.com/anatolykoptev/go_yori/internal/toolutil"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerDownloadVideo(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "download_video",
		Description: "Resolve a lowest-quality downloadable MP4 URL for a shared video link, with title, duration and file size when the provider reports them. Requires APIFY_TOKEN. found=false means the provider returned no media URL.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.VideoURLInput) (*mcp.CallToolResult, engine.VideoOutput, error) {
		u, err := toolutil.NormURL(input.URL)
		if err != nil {
			return nil, engine.VideoOutput{}, err
		}

		asset, err := deps.Pipeline.DownloadVideo(ctx, u)
		if err != nil {
			return nil, engine.VideoOutput{}, err
		}
		return nil, engine.VideoOutput{URL: u, Found: asset != nil, Video: asset}, nil
	})
}
