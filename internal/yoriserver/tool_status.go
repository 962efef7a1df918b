package yoriserver

import (
	"context"

	"github.com/anatolykoptev/go_yori/internal/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerExtractorStatus(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "extractor_status",
		Description: "Report which providers have credentials configured. Makes no network calls.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ engine.StatusInput) (*mcp.CallToolResult, engine.ProviderStatus, error) {
		return nil, providerStatus(deps), nil
	})
}

func providerStatus(deps Deps) engine.ProviderStatus {
	s := deps.Pipeline.Status()
	return engine.ProviderStatus{
		Configured:  deps.Pipeline.IsConfigured(),
		Transcripts: s.Transcripts,
		Video:       s.Video,
		Classifier:  s.Classifier,
		Geocoder:    s.Geocoder,
		Store:       deps.Store != nil,
	}
}
