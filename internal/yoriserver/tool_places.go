package yoriserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_yori/internal/engine"
	"github.com/anatolykoptev/go_yori/internal/engine/places"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerExtractPlaces(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "extract_places",
		Description: "Classify text you already have (a transcript, caption or video analysis) as places or howto and extract named places with category and location hints. Set geocode=true to resolve coordinates.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.ExtractPlacesInput) (*mcp.CallToolResult, engine.ExtractPlacesOutput, error) {
		if strings.TrimSpace(input.Text) == "" {
			return nil, engine.ExtractPlacesOutput{}, errors.New("text is required")
		}
		analysis, resolved, err := deps.Pipeline.ExtractPlaces(ctx, input.Title, input.Text, input.Geocode)
		if err != nil {
			return nil, engine.ExtractPlacesOutput{}, err
		}
		return nil, engine.ExtractPlacesOutput{Analysis: analysis, Places: resolved}, nil
	})
}

func registerTripPlaces(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "trip_places",
		Description: "List geocoded places saved to a trip by get_video_content, most recent first.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input engine.TripPlacesInput) (*mcp.CallToolResult, *places.TripPlacesOutput, error) {
		out, err := tripPlaces(ctx, deps, input)
		if err != nil {
			return nil, nil, err
		}
		return nil, out, nil
	})
}

func tripPlaces(ctx context.Context, deps Deps, input engine.TripPlacesInput) (*places.TripPlacesOutput, error) {
	if strings.TrimSpace(input.TripID) == "" {
		return nil, errors.New("trip_id is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("place store: %w", engine.ErrNotConfigured)
	}
	list, err := deps.Store.ListPlaces(ctx, input.TripID, input.Limit)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []places.StoredPlace{}
	}
	return &places.TripPlacesOutput{TripID: input.TripID, Count: len(list), Places: list}, nil
}
