package yoriserver

import (
	"github.com/anatolykoptev/go_yori/internal/engine/places"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Deps are the components the tools call into. Store may be nil.
type Deps struct {
	Pipeline *places.Pipeline
	Store    places.Store
}

// RegisterTools registers the extraction tools on the given MCP server:
// get_video_transcript, download_video, get_video_content, extract_places,
// trip_places, extractor_status. It returns the number of tools registered.
func RegisterTools(server *mcp.Server, deps Deps) int {
	registerVideoTranscript(server, deps)
	registerDownloadVideo(server, deps)
	registerVideoContent(server, deps)
	registerExtractPlaces(server, deps)
	registerTripPlaces(server, deps)
	registerExtractorStatus(server, deps)
	return 6
}
