package engine

// MCP tool inputs and outputs.

type VideoURLInput struct {
	URL string `json:"url" jsonschema:"Shared link: YouTube (watch, youtu.be, shorts, embed, live), Instagram post/reel, TikTok video or Reddit post"`
}

type VideoContentInput struct {
	URL    string `json:"url" jsonschema:"Shared link: YouTube, Instagram, TikTok or Reddit"`
	TripID string `json:"trip_id,omitempty" jsonschema:"Trip to save geocoded places to (optional)"`
}

type ExtractPlacesInput struct {
	Title   string `json:"title,omitempty" jsonschema:"Content title, used as context for the classifier"`
	Text    string `json:"text" jsonschema:"Transcript or description to analyse"`
	Geocode bool   `json:"geocode,omitempty" jsonschema:"Resolve extracted places to coordinates (default: false)"`
}

type TripPlacesInput struct {
	TripID string `json:"trip_id" jsonschema:"Trip ID"`
	Limit  int    `json:"limit,omitempty" jsonschema:"Max places to return (default: 50, max: 500)"`
}

type StatusInput struct{}

type TranscriptOutput struct {
	URL     string          `json:"url"`
	Found   bool            `json:"found"`
	Content *ContentPayload `json:"content,omitempty"`
}

type VideoOutput struct {
	URL   string      `json:"url"`
	Found bool        `json:"found"`
	Video *VideoAsset `json:"video,omitempty"`
}

type VideoContentOutput struct {
	PipelineResult
	Cached      bool `json:"cached,omitempty"`
	SavedPlaces int  `json:"saved_places,omitempty"`
}

type ExtractPlacesOutput struct {
	Analysis *ContentAnalysis `json:"analysis"`
	Places   []GeocodedPlace  `json:"places,omitempty"`
}

type ProviderStatus struct {
	Configured  bool `json:"configured"`
	Transcripts bool `json:"transcripts"`
	Video       bool `json:"video"`
	Classifier  bool `json:"classifier"`
	Geocoder    bool `json:"geocoder"`
	Store       bool `json:"store"`
}
