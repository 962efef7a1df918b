package engine

import (
	"strings"
	"unicode/utf8"
)

// Platform identifies the social network a shared link belongs to.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformReddit    Platform = "reddit"
	PlatformTikTok    Platform = "tiktok"
)

// SourceReference is a shared URL resolved to its platform and platform-native id.
type SourceReference struct {
	Platform Platform `json:"platform"`
	URL      string   `json:"url"`
	ID       string   `json:"id"`
}

// ContentPayload is the normalized text and metadata extracted for a shared link.
// Every field is optional; Source names the provider that produced it.
type ContentPayload struct {
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Transcript   string `json:"transcript,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Description  string `json:"description,omitempty"`
	Source       string `json:"source,omitempty"`
}

// TranscriptChars is the transcript length in characters, not bytes.
func (p *ContentPayload) TranscriptChars() int {
	if p == nil {
		return 0
	}
	return utf8.RuneCountInString(p.Transcript)
}

// HasTranscript reports whether the transcript is longer than minChars characters.
func (p *ContentPayload) HasTranscript(minChars int) bool {
	return p.TranscriptChars() > minChars
}

// HasText reports whether the transcript or the description is longer than minChars characters.
func (p *ContentPayload) HasText(minChars int) bool {
	return p != nil && (p.TranscriptChars() > minChars || utf8.RuneCountInString(p.Description) > minChars)
}

// Text returns the transcript, falling back to the description.
func (p *ContentPayload) Text() string {
	if p == nil {
		return ""
	}
	if p.Transcript != "" {
		return p.Transcript
	}
	return p.Description
}

// MergeMetadata fills empty title, author and thumbnail fields from meta.
func (p *ContentPayload) MergeMetadata(meta *ContentPayload) {
	if p == nil || meta == nil {
		return
	}
	if p.Title == "" {
		p.Title = meta.Title
	}
	if p.Author == "" {
		p.Author = meta.Author
	}
	if p.ThumbnailURL == "" {
		p.ThumbnailURL = meta.ThumbnailURL
	}
	if p.Description == "" {
		p.Description = meta.Description
	}
}

// Category is the kind of a candidate place.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryAccommodation Category = "accommodation"
	CategoryPlace         Category = "place"
	CategoryShopping      Category = "shopping"
	CategoryActivity      Category = "activity"
	CategoryTip           Category = "tip"
)

// NormalizeCategory maps free-form model output onto the fixed category set.
// Unknown values become CategoryPlace.
func NormalizeCategory(s string) Category {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryFood, CategoryAccommodation, CategoryPlace, CategoryShopping, CategoryActivity, CategoryTip:
		return c
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "restaurant", "cafe", "bar", "drink", "drinks":
		return CategoryFood
	case "hotel", "hostel", "stay", "lodging":
		return CategoryAccommodation
	case "shop", "store", "market":
		return CategoryShopping
	case "experience", "tour":
		return CategoryActivity
	}
	return CategoryPlace
}

// CandidatePlace is a named location extracted by the classifier, not yet geocoded.
type CandidatePlace struct {
	Name            string   `json:"name"`
	Category        Category `json:"category"`
	Description     string   `json:"description,omitempty"`
	LocationContext string   `json:"location_context,omitempty"`
}

// GeocodedPlace is a candidate with resolved coordinates.
type GeocodedPlace struct {
	CandidatePlace
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceID          string  `json:"place_id,omitempty"`
}

// Classification is the video intent decided by the classifier.
type Classification string

const (
	ClassificationPlaces Classification = "places"
	ClassificationHowTo  Classification = "howto"
)

// ContentAnalysis is the parsed classifier output.
type ContentAnalysis struct {
	Classification Classification   `json:"classification"`
	Summary        string           `json:"summary"`
	Places         []CandidatePlace `json:"places"`
}

// VideoAsset is a downloadable media file for further analysis.
type VideoAsset struct {
	DownloadURL     string  `json:"download_url"`
	Title           string  `json:"title,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	FileSize        int64   `json:"file_size,omitempty"`
}

// ResultKind discriminates PipelineResult variants.
type ResultKind string

const (
	ResultTranscript ResultKind = "transcript"
	ResultVideo      ResultKind = "video"
	ResultMetadata   ResultKind = "metadata"
)

// PipelineResult is the terminal output of one content resolution run.
//
// Kind decides which fields are meaningful: transcript results carry Content
// with a transcript, Analysis and Places; video results carry Video; metadata
// results carry Content and, when the description was usable, Analysis and Places.
type PipelineResult struct {
	Kind      ResultKind       `json:"kind"`
	SourceURL string           `json:"source_url"`
	Reference SourceReference  `json:"reference"`
	Content   *ContentPayload  `json:"content,omitempty"`
	Analysis  *ContentAnalysis `json:"analysis,omitempty"`
	Places    []GeocodedPlace  `json:"places,omitempty"`
	Video     *VideoAsset      `json:"video,omitempty"`
}
