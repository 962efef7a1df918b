package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anatolykoptev/go_yori/internal/engine"
)

// llmPlace is one place as the model writes it. Both location keys are accepted.
type llmPlace struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	Description     string `json:"description"`
	Location        string `json:"location"`
	LocationContext string `json:"location_context"`
}

// llmAnalysis is the JSON structure expected from the LLM.
type llmAnalysis struct {
	Classification string     `json:"classification"`
	Summary        string     `json:"summary"`
	Places         []llmPlace `json:"places"`
}

// Classifier turns content text into a classification and candidate places.
type Classifier struct {
	llm      engine.LLM
	maxChars int
}

// NewClassifier creates a classifier; input text is capped at cfg.MaxContentChars runes.
func NewClassifier(llm engine.LLM, cfg engine.Config) *Classifier {
	cfg = cfg.WithDefaults()
	return &Classifier{llm: llm, maxChars: cfg.MaxContentChars}
}

// Configured reports whether an LLM is wired in.
func (c *Classifier) Configured() bool {
	return c != nil && c.llm != nil
}

// Classify runs one LLM call over title and text (transcript or description).
// A response without a parsable JSON object is an error; there is no fallback.
func (c *Classifier) Classify(ctx context.Context, title, text string, isTranscript bool) (*engine.ContentAnalysis, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("classifier: %w", engine.ErrNotConfigured)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("classifier: empty text")
	}
	kind := "Description"
	if isTranscript {
		kind = "Transcript"
	}
	prompt := fmt.Sprintf(classifyPrompt, strings.TrimSpace(title), kind, engine.TruncateRunes(text, c.maxChars, "..."))

	raw, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("classifier: llm: %w", err)
	}
	return ParseAnalysis(raw)
}

// ParseAnalysis strips code fences, takes the first top-level JSON object and decodes it.
// howto content always yields an empty place list; nameless places are dropped.
func ParseAnalysis(raw string) (*engine.ContentAnalysis, error) {
	obj := engine.ExtractJSONObject(engine.StripFences(raw))
	if obj == "" {
		return nil, fmt.Errorf("classifier: no JSON object in %q: %w", engine.TruncateRunes(raw, 200, "..."), engine.ErrUnparsableResponse)
	}
	var out llmAnalysis
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return nil, fmt.Errorf("classifier: %v: %w", err, engine.ErrUnparsableResponse)
	}

	analysis := &engine.ContentAnalysis{
		Summary: strings.TrimSpace(out.Summary),
		Places:  []engine.CandidatePlace{},
	}
	switch engine.Classification(strings.ToLower(strings.TrimSpace(out.Classification))) {
	case engine.ClassificationHowTo:
		analysis.Classification = engine.ClassificationHowTo
		return analysis, nil
	case engine.ClassificationPlaces:
		analysis.Classification = engine.ClassificationPlaces
	default:
		return nil, fmt.Errorf("classifier: unknown classification %q: %w", out.Classification, engine.ErrUnparsableResponse)
	}

	for _, p := range out.Places {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		loc := p.Location
		if loc == "" {
			loc = p.LocationContext
		}
		analysis.Places = append(analysis.Places, engine.CandidatePlace{
			Name:            name,
			Category:        engine.NormalizeCategory(p.Category),
			Description:     strings.TrimSpace(p.Description),
			LocationContext: strings.TrimSpace(loc),
		})
	}
	return analysis, nil
}
