package places

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anatolykoptev/go_yori/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLLM returns a canned response and records the prompt it was given.
type stubLLM struct {
	resp   string
	err    error
	prompt string
	calls  int
}

func (s *stubLLM) Complete(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompt = prompt
	return s.resp, s.err
}

const shibuyaResponse = "```json\n" + `{
  "classification": "places",
  "summary": "A short Tokyo itinerary.",
  "places": [
    {"name": "Shibuya Crossing", "category": "place", "description": "Famous scramble crossing.", "location": "Shibuya, Tokyo, Japan"},
    {"name": "Ichiran Ramen", "category": "restaurant", "description": "Tonkotsu ramen in solo booths.", "location_context": "Shibuya, Tokyo"},
    {"name": "  ", "category": "food"}
  ]
}` + "\n```"

func TestParseAnalysis_Places(t *testing.T) {
	got, err := ParseAnalysis(shibuyaResponse)
	require.NoError(t, err)

	assert.Equal(t, engine.ClassificationPlaces, got.Classification)
	assert.Equal(t, "A short Tokyo itinerary.", got.Summary)
	require.Len(t, got.Places, 2, "nameless places are dropped")

	assert.Equal(t, "Shibuya Crossing", got.Places[0].Name)
	assert.Equal(t, engine.CategoryPlace, got.Places[0].Category)
	assert.Equal(t, "Shibuya, Tokyo, Japan", got.Places[0].LocationContext)

	assert.Equal(t, "Ichiran Ramen", got.Places[1].Name)
	assert.Equal(t, engine.CategoryFood, got.Places[1].Category)
	assert.Equal(t, "Shibuya, Tokyo", got.Places[1].LocationContext)
}

func TestParseAnalysis_HowToHasNoPlaces(t *testing.T) {
	responses := []string{
		`{"classification":"howto","summary":"Packing tips.","places":[]}`,
		`{"classification":"howto","summary":"Packing tips.","places":[{"name":"Narita Airport","category":"place"}]}`,
		`{"classification":"HowTo","summary":"Editing travel videos."}`,
	}
	for _, raw := range responses {
		got, err := ParseAnalysis(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, engine.ClassificationHowTo, got.Classification)
		assert.NotNil(t, got.Places)
		assert.Empty(t, got.Places, raw)
	}
}

func TestParseAnalysis_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no json", "I could not find any places in this video."},
		{"truncated", `{"classification":"places","places":[{"name":"Shibuya`},
		{"wrong types", `{"classification":"places","places":"Shibuya Crossing"}`},
		{"unknown classification", `{"classification":"vlog","places":[]}`},
		{"missing classification", `{"summary":"x","places":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnalysis(tt.raw)
			assert.True(t, errors.Is(err, engine.ErrUnparsableResponse), "err = %v", err)
		})
	}
}

func TestClassifier_Prompt(t *testing.T) {
	llm := &stubLLM{resp: `{"classification":"howto","summary":"s","places":[]}`}
	c := NewClassifier(llm, engine.Config{MaxContentChars: 20})

	_, err := c.Classify(context.Background(), "Tokyo tips", strings.Repeat("word ", 100), true)
	require.NoError(t, err)
	assert.Equal(t, 1, llm.calls)
	assert.Contains(t, llm.prompt, "Title: Tokyo tips")
	assert.Contains(t, llm.prompt, "Transcript:")
	assert.NotContains(t, llm.prompt, strings.Repeat("word ", 10), "text is truncated to the budget")

	_, err = c.Classify(context.Background(), "Caption", "Ichiran Ramen in Shibuya is open all night.", false)
	require.NoError(t, err)
	assert.Contains(t, llm.prompt, "Description:")
}

func TestClassifier_Failures(t *testing.T) {
	c := NewClassifier(nil, engine.Config{})
	assert.False(t, c.Configured())
	_, err := c.Classify(context.Background(), "t", "text", true)
	assert.True(t, errors.Is(err, engine.ErrNotConfigured))

	llm := &stubLLM{err: errors.New("quota exceeded")}
	c = NewClassifier(llm, engine.Config{})
	_, err = c.Classify(context.Background(), "t", "text", true)
	assert.ErrorContains(t, err, "quota exceeded")

	_, err = c.Classify(context.Background(), "t", "   ", true)
	assert.Error(t, err)
}
