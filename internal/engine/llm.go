package engine

import (
	"context"
	"strings"

	"github.com/anatolykoptev/go-kit/llm"
)

// LLM is a single prompt/response text completion endpoint.
type LLM interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// kitLLM adapts a go-kit llm.Client to LLM with the classifier's sampling settings.
type kitLLM struct {
	client      *llm.Client
	temperature float64
	maxTokens   int
}

// NewLLM wraps a go-kit LLM client. Every call is counted in the engine metrics.
func NewLLM(client *llm.Client, temperature float64, maxTokens int) LLM {
	return &kitLLM{client: client, temperature: temperature, maxTokens: maxTokens}
}

func (k *kitLLM) Complete(ctx context.Context, prompt string) (string, error) {
	metrics.LLMCalls.Add(1)
	resp, err := k.client.Complete(ctx, "", prompt,
		llm.WithChatTemperature(k.temperature),
		llm.WithChatMaxTokens(k.maxTokens),
	)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", err
	}
	return resp, nil
}

// StripFences removes markdown code fences from LLM output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the first balanced top-level {...} object in raw.
// Braces inside JSON strings are ignored. Returns "" when no complete object exists.
func ExtractJSONObject(raw string) string {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		c := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}
