package sources

import (
	"strconv"
	"strings"

	"github.com/anatolykoptev/go_yori/internal/engine"
)

// Provider datasets have no fixed schema. Each value of interest is looked up through an
// ordered list of named strategies; the first non-empty result wins.

// TextStrategy extracts normalized text from one dataset item.
type TextStrategy struct {
	Name    string
	Extract func(item Item) string
}

// FieldText builds a strategy reading key as text. The value may be a string,
// a list of strings, or a list of {text} segments.
func FieldText(key string) TextStrategy {
	return TextStrategy{
		Name: key,
		Extract: func(item Item) string {
			return engine.CollapseWhitespace(flattenText(item[key]))
		},
	}
}

// FirstText runs strategies in order and returns the first non-empty result and its name.
func FirstText(item Item, strategies []TextStrategy) (text, name string) {
	for _, s := range strategies {
		if t := s.Extract(item); t != "" {
			return t, s.Name
		}
	}
	return "", ""
}

// transcriptStrategies is the common alias order for transcript-bearing fields.
var transcriptStrategies = []TextStrategy{
	FieldText("transcript"),
	FieldText("subtitles"),
	FieldText("text"),
	FieldText("captions"),
}

// flattenText turns a string or segment list into space-joined text.
func flattenText(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, seg := range val {
			if t := segmentText(seg); t != "" {
				parts = append(parts, t)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}

// segmentText reads one subtitle segment: a string, or an object with a text-like field.
func segmentText(seg any) string {
	switch s := seg.(type) {
	case string:
		return strings.TrimSpace(s)
	case map[string]any:
		for _, k := range []string{"text", "plaintext", "srt"} {
			if t, ok := s[k].(string); ok && strings.TrimSpace(t) != "" {
				return strings.TrimSpace(t)
			}
		}
	}
	return ""
}

// FirstString returns the first non-empty string value among keys.
func FirstString(item Item, keys ...string) string {
	for _, k := range keys {
		if s, ok := item[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// FirstNumber returns the first numeric value among keys. Numeric strings are parsed.
func FirstNumber(item Item, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := item[k].(type) {
		case float64:
			return v, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
