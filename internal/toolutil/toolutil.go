// Package toolutil provides shared helper functions for go_yori MCP tools.
package toolutil

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/anatolykoptev/go_yori/internal/engine"
)

// ErrURLRequired is returned by tools called without a url argument.
var ErrURLRequired = errors.New("url is required")

// NormURL trims a tool url argument and rejects an empty one.
func NormURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", ErrURLRequired
	}
	return u, nil
}

// CacheLoadJSON tries to load a cached value of type T from the engine cache.
// Returns the decoded value and true on hit; zero value and false on miss or decode error.
func CacheLoadJSON[T any](ctx context.Context, key string) (T, bool) {
	cached, ok := engine.CacheGet(ctx, key)
	if !ok {
		var zero T
		return zero, false
	}
	var out T
	if err := json.Unmarshal(cached, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// CacheStoreJSON marshals v and stores it in the engine cache.
func CacheStoreJSON[T any](ctx context.Context, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	engine.CacheSet(ctx, key, data)
}
