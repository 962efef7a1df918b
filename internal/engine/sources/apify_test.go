package sources

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anatolykoptev/go_yori/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeApify serves the three Apify endpoints used by RunActor.
type fakeApify struct {
	startStatus string // status returned by the run POST
	endStatus   string // status returned by the run GET
	items       string // dataset JSON

	starts atomic.Int32
	polls  atomic.Int32

	mu    sync.Mutex
	input map[string]any
	actor string
	auth  string
}

func (f *fakeApify) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/acts/{actor}/runs", func(w http.ResponseWriter, r *http.Request) {
		f.starts.Add(1)
		f.mu.Lock()
		f.actor = r.PathValue("actor")
		f.auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&f.input)
		f.mu.Unlock()
		writeRun(w, "run-1", f.startStatus)
	})
	mux.HandleFunc("GET /v2/actor-runs/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.polls.Add(1)
		writeRun(w, r.PathValue("id"), f.endStatus)
	})
	mux.HandleFunc("GET /v2/datasets/{id}/items", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "ds-1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.items))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeRun(w http.ResponseWriter, id, status string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]string{"id": id, "status": status, "defaultDatasetId": "ds-1"},
	})
}

func testConfig(baseURL string) engine.Config {
	return engine.Config{
		ApifyToken:     "test-token",
		ApifyBaseURL:   baseURL,
		TranscriptWait: 5 * time.Second,
		VideoWait:      5 * time.Second,
		HTTPClient:     &http.Client{Timeout: 5 * time.Second},
	}
}

func TestRunActor_FinishedOnStart(t *testing.T) {
	f := &fakeApify{startStatus: "SUCCEEDED", items: `[{"transcript":"hello"}]`}
	srv := f.server(t)

	c := NewApifyClient(testConfig(srv.URL))
	items, err := c.RunActor(context.Background(), "pintostudio~youtube-transcript-scraper",
		urlAliasInput("https://youtu.be/VcuM9JvZrp4", nil), 5*time.Second)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "hello", items[0]["transcript"])

	assert.Equal(t, int32(1), f.starts.Load())
	assert.Equal(t, int32(0), f.polls.Load(), "finished run must not be polled")
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, "pintostudio~youtube-transcript-scraper", f.actor)
	assert.Equal(t, "Bearer test-token", f.auth)
	for _, k := range []string{"startUrls", "urls", "videoUrls", "videoUrl"} {
		assert.Contains(t, f.input, k)
	}
	assert.Equal(t, "https://youtu.be/VcuM9JvZrp4", f.input["videoUrl"])
}

func TestRunActor_PollsUntilFinished(t *testing.T) {
	f := &fakeApify{startStatus: "RUNNING", endStatus: "SUCCEEDED", items: `[{"videoUrl":"https://cdn.example/v.mp4"}]`}
	srv := f.server(t)

	c := NewApifyClient(testConfig(srv.URL))
	items, err := c.RunActor(context.Background(), "epctex~video-downloader", map[string]any{}, 5*time.Second)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int32(1), f.polls.Load())
}

func TestRunActor_FailedRun(t *testing.T) {
	f := &fakeApify{startStatus: "FAILED"}
	srv := f.server(t)

	c := NewApifyClient(testConfig(srv.URL))
	_, err := c.RunActor(context.Background(), "actor", map[string]any{}, 5*time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FAILED")
	assert.Contains(t, err.Error(), "run-1")
}

func TestRunActor_NotConfigured(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.ApifyToken = ""
	c := NewApifyClient(cfg)
	assert.False(t, c.Configured())

	_, err := c.RunActor(context.Background(), "actor", nil, time.Second)
	assert.True(t, errors.Is(err, engine.ErrNotConfigured))
}

func TestWaitSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{120 * time.Second, "60"},
		{30 * time.Second, "30"},
		{10 * time.Millisecond, "1"},
	}
	for _, tt := range tests {
		if got := waitSeconds(tt.in); got != tt.want {
			t.Errorf("waitSeconds(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
