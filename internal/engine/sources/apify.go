package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go_yori/internal/engine"
	"github.com/cenkalti/backoff/v5"
)

// Apify job API: submit an actor run, wait for it to finish, read its dataset.
// Transcript, scraper and video providers are all thin adapters over RunActor.

// apifyMaxWaitParam is the largest waitForFinish value the API honours per request.
const apifyMaxWaitParam = 60 * time.Second

// requestSlack pads the hard HTTP timeout beyond the requested remote wait.
const requestSlack = 15 * time.Second

// Item is one dataset record. Providers do not share a schema, so records stay untyped.
type Item = map[string]any

type apifyRun struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

type apifyRunResp struct {
	Data apifyRun `json:"data"`
}

// ApifyClient talks to the Apify REST API.
type ApifyClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewApifyClient creates a client from the engine configuration.
// Each request carries its own deadline, so the shared client has no global timeout.
func NewApifyClient(cfg engine.Config) *ApifyClient {
	cfg = cfg.WithDefaults()
	transport := http.DefaultTransport
	if cfg.HTTPClient != nil && cfg.HTTPClient.Transport != nil {
		transport = cfg.HTTPClient.Transport
	}
	return &ApifyClient{
		baseURL: strings.TrimRight(cfg.ApifyBaseURL, "/"),
		token:   cfg.ApifyToken,
		http:    &http.Client{Transport: transport},
	}
}

// Configured reports whether an API token is present.
func (c *ApifyClient) Configured() bool {
	return c != nil && c.token != ""
}

// RunActor starts actorID with input and waits up to wait for it to finish,
// then returns its dataset items. A run that does not succeed within wait is an error.
func (c *ApifyClient) RunActor(ctx context.Context, actorID string, input any, wait time.Duration) ([]Item, error) {
	if !c.Configured() {
		return nil, engine.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, wait+requestSlack)
	defer cancel()
	deadline := time.Now().Add(wait)

	run, err := c.startRun(ctx, actorID, input, wait)
	if err != nil {
		return nil, fmt.Errorf("apify %s: start: %w", actorID, err)
	}

	if !runFinished(run.Status) {
		finished, err := c.awaitRun(ctx, run.ID, deadline)
		if err != nil {
			return nil, fmt.Errorf("apify %s: await %s: %w", actorID, run.ID, err)
		}
		run = finished
	}
	if run.Status != "SUCCEEDED" {
		return nil, fmt.Errorf("apify %s: run %s ended with status %s", actorID, run.ID, run.Status)
	}

	items, err := c.datasetItems(ctx, run.DefaultDatasetID)
	if err != nil {
		return nil, fmt.Errorf("apify %s: dataset: %w", actorID, err)
	}
	slog.Debug("apify: run finished", slog.String("actor", actorID), slog.String("run", run.ID), slog.Int("items", len(items)))
	return items, nil
}

func (c *ApifyClient) startRun(ctx context.Context, actorID string, input any, wait time.Duration) (apifyRun, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return apifyRun{}, err
	}
	q := url.Values{"waitForFinish": {waitSeconds(wait)}}
	endpoint := fmt.Sprintf("%s/v2/acts/%s/runs?%s", c.baseURL, url.PathEscape(actorID), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return apifyRun{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doRun(req)
}

// awaitRun polls the run status with exponential backoff until it finishes or deadline passes.
func (c *ApifyClient) awaitRun(ctx context.Context, runID string, deadline time.Time) (apifyRun, error) {
	operation := func() (apifyRun, error) {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return apifyRun{}, backoff.Permanent(errors.New("wait window exceeded"))
		}
		q := url.Values{"waitForFinish": {waitSeconds(remaining)}}
		endpoint := fmt.Sprintf("%s/v2/actor-runs/%s?%s", c.baseURL, url.PathEscape(runID), q.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return apifyRun{}, backoff.Permanent(err)
		}
		run, err := c.doRun(req)
		if err != nil {
			return apifyRun{}, backoff.Permanent(err)
		}
		if !runFinished(run.Status) {
			return run, fmt.Errorf("run status %s", run.Status)
		}
		return run, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 15 * time.Second

	return backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxElapsedTime(time.Until(deadline)))
}

func (c *ApifyClient) doRun(req *http.Request) (apifyRun, error) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return apifyRun{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return apifyRun{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet)
	}
	var out apifyRunResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return apifyRun{}, fmt.Errorf("decode run: %w", err)
	}
	return out.Data, nil
}

func (c *ApifyClient) datasetItems(ctx context.Context, datasetID string) ([]Item, error) {
	if datasetID == "" {
		return nil, errors.New("run has no dataset")
	}
	endpoint := fmt.Sprintf("%s/v2/datasets/%s/items?clean=true&format=json", c.baseURL, url.PathEscape(datasetID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet)
	}

	var items []Item
	if err := json.NewDecoder(io.LimitReader(resp.Body, 16*1024*1024)).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}

// runFinished reports whether an Apify run status is terminal.
func runFinished(status string) bool {
	switch status {
	case "SUCCEEDED", "FAILED", "ABORTED", "TIMED-OUT":
		return true
	}
	return false
}

func waitSeconds(d time.Duration) string {
	if d > apifyMaxWaitParam {
		d = apifyMaxWaitParam
	}
	if d < time.Second {
		d = time.Second
	}
	return strconv.Itoa(int(d / time.Second))
}
