package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// FetchResult carries the outcome of retrieving and parsing one feed.
// Failures are returned, never raised, so a batch sync can aggregate
// per-property results without one bad feed aborting the rest.
type FetchResult struct {
	Success bool
	Events  []Event
	Error   string
}

// Fetcher downloads iCal feeds over HTTP.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher whose requests time out after the given
// duration, so one hung feed cannot stall a batch.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the feed at url and parses it.
func (f *Fetcher) Fetch(ctx context.Context, url string) FetchResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{Error: fmt.Sprintf("building feed request: %v", err)}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return FetchResult{Error: fmt.Sprintf("fetching feed: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return FetchResult{Error: fmt.Sprintf("reading feed: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		if msg != "" {
			return FetchResult{Error: fmt.Sprintf("feed returned status %d: %s", resp.StatusCode, msg)}
		}
		return FetchResult{Error: fmt.Sprintf("feed returned status %d", resp.StatusCode)}
	}

	return FetchResult{Success: true, Events: Parse(string(body))}
}

// FetchText retrieves the raw feed body without parsing. Used by the
// same-origin proxy endpoint that browser-side callers go through.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building feed request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return "", fmt.Errorf("reading feed: %w", err)
	}

	return string(body), nil
}
