package ics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	applog "github.com/martinaparikova/calendar-asistant/internal/log"
)

// Feed represents a single configured ICS subscription source.
type Feed struct {
	// Name is the configured label; it tags every event produced from
	// this feed and identifies the feed in logs.
	Name string
	// URL is the ICS endpoint.
	URL string
}

// FetchError is returned when a feed could not be fetched or its payload
// could not be parsed as calendar data. It is recoverable at per-feed
// granularity: the feed contributes zero events, other feeds still run.
type FetchError struct {
	Feed Feed
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("feed %q: %v", e.Feed.Name, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

const fetchTimeout = 30 * time.Second

// Client fetches ICS feeds and expands them into raw occurrences.
type Client struct {
	http *http.Client
}

// NewClient creates a feed client with a bounded per-request timeout.
func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: fetchTimeout},
	}
}

// fetch retrieves the raw ICS payload for one feed. Network failures and
// non-2xx statuses become a *FetchError.
func (c *Client) fetch(ctx context.Context, feed Feed) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, &FetchError{Feed: feed, Err: err}
	}

	applog.Debug("ics fetch start", "feed", feed.Name, "url", redactURL(feed.URL))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Feed: feed, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Feed: feed, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Feed: feed, Err: err}
	}

	applog.Debug("ics fetch success", "feed", feed.Name, "bytes", len(body))
	return body, nil
}

// redactURL hides path and query of a feed URL for logging; private ICS
// links routinely embed secrets.
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := -1
	for idx := 0; idx+2 < len(u); idx++ {
		if u[idx:idx+3] == "://" {
			i = idx + 3
			break
		}
	}
	if i == -1 {
		return "ics://...(redacted)"
	}

	j := i
	for j < len(u) && u[j] != '/' {
		j++
	}
	return u[:j] + redactedSuffix
}
