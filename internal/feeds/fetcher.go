// Package feeds renders the statistics block into content pulled from
// RSS/Atom feeds and from article pages.
package feeds

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/jarutosurano/wordcounter/internal/render"
	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout       = 30 * time.Second
	defaultMaxConcurrent = 10
	defaultRateLimit     = 1 * time.Second
)

// ContentRenderer applies the statistics block to one piece of content.
type ContentRenderer interface {
	Render(ctx context.Context, content string, eligible bool) (render.Output, error)
}

// Options controls fetching. Zero values take the defaults.
type Options struct {
	Timeout       time.Duration
	MaxConcurrent int
	// RateLimit is the minimum gap between requests to the same host.
	// A negative value disables rate limiting.
	RateLimit time.Duration
}

// FailedFeed records a feed that could not be fetched or rendered.
type FailedFeed struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// FeedResult holds the rendered items of every feed that succeeded and the
// feeds that did not.
type FeedResult struct {
	Items  []Item       `json:"items"`
	Failed []FailedFeed `json:"failed"`
}

// Fetcher downloads feeds and articles with a shared HTTP client, bounded
// concurrency and per-host rate limiting.
type Fetcher struct {
	renderer      ContentRenderer
	client        *http.Client
	maxConcurrent int
	rateLimit     time.Duration

	mu          sync.Mutex
	lastRequest map[string]time.Time // per-host
}

// NewFetcher creates a Fetcher that renders with r.
func NewFetcher(r ContentRenderer, opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}
	if opts.RateLimit == 0 {
		opts.RateLimit = defaultRateLimit
	}
	return &Fetcher{
		renderer: r,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &userAgentTransport{base: http.DefaultTransport},
		},
		maxConcurrent: opts.MaxConcurrent,
		rateLimit:     opts.RateLimit,
		lastRequest:   make(map[string]time.Time),
	}
}

// userAgentTransport sets browser-like headers on every request; some
// sites reject the default Go client.
type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; WordCounter/1.0)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	return t.base.RoundTrip(req)
}

// RenderFeeds fetches every feed concurrently and renders each item as a
// single post. A feed that fails is recorded in FeedResult.Failed and does
// not fail the batch.
func (f *Fetcher) RenderFeeds(ctx context.Context, feedURLs []string) (*FeedResult, error) {
	var (
		result FeedResult
		mu     sync.Mutex
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxConcurrent)

	for _, feedURL := range feedURLs {
		g.Go(func() error {
			items, err := f.renderFeed(ctx, feedURL)
			if err != nil {
				slog.Warn("failed to render feed", "url", feedURL, "error", err)

				mu.Lock()
				result.Failed = append(result.Failed, FailedFeed{URL: feedURL, Error: err.Error()})
				mu.Unlock()
				return nil
			}

			mu.Lock()
			result.Items = append(result.Items, items...)
			mu.Unlock()

			slog.Info("rendered feed", "url", feedURL, "items", len(items))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rendering feeds: %w", err)
	}
	return &result, nil
}

func (f *Fetcher) renderFeed(ctx context.Context, feedURL string) ([]Item, error) {
	if err := f.waitForRateLimit(ctx, hostOf(feedURL)); err != nil {
		return nil, err
	}

	fp := gofeed.NewParser()
	fp.Client = f.client

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %q: %w", feedURL, err)
	}
	return renderItems(ctx, f.renderer, feedURL, feed)
}

// waitForRateLimit blocks until at least rateLimit has passed since the
// previous request to host, or ctx is done.
func (f *Fetcher) waitForRateLimit(ctx context.Context, host string) error {
	if f.rateLimit < 0 {
		return nil
	}

	f.mu.Lock()
	now := time.Now()
	next := now
	if last, ok := f.lastRequest[host]; ok && last.Add(f.rateLimit).After(now) {
		next = last.Add(f.rateLimit)
	}
	// Reserve the slot before sleeping so concurrent callers queue up.
	f.lastRequest[host] = next
	f.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// hostOf returns the hostname of rawURL, or rawURL itself if it does not
// parse.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}
