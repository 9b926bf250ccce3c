package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	readability "github.com/go-shiori/go-readability"
)

// maxArticleBytes caps how much of a page is read.
const maxArticleBytes = 5 << 20

// RenderArticle downloads the page at articleURL, extracts its main
// content with readability and renders it as a single post.
func (f *Fetcher) RenderArticle(ctx context.Context, articleURL string) (*Item, error) {
	u, err := url.Parse(articleURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid article URL %q", articleURL)
	}

	if err := f.waitForRateLimit(ctx, u.Hostname()); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, articleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %q: %w", articleURL, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %q: %w", articleURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %q: HTTP %d", articleURL, resp.StatusCode)
	}

	article, err := readability.FromReader(io.LimitReader(resp.Body, maxArticleBytes), u)
	if err != nil {
		return nil, fmt.Errorf("readability extraction from %q: %w", articleURL, err)
	}

	out, err := f.renderer.Render(ctx, article.Content, true)
	if err != nil {
		return nil, fmt.Errorf("rendering article %q: %w", articleURL, err)
	}

	return &Item{
		Source:      u.Hostname(),
		Title:       article.Title,
		URL:         articleURL,
		PublishedAt: article.PublishedTime,
		Content:     out.Content,
		Stats:       out.Stats,
	}, nil
}
