package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jarutosurano/wordcounter/internal/feeds"
	"github.com/jarutosurano/wordcounter/internal/render"
	"github.com/jarutosurano/wordcounter/internal/stats"
)

// maxFeedsPerRequest bounds how many feeds one request may fan out to.
const maxFeedsPerRequest = 20

type renderRequest struct {
	Content  string `json:"content"`
	Eligible bool   `json:"eligible"`
}

type renderResponse struct {
	Content string        `json:"content"`
	Stats   *stats.Result `json:"stats,omitempty"`
}

// RenderContent handles POST /api/render. This is the render hook: the
// caller sends post content and whether it is being shown as a single post
// in the primary query, and gets the content back with the statistics
// block applied according to the current settings. "stats" is present only
// when a block was added.
func RenderContent(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req renderRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		out, err := renderer.Render(r.Context(), req.Content, req.Eligible)
		if err != nil {
			slog.Error("failed to render content", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to render content")
			return
		}

		writeJSON(w, http.StatusOK, renderResponse{
			Content: out.Content,
			Stats:   out.Stats,
		})
	}
}

type feedsRequest struct {
	URLs []string `json:"urls"`
}

// RenderFeeds handles POST /api/render/feeds. Every item of every feed is
// rendered as a single post. Feeds that fail are listed in "failed".
func RenderFeeds(fetcher *feeds.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req feedsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		urls := make([]string, 0, len(req.URLs))
		for _, u := range req.URLs {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		switch {
		case len(urls) == 0:
			writeError(w, http.StatusBadRequest, "At least one feed URL is required")
			return
		case len(urls) > maxFeedsPerRequest:
			writeError(w, http.StatusBadRequest, "Too many feed URLs")
			return
		}

		result, err := fetcher.RenderFeeds(r.Context(), urls)
		if err != nil {
			slog.Error("failed to render feeds", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to render feeds")
			return
		}
		if result.Items == nil {
			result.Items = []feeds.Item{}
		}
		if result.Failed == nil {
			result.Failed = []feeds.FailedFeed{}
		}
		writeJSON(w, http.StatusOK, result)
	}
}

type articleRequest struct {
	URL string `json:"url"`
}

// RenderArticle handles POST /api/render/article. The page's main content
// is extracted and rendered as a single post.
func RenderArticle(fetcher *feeds.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req articleRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if strings.TrimSpace(req.URL) == "" {
			writeError(w, http.StatusBadRequest, "URL is required")
			return
		}

		item, err := fetcher.RenderArticle(r.Context(), strings.TrimSpace(req.URL))
		if err != nil {
			slog.Warn("failed to render article", "url", req.URL, "error", err)
			writeError(w, http.StatusBadGateway, "Failed to fetch article: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}
