// Package render adds the statistics block to post content.
package render

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/jarutosurano/wordcounter/internal/settings"
	"github.com/jarutosurano/wordcounter/internal/stats"
)

// Apply returns content with the statistics block placed before or after
// it according to s. Content is returned unchanged when the render is not
// eligible (not a single post in the primary query) or when every
// statistics line is switched off.
func Apply(content string, eligible bool, s settings.Settings) string {
	if !eligible || !s.AnyEnabled() {
		return content
	}
	return place(content, Block(content, s), s.Location)
}

// Block builds the statistics fragment for content. The headline and all
// numbers are HTML-escaped.
func Block(content string, s settings.Settings) string {
	text := stats.StripTags(content)

	// One word count serves both the word and the read-time lines.
	var res stats.Result
	if s.ShowWordCount || s.ShowReadTime {
		res.WordCount = stats.CountWords(text)
		res.ReadMinutes = stats.ReadMinutes(res.WordCount)
	}
	if s.ShowCharCount {
		res.CharCount = stats.CountChars(text)
	}
	return format(s, res)
}

func place(content, block string, loc settings.Location) string {
	if loc == settings.End {
		return content + block
	}
	return block + content
}

// format writes the fragment for the lines enabled in s.
func format(s settings.Settings, res stats.Result) string {
	var b strings.Builder
	b.WriteString("<h3>")
	b.WriteString(html.EscapeString(s.Headline))
	b.WriteString("</h3><p>")

	if s.ShowWordCount {
		line(&b, "This post has ", strconv.Itoa(res.WordCount), " words.")
	}
	if s.ShowCharCount {
		line(&b, "This post has ", strconv.Itoa(res.CharCount), " characters.")
	}
	if s.ShowReadTime {
		line(&b, "This post will take about ", stats.ReadTimeText(res.ReadMinutes), " to read.")
	}

	b.WriteString("</p>")
	return b.String()
}

func line(b *strings.Builder, prefix, value, suffix string) {
	b.WriteString(prefix)
	b.WriteString(html.EscapeString(value))
	b.WriteString(suffix)
	b.WriteString("<br>")
}

// SettingsLoader supplies the current settings for each render.
type SettingsLoader interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// Renderer applies the statistics block using settings read from a store
// on every call.
type Renderer struct {
	settings SettingsLoader
}

// NewRenderer creates a Renderer reading settings from loader.
func NewRenderer(loader SettingsLoader) *Renderer {
	return &Renderer{settings: loader}
}

// Output is the result of one render. Stats is nil when no block was
// added.
type Output struct {
	Content string
	Stats   *stats.Result
}

// Render loads the current settings and applies them to content, measuring
// it once for both the block and the returned Stats. Settings are not read
// at all for ineligible renders.
func (r *Renderer) Render(ctx context.Context, content string, eligible bool) (Output, error) {
	if !eligible {
		return Output{Content: content}, nil
	}
	s, err := r.settings.Load(ctx)
	if err != nil {
		return Output{}, fmt.Errorf("loading settings: %w", err)
	}
	if !s.AnyEnabled() {
		return Output{Content: content}, nil
	}

	res := stats.Compute(content)
	return Output{
		Content: place(content, format(s, res), s.Location),
		Stats:   &res,
	}, nil
}
