// Package stats computes the word count, character count and estimated
// reading time shown in a post's statistics block.
//
// All counts are taken over the stripped text: the content with every
// markup tag removed and the text between tags kept verbatim.
package stats

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// WordsPerMinute is the average reading speed used to estimate reading time.
const WordsPerMinute = 255

// Result holds the statistics for a single piece of content.
type Result struct {
	WordCount   int `json:"word_count"`
	CharCount   int `json:"char_count"`
	ReadMinutes int `json:"read_minutes"`
}

// Compute strips markup from content and measures what is left. It has no
// side effects. ReadMinutes is always at least 1.
func Compute(content string) Result {
	text := StripTags(content)
	words := CountWords(text)
	return Result{
		WordCount:   words,
		CharCount:   CountChars(text),
		ReadMinutes: ReadMinutes(words),
	}
}

// rawTextElements are the elements whose body the tokenizer returns as a
// single text token, tags included. script and style bodies are kept as
// text; the others are stripped again.
var rawTextElements = map[string]bool{
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
	"textarea":  true,
	"title":     true,
	"xmp":       true,
}

// StripTags removes all tags, comments and doctype declarations from s.
// Text between tags is returned as written: entities are not decoded and
// whitespace is left alone. Tags nested in raw text elements such as
// noscript or textarea are removed too.
func StripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return s
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var sb strings.Builder
	sb.Grow(len(s))
	inRaw := false
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// Only io.EOF is possible when reading from a string.
			return sb.String()
		case html.TextToken:
			if inRaw {
				sb.WriteString(StripTags(string(z.Raw())))
			} else {
				sb.Write(z.Raw())
			}
		}
		inRaw = false
		if tt == html.StartTagToken {
			name, _ := z.TagName()
			inRaw = rawTextElements[string(name)]
		}
	}
}

// CountWords counts the words in text. A word is a maximal run of letters,
// apostrophes and hyphens containing at least one letter, so "don't" and
// "well-known" are single words while numbers and lone dashes are not
// counted.
func CountWords(text string) int {
	count := 0
	inRun, hasLetter := false, false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			inRun, hasLetter = true, true
		case r == '\'' || r == '-' || r == '’':
			inRun = true
		default:
			if inRun && hasLetter {
				count++
			}
			inRun, hasLetter = false, false
		}
	}
	if inRun && hasLetter {
		count++
	}
	return count
}

// CountChars returns the number of characters (Unicode code points) in text.
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}

// ReadMinutes estimates reading time for the given word count at
// WordsPerMinute, rounding half away from zero. It never returns less
// than 1.
func ReadMinutes(words int) int {
	minutes := int(math.Round(float64(words) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// ReadTimeText formats a reading time for display: "1 minute" or
// "N minutes".
func ReadTimeText(minutes int) string {
	if minutes <= 1 {
		return "1 minute"
	}
	return strconv.Itoa(minutes) + " minutes"
}
