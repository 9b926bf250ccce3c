package settings

import (
	"strings"
	"unicode"

	"github.com/jarutosurano/wordcounter/internal/stats"
)

const locationMessage = "Display location must be either beginning or end."

// sanitizeLocation accepts "0"/"begin" or "1"/"end" and stores the
// numeric form.
func sanitizeLocation(field, input string) (string, error) {
	switch input {
	case "0", "begin":
		return "0", nil
	case "1", "end":
		return "1", nil
	}
	return "", &ValidationError{Field: field, Message: locationMessage}
}

// sanitizeText strips markup, turns control characters into spaces,
// collapses whitespace and trims. It never fails.
func sanitizeText(_, input string) (string, error) {
	s := stats.StripTags(input)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " "), nil
}

// sanitizeBool stores "1" or "0". Empty input is false so that an
// unchecked checkbox, which submits nothing, turns the flag off.
func sanitizeBool(field, input string) (string, error) {
	s, _ := sanitizeText(field, input)
	if truthy(s) {
		return "1", nil
	}
	return "0", nil
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "off", "no":
		return false
	}
	return true
}
