// Package settings holds the statistics block's configuration: a fixed
// schema of options, their defaults and validation, and a Store that reads
// and writes them through a key/value backend.
package settings

import (
	"fmt"
	"log/slog"
)

// Location says where the statistics block goes relative to the content.
type Location int

const (
	Begin Location = iota
	End
)

func (l Location) String() string {
	if l == End {
		return "end"
	}
	return "begin"
}

// MarshalText encodes the location as "begin" or "end".
func (l Location) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts the same inputs as the location field.
func (l *Location) UnmarshalText(b []byte) error {
	v, err := sanitizeLocation("location", string(b))
	if err != nil {
		return err
	}
	*l = decodeLocation(v)
	return nil
}

// Settings is the decoded, typed form of the stored options.
type Settings struct {
	Location      Location `json:"location"`
	Headline      string   `json:"headline"`
	ShowWordCount bool     `json:"show_word_count"`
	ShowCharCount bool     `json:"show_char_count"`
	ShowReadTime  bool     `json:"show_read_time"`
}

// Defaults returns the settings used when nothing has been stored.
func Defaults() Settings {
	s, err := decode(nil)
	if err != nil {
		panic(fmt.Sprintf("settings: invalid schema defaults: %v", err))
	}
	return s
}

// AnyEnabled reports whether at least one statistics line is switched on.
func (s Settings) AnyEnabled() bool {
	return s.ShowWordCount || s.ShowCharCount || s.ShowReadTime
}

// decode builds Settings from stored option values keyed by option name.
// Missing keys take the schema default.
func decode(values map[string]string) (Settings, error) {
	var s Settings
	for _, f := range Schema {
		v, ok := values[f.Option]
		if !ok {
			v = f.Default
		}
		switch f.Option {
		case OptionLocation:
			if v != "0" && v != "1" && v != "begin" && v != "end" {
				slog.Warn("ignoring invalid stored location", "value", v)
				v = f.Default
			}
			s.Location = decodeLocation(v)
		case OptionHeadline:
			s.Headline = v
		case OptionWordCount:
			s.ShowWordCount = truthy(v)
		case OptionCharCount:
			s.ShowCharCount = truthy(v)
		case OptionReadTime:
			s.ShowReadTime = truthy(v)
		default:
			return Settings{}, fmt.Errorf("%w: %q", ErrUnknownOption, f.Option)
		}
	}
	return s, nil
}

func decodeLocation(v string) Location {
	if v == "1" || v == "end" {
		return End
	}
	return Begin
}
