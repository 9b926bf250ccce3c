package settings

// Kind is the value type of a settings field.
type Kind int

const (
	KindEnum Kind = iota
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Choice is one allowed value of an enum field.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field describes one persisted setting. The same record drives the admin
// form, store reads and writes, defaulting and uninstall.
type Field struct {
	// Name is the field's logical name, e.g. "location".
	Name string `json:"name"`
	// Option is the key the value is persisted under.
	Option string `json:"option"`
	Label  string `json:"label"`
	Kind   Kind   `json:"kind"`
	// Default is the stored encoding used when the option is absent.
	Default string `json:"default"`
	// Legacy is an older option key removed on uninstall.
	Legacy  string   `json:"-"`
	Choices []Choice `json:"choices,omitempty"`

	// sanitize turns raw input into the stored encoding, or rejects it
	// with a *ValidationError.
	sanitize func(field, input string) (string, error)
}

// Option keys.
const (
	OptionLocation  = "cwc_location"
	OptionHeadline  = "cwc_headline"
	OptionWordCount = "cwc_wordcount"
	OptionCharCount = "cwc_charcount"
	OptionReadTime  = "cwc_readtime"
)

// DefaultHeadline is the heading shown above the statistics when none is
// configured.
const DefaultHeadline = "Post Statistics"

// Schema lists every settings field in form order.
var Schema = []Field{
	{
		Name:    "location",
		Option:  OptionLocation,
		Label:   "Display Location",
		Kind:    KindEnum,
		Default: "0",
		Legacy:  "wc_display_location",
		Choices: []Choice{
			{Value: "0", Label: "Beginning of Post"},
			{Value: "1", Label: "End of Post"},
		},
		sanitize: sanitizeLocation,
	},
	{
		Name:     "headline",
		Option:   OptionHeadline,
		Label:    "Headline Text",
		Kind:     KindString,
		Default:  DefaultHeadline,
		Legacy:   "wc_headline_text",
		sanitize: sanitizeText,
	},
	{
		Name:     "show_word_count",
		Option:   OptionWordCount,
		Label:    "Word Count",
		Kind:     KindBool,
		Default:  "1",
		Legacy:   "wc_word_count",
		sanitize: sanitizeBool,
	},
	{
		Name:     "show_char_count",
		Option:   OptionCharCount,
		Label:    "Character Count",
		Kind:     KindBool,
		Default:  "0",
		Legacy:   "wc_character_count",
		sanitize: sanitizeBool,
	},
	{
		Name:     "show_read_time",
		Option:   OptionReadTime,
		Label:    "Read Time",
		Kind:     KindBool,
		Default:  "1",
		Legacy:   "wc_read_time",
		sanitize: sanitizeBool,
	},
}

// Lookup finds a field by its logical name or its option key.
func Lookup(name string) (Field, bool) {
	for _, f := range Schema {
		if f.Name == name || f.Option == name {
			return f, true
		}
	}
	return Field{}, false
}

// Sanitize converts raw input into the value stored for f.
func (f Field) Sanitize(input string) (string, error) {
	return f.sanitize(f.Name, input)
}

// UninstallOptions returns every option key owned by the schema, current
// and legacy.
func UninstallOptions() []string {
	names := make([]string, 0, len(Schema)*2)
	for _, f := range Schema {
		names = append(names, f.Option)
	}
	for _, f := range Schema {
		if f.Legacy != "" {
			names = append(names, f.Legacy)
		}
	}
	return names
}
