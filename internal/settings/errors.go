package settings

import (
	"errors"
	"strings"
)

// ErrUnknownOption is returned for a name that is not in the schema.
var ErrUnknownOption = errors.New("unknown option")

// ValidationError reports input rejected for a field. The stored value is
// left unchanged when this is returned.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors collects every rejected field of one submission.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}
