package storage

import "errors"

// ErrNotFound is returned when a requested option does not exist.
var ErrNotFound = errors.New("option not found")
