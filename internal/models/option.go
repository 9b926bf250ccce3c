package models

import "time"

// Option is a single persisted setting. Values are always stored as
// strings; booleans use "1" and "0".
type Option struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
