// Package parse normalizes loosely formatted values coming from backups and
// client payloads.
package parse

import (
	"strings"
	"time"
)

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp parses raw with the first layout that fits. Values without a
// zone are read as UTC. Empty or unparsable input returns false.
func Timestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// OptionalTimestamp is Timestamp for optional fields: nil, empty and
// malformed values all come back as nil.
func OptionalTimestamp(raw *string) *time.Time {
	if raw == nil {
		return nil
	}
	t, ok := Timestamp(*raw)
	if !ok {
		return nil
	}
	return &t
}
