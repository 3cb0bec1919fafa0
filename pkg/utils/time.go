package utils

import "time"

// storageTimestampLayout keeps sub-second precision so creation-order and
// newest-first sorts survive a round trip through storage.
const storageTimestampLayout = time.RFC3339Nano

// FormatTimestamp renders a timestamp for persistence, normalized to UTC
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(storageTimestampLayout)
}

// ParseTimestamp parses a persisted timestamp
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(storageTimestampLayout, s)
}
