package utils

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order. Layouts without a zone are read in the
// caller's location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseTimestamp parses a timestamp in any of the formats the vendor API and
// clients send.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)

	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ParseDay parses a YYYY-MM-DD date as midnight in loc. An empty value yields
// fallback.
func ParseDay(value string, loc *time.Location, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(time.DateOnly, strings.TrimSpace(value), loc)
}
