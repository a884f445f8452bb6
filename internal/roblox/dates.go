package roblox

import "time"

// fractionalLayout is the fixed-width millisecond encoding Roblox uses for
// account creation dates, e.g. "2020-01-01T00:00:00.000Z".
const fractionalLayout = "2006-01-02T15:04:05.000Z"

// ParseTimestamp parses the timestamp encodings Roblox responses use into a
// UTC instant. It accepts the fixed-width fractional-seconds form and any
// RFC 3339 timestamp with a zone offset or Z suffix. Empty or unparseable
// input yields the zero time; it never returns an error because a bad
// upstream date only costs the derived age field.
func ParseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(fractionalLayout, raw); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC()
	}
	return time.Time{}
}

// AccountAgeDays returns the whole days elapsed between created and now,
// clamped at zero for instants in the future.
func AccountAgeDays(created, now time.Time) int {
	days := int(now.Sub(created).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
