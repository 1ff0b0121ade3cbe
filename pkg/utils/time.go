package utils

import "time"

// MemoryDateLayout is the wire format for calendar dates
const MemoryDateLayout = "2006-01-02"

// NowRFC3339 returns the current time in RFC3339 format
func NowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// ParseRFC3339 parses a time string in RFC3339 format
func ParseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ParseMemoryDate parses a calendar date (no time component) as UTC midnight
func ParseMemoryDate(s string) (time.Time, error) {
	return time.ParseInLocation(MemoryDateLayout, s, time.UTC)
}

// FormatMemoryDate formats a time as a calendar date
func FormatMemoryDate(t time.Time) string {
	return t.UTC().Format(MemoryDateLayout)
}
