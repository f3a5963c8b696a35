package format

import (
	"strings"
	"time"
)

// timestampLayout is the short absolute form, e.g. "Feb 18, 14:32".
const timestampLayout = "Jan 2, 15:04"

// timestampFormats lists the spellings found in the site's JSON documents
// and diary headers, tried in order.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04 MST",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FormatTimestamp returns t as a short absolute timestamp in t's location:
// abbreviated month, day without padding, 24-hour time.
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// FormatTimestampString parses s and formats it in the local time zone.
// It returns Placeholder when s cannot be parsed.
func FormatTimestampString(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return Placeholder
	}
	return FormatTimestamp(t.Local())
}

// ParseTimestamp parses the timestamp spellings used by the site. Times
// without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
