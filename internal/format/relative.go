package format

import (
	"fmt"
	"math"
	"time"
)

// RelativeTime describes how long ago t was, measured against the current
// time. The result is not cached: calling it again later may return a
// different string.
func RelativeTime(t time.Time) string {
	return RelativeTimeAt(t, time.Now())
}

// RelativeTimeAt describes how long before now t was.
//
// Less than a minute, or a time in the future, is "just now". Larger spans
// are rounded to the nearest minute, hour or day; weeks are whole weeks and
// months are rounded 30-day periods.
func RelativeTimeAt(t, now time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < time.Minute {
		return "just now"
	}

	ms := float64(elapsed.Milliseconds())

	mins := roundHalfUp(ms / 60000)
	if mins < 60 {
		return fmt.Sprintf("%dm ago", mins)
	}

	hours := roundHalfUp(ms / 3600000)
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}

	days := roundHalfUp(float64(hours) / 24)
	switch {
	case days == 1:
		return "yesterday"
	case days < 7:
		return fmt.Sprintf("%dd ago", days)
	case days < 30:
		return plural(days/7, "week")
	default:
		return plural(roundHalfUp(float64(days)/30), "month")
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// roundHalfUp rounds to the nearest integer, with halves going towards
// positive infinity.
func roundHalfUp(x float64) int64 {
	return int64(math.Floor(x + 0.5))
}

// RelativeTimeString is RelativeTime for a timestamp string. It returns
// Placeholder when s cannot be parsed.
func RelativeTimeString(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return Placeholder
	}
	return RelativeTime(t)
}
