package timefmt

import (
	"fmt"
	"time"
)

// Anything a week old or older is rendered as an absolute date. Go has no
// locale-aware short format, so the layout is fixed.
const fallbackLayout = "2006-01-02 15:04"

// Relative turns a timestamp into a human phrase like "5 minutes ago" or
// "yesterday", evaluated against the supplied now.
func Relative(now, ts time.Time) string {
	span := now.Sub(ts)
	switch {
	case span < time.Minute:
		return "just now"
	case span < time.Hour:
		return plural(int(span.Minutes()), "minute")
	case span < 24*time.Hour:
		return plural(int(span.Hours()), "hour")
	case span < 48*time.Hour:
		return "yesterday"
	case span < 7*24*time.Hour:
		return plural(int(span.Hours())/24, "day")
	}

	return ts.Format(fallbackLayout)
}

func plural(n int, unit string) string {
	if n >= 2 {
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
