// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package glossary

import (
	"fmt"
	"strings"
	"time"

	"github.com/sigil-dev/glossary/internal/store"
)

const day = 24 * time.Hour

// FormatAge renders the time elapsed since a record was written.
// Negative durations render as "just now".
func FormatAge(d time.Duration) string {
	days := int(d / day)

	switch {
	case days >= 365:
		return fmt.Sprintf("%.1f years ago", float64(days)/365)
	case days > 30:
		return fmt.Sprintf("%.1f months ago", float64(days)/30.5)
	case days > 1:
		return fmt.Sprintf("%d days ago", days)
	case days == 1:
		return "yesterday"
	}

	if hours := int(d / time.Hour); hours >= 1 {
		return plural(hours, "hour") + " ago"
	}
	if minutes := int(d / time.Minute); minutes >= 1 {
		return plural(minutes, "minute") + " ago"
	}
	return "just now"
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// Ordinal renders n as "1st", "2nd", "3rd", "4th" and so on.
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// JoinList joins items with commas and an oxford comma before conjunction.
func JoinList(items []string, conjunction string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " " + conjunction + " " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", " + conjunction + " " + items[len(items)-1]
}

// FormatRecord renders a record the way lookups reply with it.
func FormatRecord(rec *store.Record, now time.Time) string {
	var channel string
	if rec.Channel != "" {
		channel = " in " + rec.Channel
	}
	return fmt.Sprintf("%s (%d/%d): %s [defined by %s %s%s]",
		rec.Term, rec.Index, rec.Total, rec.Definition,
		rec.Author, FormatAge(now.Sub(rec.CreatedAt)), channel)
}

// FormatRedirect renders a record reached by looking up from.
func FormatRedirect(from string, rec *store.Record, now time.Time) string {
	return from + " redirects to " + FormatRecord(rec, now)
}
