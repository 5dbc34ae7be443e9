package utils

import (
	"strings"
	"time"
)

// FormatDate truncates a timestamp to YYYY-MM-DD for list views. Detail views
// keep the full timestamp.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// JoinLocation joins the non-empty parts with a comma, so a client with only
// a city renders "Austin" rather than "Austin, ".
func JoinLocation(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
