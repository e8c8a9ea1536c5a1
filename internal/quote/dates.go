package quote

import (
	"fmt"
	"strings"
	"time"

	"github.com/Jerryfang1/jinyuegold/internal/core"
)

// feedDateLayouts are the encodings the feed's date column has used over
// time. Padding depends on the platform that wrote the cell and the
// separator has drifted between slash and hyphen.
var feedDateLayouts = []string{
	"2006/01/02",
	"2006/1/2",
	"2006-01-02",
	"2006-1-2",
	time.RFC3339, // native date values exported as ISO timestamps
}

// ParseFeedDate normalizes a raw date cell to a calendar date at midnight UTC.
func ParseFeedDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, core.WrapError(core.ErrMalformedDate, fmt.Errorf("empty date cell"))
	}
	for _, layout := range feedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, core.WrapError(core.ErrMalformedDate, fmt.Errorf("unrecognized date %q", raw))
}

// Day truncates t to midnight UTC so records compare by calendar date only.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports calendar-date equality regardless of time-of-day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
