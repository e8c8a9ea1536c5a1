package quote

import (
	"errors"
	"testing"
	"time"

	"github.com/Jerryfang1/jinyuegold/internal/core"
)

func TestParseFeedDate(t *testing.T) {
	want := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
	}{
		{"zero padded slashes", "2025/06/13"},
		{"unpadded slashes", "2025/6/13"},
		{"hyphenated", "2025-06-13"},
		{"hyphenated unpadded", "2025-6-13"},
		{"surrounding whitespace", " 2025/06/13 "},
		{"native iso timestamp", "2025-06-13T09:30:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFeedDate(tt.raw)
			if err != nil {
				t.Fatalf("ParseFeedDate(%q): %v", tt.raw, err)
			}
			if !got.Equal(want) {
				t.Errorf("ParseFeedDate(%q) = %v, want %v", tt.raw, got, want)
			}
		})
	}
}

func TestParseFeedDate_Malformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "13/06/2025", "yesterday", "2025/13/40"} {
		_, err := ParseFeedDate(raw)
		if err == nil {
			t.Errorf("ParseFeedDate(%q) should fail", raw)
			continue
		}
		if !errors.Is(err, core.ErrMalformedDate) {
			t.Errorf("ParseFeedDate(%q) error = %v, want MALFORMED_DATE", raw, err)
		}
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2025, 6, 13, 23, 59, 0, 0, time.UTC)
	b := time.Date(2025, 6, 13, 0, 1, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Error("same calendar date should match regardless of time of day")
	}
	if SameDay(a, a.AddDate(0, 0, 1)) {
		t.Error("different days must not match")
	}
}

func TestDay(t *testing.T) {
	d := Day(time.Date(2025, 6, 13, 17, 45, 12, 999, time.UTC))
	if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 || d.Nanosecond() != 0 {
		t.Errorf("Day should truncate to midnight, got %v", d)
	}
}
