package quote

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Jerryfang1/jinyuegold/internal/core"
)

func record(date string, goldSell string) core.PriceRecord {
	return core.PriceRecord{
		RawDate: date,
		Quotes:  map[core.Kind]string{core.KindGoldSell: goldSell},
	}
}

func TestLocate_TodayAnyEncoding(t *testing.T) {
	ref := time.Date(2025, 6, 13, 10, 0, 0, 0, time.UTC)

	for _, encoding := range []string{"2025/06/13", "2025/6/13", "2025-06-13"} {
		resolved, err := Locate([]core.PriceRecord{record(encoding, "5000")}, ref, 0)
		if err != nil {
			t.Fatalf("encoding %q: %v", encoding, err)
		}
		if resolved.OffsetDays != 0 {
			t.Errorf("encoding %q: offset = %d, want 0", encoding, resolved.OffsetDays)
		}
		if !SameDay(resolved.Date, ref) {
			t.Errorf("encoding %q: date = %v, want reference day", encoding, resolved.Date)
		}
	}
}

func TestLocate_HyphenQueryAgainstUnpaddedFeed(t *testing.T) {
	// Feed says 2025/6/13, query arrives as the hyphenated 2025-06-13.
	ref, err := ParseFeedDate("2025-06-13")
	if err != nil {
		t.Fatal(err)
	}

	resolved, err := Locate([]core.PriceRecord{record("2025/6/13", "5000")}, ref, 0)
	if err != nil {
		t.Fatalf("tolerant comparison should match: %v", err)
	}
	if v, _ := resolved.Record.Quote(core.KindGoldSell); v != "5000" {
		t.Errorf("gold_sell = %q, want 5000", v)
	}
}

func TestLocate_FallbackWithinWindow(t *testing.T) {
	ref := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	records := []core.PriceRecord{
		record("2025/06/09", "4800"),
		record("2025/06/10", "4900"),
	}

	resolved, err := Locate(records, ref, 3)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.OffsetDays != 3 {
		t.Errorf("offset = %d, want 3", resolved.OffsetDays)
	}
	want := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	if !resolved.Date.Equal(want) {
		t.Errorf("date = %v, want %v", resolved.Date, want)
	}
	if v, _ := resolved.Record.Quote(core.KindGoldSell); v != "4900" {
		t.Errorf("matched wrong record: gold_sell = %q", v)
	}
}

func TestLocate_NothingWithinWindow(t *testing.T) {
	ref := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	records := []core.PriceRecord{record("2025/06/01", "4500")}

	_, err := Locate(records, ref, 3)
	if !errors.Is(err, core.ErrNoMatchingRecord) {
		t.Fatalf("error = %v, want NO_MATCHING_RECORD", err)
	}
	if !strings.Contains(err.Error(), "2025-06-13") {
		t.Errorf("error should name the reference date: %v", err)
	}
}

func TestLocate_EmptyRecords(t *testing.T) {
	ref := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	_, err := Locate(nil, ref, 7)
	if !errors.Is(err, core.ErrNoMatchingRecord) {
		t.Fatalf("error = %v, want NO_MATCHING_RECORD", err)
	}
}

func TestLocate_ZeroLookbackIsExactOnly(t *testing.T) {
	ref := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	records := []core.PriceRecord{record("2025/06/12", "4950")}

	if _, err := Locate(records, ref, 0); !errors.Is(err, core.ErrNoMatchingRecord) {
		t.Fatalf("lookback 0 must not fall back: %v", err)
	}
}

func TestLocate_MalformedRowsSkipped(t *testing.T) {
	ref := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	records := []core.PriceRecord{
		record("not a date", "1"),
		record("", "2"),
		record("2025/06/13", "5000"),
	}

	resolved, err := Locate(records, ref, 0)
	if err != nil {
		t.Fatalf("malformed rows must not abort the scan: %v", err)
	}
	if v, _ := resolved.Record.Quote(core.KindGoldSell); v != "5000" {
		t.Errorf("matched wrong record: gold_sell = %q", v)
	}
}

func TestLocate_DuplicateDateFirstWins(t *testing.T) {
	ref := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	records := []core.PriceRecord{
		record("2025/06/13", "5000"),
		record("2025-06-13", "9999"),
	}

	resolved, err := Locate(records, ref, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := resolved.Record.Quote(core.KindGoldSell); v != "5000" {
		t.Errorf("first occurrence should win, got gold_sell = %q", v)
	}
}

func TestLocate_PrefersFresherOffset(t *testing.T) {
	// A record for today must win even when an older one appears earlier
	// in feed order.
	ref := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	records := []core.PriceRecord{
		record("2025/06/11", "4800"),
		record("2025/06/13", "5000"),
	}

	resolved, err := Locate(records, ref, 7)
	if err != nil {
		t.Fatal(err)
	}
	if resolved.OffsetDays != 0 {
		t.Errorf("offset = %d, want 0", resolved.OffsetDays)
	}
}
