package core

import (
	"strings"
	"time"
)

// Kind names a single price dimension in the feed.
type Kind string

const (
	KindGoldSell Kind = "gold_sell"
	KindGoldBuy  Kind = "gold_buy"
	KindPtSell   Kind = "pt_sell"
	KindPtBuy    Kind = "pt_buy"
	KindBarGold  Kind = "bar_gold"
)

// Kinds lists every known quote kind in presentation order.
var Kinds = []Kind{KindGoldSell, KindGoldBuy, KindPtSell, KindPtBuy, KindBarGold}

// ParseKind maps a config/query string to a Kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.TrimSpace(strings.ToLower(s)))
	for _, known := range Kinds {
		if k == known {
			return known, true
		}
	}
	return "", false
}

// PriceRecord is one day's row from the upstream feed.
// Cell values are kept as raw text; the feed is untrusted and numeric
// parsing is deferred until a value is actually used.
type PriceRecord struct {
	RawDate string // as it appears in the feed, several encodings seen
	Weekday string
	Time    string
	Quotes  map[Kind]string
}

// Quote returns the raw cell for a kind and whether it is present and non-empty.
func (r PriceRecord) Quote(k Kind) (string, bool) {
	v, ok := r.Quotes[k]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

// ResolvedQuote is the locator's output: the matched record plus the
// calendar date actually used, so callers can disclose staleness.
type ResolvedQuote struct {
	Record     PriceRecord
	Date       time.Time // date the record matched, not necessarily today
	OffsetDays int       // 0 means today's record
}

// Stale reports whether the quote comes from a prior day.
func (q ResolvedQuote) Stale() bool { return q.OffsetDays > 0 }
