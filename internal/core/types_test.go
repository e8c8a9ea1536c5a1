package core

import (
	"testing"
	"time"
)

func TestPriceRecord_Quote(t *testing.T) {
	rec := PriceRecord{
		Quotes: map[Kind]string{
			KindGoldSell: " 5000 ",
			KindGoldBuy:  "",
			KindBarGold:  "   ",
		},
	}

	if v, ok := rec.Quote(KindGoldSell); !ok || v != "5000" {
		t.Errorf("expected trimmed 5000, got %q ok=%v", v, ok)
	}
	if _, ok := rec.Quote(KindGoldBuy); ok {
		t.Error("empty cell should not be present")
	}
	if _, ok := rec.Quote(KindBarGold); ok {
		t.Error("whitespace-only cell should not be present")
	}
	if _, ok := rec.Quote(KindPtSell); ok {
		t.Error("absent kind should not be present")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"gold_sell", KindGoldSell, true},
		{" PT_BUY ", KindPtBuy, true},
		{"bar_gold", KindBarGold, true},
		{"silver_sell", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseKind(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseKind(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolvedQuote_Stale(t *testing.T) {
	fresh := ResolvedQuote{Date: time.Now(), OffsetDays: 0}
	if fresh.Stale() {
		t.Error("offset 0 should not be stale")
	}

	old := ResolvedQuote{Date: time.Now().AddDate(0, 0, -3), OffsetDays: 3}
	if !old.Stale() {
		t.Error("offset 3 should be stale")
	}
}
