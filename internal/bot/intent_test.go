package bot

import "testing"

func TestTriggers_MatchText(t *testing.T) {
	triggers := DefaultTriggers()

	tests := []struct {
		text string
		want Intent
	}{
		{"查詢金價", IntentPriceRetail},
		{"查詢黃金報價", IntentPriceRetail},
		{"黃金報價", IntentPriceRetail},
		{"  黃金報價  ", IntentPriceRetail},
		{"會員金價", IntentPriceMember},
		{"會員報價", IntentPriceMember},
		{"回收資訊", IntentRecycling},
		{"黃金回收", IntentRecycling},
		{"金價", IntentNone}, // partial phrase must not fire
		{"hello", IntentNone},
		{"", IntentNone},
		{"   ", IntentNone},
	}

	for _, tt := range tests {
		if got := triggers.MatchText(tt.text); got != tt.want {
			t.Errorf("MatchText(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestTriggers_MatchPostback(t *testing.T) {
	triggers := DefaultTriggers()

	tests := []struct {
		data string
		want Intent
	}{
		{"action=price", IntentPriceRetail},
		{"action=member_price", IntentPriceMember},
		{"action=recycling", IntentRecycling},
		{" action=price ", IntentPriceRetail},
		{"action=unknown", IntentNone},
		{"", IntentNone},
	}

	for _, tt := range tests {
		if got := triggers.MatchPostback(tt.data); got != tt.want {
			t.Errorf("MatchPostback(%q) = %q, want %q", tt.data, got, tt.want)
		}
	}
}
