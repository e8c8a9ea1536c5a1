package bot

import "strings"

// Intent is a resolved inbound request.
type Intent string

const (
	IntentNone        Intent = ""
	IntentPriceRetail Intent = "price_retail"
	IntentPriceMember Intent = "price_member"
	IntentRecycling   Intent = "recycling_info"
)

// Triggers holds the recognized inbound text phrases and postback codes.
// Matching is exact after trimming; fuzzy matching invites misfires in a
// group chat.
type Triggers struct {
	Price     []string
	Member    []string
	Recycling []string

	PricePostback     string
	MemberPostback    string
	RecyclingPostback string
}

// DefaultTriggers returns the shop's trigger phrases.
func DefaultTriggers() Triggers {
	return Triggers{
		Price:     []string{"查詢金價", "查詢黃金報價", "黃金報價"},
		Member:    []string{"會員金價", "會員報價"},
		Recycling: []string{"回收資訊", "黃金回收"},

		PricePostback:     "action=price",
		MemberPostback:    "action=member_price",
		RecyclingPostback: "action=recycling",
	}
}

// MatchText resolves a message text to an intent.
func (t Triggers) MatchText(text string) Intent {
	s := strings.TrimSpace(text)
	if s == "" {
		return IntentNone
	}
	if contains(t.Price, s) {
		return IntentPriceRetail
	}
	if contains(t.Member, s) {
		return IntentPriceMember
	}
	if contains(t.Recycling, s) {
		return IntentRecycling
	}
	return IntentNone
}

// MatchPostback resolves a postback data string to an intent.
func (t Triggers) MatchPostback(data string) Intent {
	switch strings.TrimSpace(data) {
	case t.PricePostback:
		return IntentPriceRetail
	case t.MemberPostback:
		return IntentPriceMember
	case t.RecyclingPostback:
		return IntentRecycling
	default:
		return IntentNone
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
