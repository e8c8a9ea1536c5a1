package line

import "encoding/json"

// WebhookRequest is the envelope LINE posts to the webhook endpoint. Only
// the fields the bot acts on are decoded.
type WebhookRequest struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// Event is one webhook event.
type Event struct {
	Type       string    `json:"type"` // "message", "postback", ...
	ReplyToken string    `json:"replyToken"`
	Timestamp  int64     `json:"timestamp"`
	Source     *Source   `json:"source,omitempty"`
	Message    *Message  `json:"message,omitempty"`
	Postback   *Postback `json:"postback,omitempty"`
}

// Source identifies where the event came from.
type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId,omitempty"`
	GroupID string `json:"groupId,omitempty"`
}

// Message is the message part of a message event.
type Message struct {
	ID   string `json:"id"`
	Type string `json:"type"` // only "text" is handled
	Text string `json:"text,omitempty"`
}

// Postback is the data part of a postback event (button taps on the card).
type Postback struct {
	Data string `json:"data"`
}

// ParseWebhook decodes a webhook body.
func ParseWebhook(body []byte) (*WebhookRequest, error) {
	var req WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
