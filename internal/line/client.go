// Package line is the Messaging API glue: webhook envelope types,
// signature validation, and the reply client. It is deliberately thin;
// all decision logic lives in the quote engine.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Jerryfang1/jinyuegold/internal/core"
	"github.com/Jerryfang1/jinyuegold/internal/reply"
)

const defaultEndpoint = "https://api.line.me"

// Client talks to the Messaging API reply endpoint.
type Client struct {
	token    string
	endpoint string
	client   *http.Client
}

// New creates a reply client with the channel access token.
func New(token string) *Client {
	return &Client{
		token:    token,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// SetEndpoint overrides the API base URL, used by tests.
func (c *Client) SetEndpoint(url string) { c.endpoint = url }

// message is one entry of a reply payload.
type message struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	AltText  string          `json:"altText,omitempty"`
	Contents json.RawMessage `json:"contents,omitempty"`
}

// Reply sends a completed document back on the event's reply token. A
// document with a card layout goes out as a flex message, otherwise as
// plain text.
func (c *Client) Reply(ctx context.Context, replyToken string, doc *reply.Document) error {
	if replyToken == "" {
		return core.WrapError(core.ErrDeliveryFailed, fmt.Errorf("empty reply token"))
	}

	var msg message
	if len(doc.Flex) > 0 {
		msg = message{Type: "flex", AltText: doc.AltText, Contents: doc.Flex}
	} else {
		msg = message{Type: "text", Text: doc.Text}
	}

	payload := map[string]any{
		"replyToken": replyToken,
		"messages":   []message{msg},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return core.WrapError(core.ErrDeliveryFailed, fmt.Errorf("marshaling reply: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v2/bot/message/reply", bytes.NewReader(body))
	if err != nil {
		return core.WrapError(core.ErrDeliveryFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return core.WrapError(core.ErrDeliveryFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&apiErr)
		return core.WrapError(core.ErrDeliveryFailed,
			fmt.Errorf("reply API status %d: %s", resp.StatusCode, apiErr.Message))
	}
	return nil
}
