package line

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Jerryfang1/jinyuegold/internal/core"
	"github.com/Jerryfang1/jinyuegold/internal/reply"
)

func TestClient_Reply_Text(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/bot/message/reply" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer token-123" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatal(err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New("token-123")
	c.SetEndpoint(srv.URL)

	if err := c.Reply(context.Background(), "rt-1", reply.TextDocument("今日金價")); err != nil {
		t.Fatal(err)
	}

	if got["replyToken"] != "rt-1" {
		t.Errorf("replyToken = %v", got["replyToken"])
	}
	msgs := got["messages"].([]any)
	msg := msgs[0].(map[string]any)
	if msg["type"] != "text" || msg["text"] != "今日金價" {
		t.Errorf("unexpected message: %v", msg)
	}
}

func TestClient_Reply_Flex(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New("token-123")
	c.SetEndpoint(srv.URL)

	doc := &reply.Document{
		AltText: "今日金價 2025/06/13",
		Text:    "fallback",
		Flex:    json.RawMessage(`{"type":"bubble"}`),
	}
	if err := c.Reply(context.Background(), "rt-2", doc); err != nil {
		t.Fatal(err)
	}

	msg := got["messages"].([]any)[0].(map[string]any)
	if msg["type"] != "flex" {
		t.Errorf("type = %v, want flex", msg["type"])
	}
	if msg["altText"] != "今日金價 2025/06/13" {
		t.Errorf("altText = %v", msg["altText"])
	}
	if msg["contents"].(map[string]any)["type"] != "bubble" {
		t.Errorf("contents = %v", msg["contents"])
	}
}

func TestClient_Reply_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Invalid reply token"}`))
	}))
	defer srv.Close()

	c := New("token-123")
	c.SetEndpoint(srv.URL)

	err := c.Reply(context.Background(), "expired", reply.TextDocument("x"))
	if !errors.Is(err, core.ErrDeliveryFailed) {
		t.Fatalf("error = %v, want DELIVERY_FAILED", err)
	}
}

func TestClient_Reply_EmptyToken(t *testing.T) {
	c := New("token-123")
	if err := c.Reply(context.Background(), "", reply.TextDocument("x")); !errors.Is(err, core.ErrDeliveryFailed) {
		t.Fatalf("error = %v, want DELIVERY_FAILED", err)
	}
}

func TestParseWebhook(t *testing.T) {
	body := []byte(`{
		"destination": "Uabc",
		"events": [
			{"type":"message","replyToken":"rt","message":{"id":"1","type":"text","text":"黃金報價"}},
			{"type":"postback","replyToken":"rt2","postback":{"data":"action=recycling"}}
		]
	}`)

	req, err := ParseWebhook(body)
	if err != nil {
		t.Fatal(err)
	}
	if len(req.Events) != 2 {
		t.Fatalf("events = %d, want 2", len(req.Events))
	}
	if req.Events[0].Message.Text != "黃金報價" {
		t.Errorf("text = %q", req.Events[0].Message.Text)
	}
	if req.Events[1].Postback.Data != "action=recycling" {
		t.Errorf("postback = %q", req.Events[1].Postback.Data)
	}

	if _, err := ParseWebhook([]byte(`{`)); err == nil {
		t.Error("malformed body should fail")
	}
}
