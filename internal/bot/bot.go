// Package bot routes webhook events to the quote engine and sends the
// rendered reply back through the chat platform.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Jerryfang1/jinyuegold/internal/core"
	"github.com/Jerryfang1/jinyuegold/internal/line"
	"github.com/Jerryfang1/jinyuegold/internal/metrics"
	"github.com/Jerryfang1/jinyuegold/internal/quote"
	"github.com/Jerryfang1/jinyuegold/internal/reply"
)

// Replier delivers a completed document on a reply token.
type Replier interface {
	Reply(ctx context.Context, replyToken string, doc *reply.Document) error
}

// Messages are the user-visible failure and info texts. A feed outage and
// a feed gap read differently so the shop knows which one to chase.
type Messages struct {
	SourceUnavailable string
	NoRecentData      string // fmt pattern, %s = reference date
	RecyclingInfo     string
}

// DefaultMessages returns the shop's reply texts.
func DefaultMessages() Messages {
	return Messages{
		SourceUnavailable: "❗ 報價系統暫時無法連線，請稍後再試或聯繫店家。",
		NoRecentData:      "❗ 未找到 %s（含近日）的金價資料，請稍後再試或聯繫店家。",
		RecyclingInfo:     "♻️ 黃金回收：本店提供舊金回收服務，依當日買入價計算，歡迎攜帶身分證件至門市辦理。",
	}
}

// Bot handles inbound events one at a time; it has no mutable state of
// its own.
type Bot struct {
	engine   *quote.Engine
	template *reply.Template
	replier  Replier
	triggers Triggers
	variants map[Intent]quote.Variant
	msgs     Messages
	logger   *zap.Logger
	metrics  *metrics.Registry
	now      func() time.Time
}

// Config wires up a bot.
type Config struct {
	Engine   *quote.Engine
	Template *reply.Template
	Replier  Replier
	Triggers Triggers
	Member   quote.Variant
	Messages Messages
}

// New creates a bot. logger may be nil.
func New(cfg Config, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	member := cfg.Member
	if member.Name == "" {
		member = quote.Retail()
	}
	return &Bot{
		engine:   cfg.Engine,
		template: cfg.Template,
		replier:  cfg.Replier,
		triggers: cfg.Triggers,
		variants: map[Intent]quote.Variant{
			IntentPriceRetail: quote.Retail(),
			IntentPriceMember: member,
		},
		msgs:   cfg.Messages,
		logger: logger,
		now:    time.Now,
	}
}

// SetMetrics attaches a metrics registry.
func (b *Bot) SetMetrics(reg *metrics.Registry) { b.metrics = reg }

// SetClock overrides the clock used in failure messages.
func (b *Bot) SetClock(now func() time.Time) { b.now = now }

// HandleEvents processes a webhook delivery. Events are handled strictly
// in order, one at a time; a failure on one event does not stop the rest.
func (b *Bot) HandleEvents(ctx context.Context, events []line.Event) {
	for _, ev := range events {
		if err := b.handleEvent(ctx, ev); err != nil {
			b.logger.Error("event handling failed",
				zap.String("type", ev.Type),
				zap.Error(err),
			)
		}
	}
}

func (b *Bot) handleEvent(ctx context.Context, ev line.Event) error {
	intent := b.intentOf(ev)
	if intent == IntentNone {
		return nil // not for us, stay silent
	}

	doc := b.documentFor(ctx, intent)
	err := b.replier.Reply(ctx, ev.ReplyToken, doc)
	if b.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		b.metrics.RecordReply(string(intent), status)
	}
	if err != nil {
		return err
	}

	b.logger.Info("reply sent", zap.String("intent", string(intent)))
	return nil
}

func (b *Bot) intentOf(ev line.Event) Intent {
	switch ev.Type {
	case "message":
		if ev.Message == nil || ev.Message.Type != "text" {
			return IntentNone
		}
		return b.triggers.MatchText(ev.Message.Text)
	case "postback":
		if ev.Postback == nil {
			return IntentNone
		}
		return b.triggers.MatchPostback(ev.Postback.Data)
	default:
		return IntentNone
	}
}

// documentFor produces the reply for an intent. Engine failures collapse to
// user-visible text; nothing here is fatal.
func (b *Bot) documentFor(ctx context.Context, intent Intent) *reply.Document {
	if intent == IntentRecycling {
		// Informational flow, no lookup.
		return reply.TextDocument(b.msgs.RecyclingInfo)
	}

	res, err := b.engine.Resolve(ctx, b.variants[intent])
	if err != nil {
		switch {
		case errors.Is(err, core.ErrSourceUnavailable):
			return reply.TextDocument(b.msgs.SourceUnavailable)
		case errors.Is(err, core.ErrNoMatchingRecord):
			date := b.now().Format("2006/01/02")
			return reply.TextDocument(fmt.Sprintf(b.msgs.NoRecentData, date))
		default:
			return reply.TextDocument(b.msgs.SourceUnavailable)
		}
	}

	doc, err := b.template.Render(res.Values)
	if err != nil {
		// Template trouble is a deploy problem; fall back to the text body
		// of the failure message rather than a broken card.
		b.logger.Error("template render failed", zap.Error(err))
		return reply.TextDocument(b.msgs.SourceUnavailable)
	}
	return doc
}
