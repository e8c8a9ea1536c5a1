// Package quote resolves a "today's price" query against the upstream
// feed: locate the freshest usable record, apply the pricing variant, and
// produce placeholder values for rendering.
package quote

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Jerryfang1/jinyuegold/internal/core"
	"github.com/Jerryfang1/jinyuegold/internal/metrics"
	"github.com/Jerryfang1/jinyuegold/internal/reply"
	"github.com/Jerryfang1/jinyuegold/internal/source"
)

// placeholderByKind maps quote kinds to their template placeholder names.
var placeholderByKind = map[core.Kind]string{
	core.KindGoldSell: "GOLD_SELL",
	core.KindGoldBuy:  "GOLD_BUY",
	core.KindPtSell:   "PT_SELL",
	core.KindPtBuy:    "PT_BUY",
	core.KindBarGold:  "BAR_GOLD",
}

// Config holds engine tuning.
type Config struct {
	MaxLookbackDays int
	Sentinel        string // substituted for missing or non-numeric values
}

// Result is one resolved query: the located record plus the fully
// resolved placeholder values.
type Result struct {
	Resolved core.ResolvedQuote
	Values   reply.Values
}

// Engine answers quote queries. The source is injected so tests can
// substitute a static feed; the clock is injected for the same reason.
type Engine struct {
	source  source.Source
	cfg     Config
	logger  *zap.Logger
	metrics *metrics.Registry
	now     func() time.Time
}

// New creates an engine. logger may be nil; metrics may be nil.
func New(src source.Source, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxLookbackDays < 0 {
		cfg.MaxLookbackDays = 0
	}
	if cfg.Sentinel == "" {
		cfg.Sentinel = "-"
	}
	return &Engine{
		source: src,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// SetMetrics attaches a metrics registry.
func (e *Engine) SetMetrics(reg *metrics.Registry) { e.metrics = reg }

// SetClock overrides the reference-date clock.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// Resolve runs one query: fetch the feed fresh, locate the best record for
// today, and build the placeholder values for the given variant. A failed
// fetch surfaces as SOURCE_UNAVAILABLE; an exhausted lookback window as
// NO_MATCHING_RECORD with the reference date in the cause.
func (e *Engine) Resolve(ctx context.Context, v Variant) (*Result, error) {
	start := time.Now()
	records, err := e.source.FetchRecords(ctx)
	if e.metrics != nil {
		e.metrics.RecordSourceFetch(time.Since(start).Seconds())
	}
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordLookup("source_error")
		}
		e.logger.Error("feed fetch failed",
			zap.String("source", e.source.Name()),
			zap.Error(err),
		)
		return nil, core.WrapError(core.ErrSourceUnavailable, err)
	}

	resolved, err := Locate(records, e.now(), e.cfg.MaxLookbackDays)
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordLookup("miss")
		}
		e.logger.Warn("no usable record",
			zap.Int("records", len(records)),
			zap.Int("max_lookback_days", e.cfg.MaxLookbackDays),
		)
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.RecordLookup("hit")
		e.metrics.RecordLookbackOffset(resolved.OffsetDays)
	}
	e.logger.Info("record located",
		zap.String("date", resolved.Date.Format("2006-01-02")),
		zap.Int("offset_days", resolved.OffsetDays),
		zap.String("variant", v.Name),
	)

	return &Result{Resolved: resolved, Values: e.values(resolved, v)}, nil
}

// values builds the full placeholder set. Every placeholder resolves:
// missing cells and cells a variant cannot adjust get the sentinel.
func (e *Engine) values(resolved core.ResolvedQuote, v Variant) reply.Values {
	vals := reply.Values{
		"DATE":    resolved.Date.Format("2006/01/02"),
		"VARIANT": v.Name,
	}
	vals["WEEKDAY"] = orSentinel(resolved.Record.Weekday, e.cfg.Sentinel)
	vals["TIME"] = orSentinel(resolved.Record.Time, e.cfg.Sentinel)

	for kind, placeholder := range placeholderByKind {
		raw, ok := resolved.Record.Quote(kind)
		if !ok {
			vals[placeholder] = e.cfg.Sentinel
			continue
		}
		adjusted, ok := v.Apply(kind, raw)
		if !ok {
			vals[placeholder] = e.cfg.Sentinel
			continue
		}
		vals[placeholder] = adjusted
	}
	return vals
}

func orSentinel(s, sentinel string) string {
	if s == "" {
		return sentinel
	}
	return s
}
