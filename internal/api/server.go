// internal/api/server.go
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Jerryfang1/jinyuegold/internal/api/middleware"
	"github.com/Jerryfang1/jinyuegold/internal/api/response"
	"github.com/Jerryfang1/jinyuegold/internal/bot"
	"github.com/Jerryfang1/jinyuegold/internal/core"
	"github.com/Jerryfang1/jinyuegold/internal/line"
	"github.com/Jerryfang1/jinyuegold/internal/metrics"
	"github.com/Jerryfang1/jinyuegold/internal/quote"
)

const maxWebhookBody = 1 << 20 // 1MB

// Config holds server configuration.
type Config struct {
	Host          string
	Port          int
	ChannelSecret string
	MetricsPath   string // empty disables the metrics endpoint
}

// Deps are the collaborators the HTTP surface exposes.
type Deps struct {
	Bot      *bot.Bot
	Engine   *quote.Engine
	Variants map[string]quote.Variant // name -> policy for the JSON API
	Metrics  *metrics.Registry
}

// Server is the webhook-facing HTTP server.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	cfg        Config
	deps       Deps
}

// NewServer creates the HTTP server and wires its routes.
func NewServer(cfg Config, deps Deps, logger *zap.Logger) (*Server, error) {
	if deps.Bot == nil {
		return nil, fmt.Errorf("creating server: bot is required")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("creating server: engine is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	s := &Server{
		logger: logger,
		mux:    mux,
		cfg:    cfg,
		deps:   deps,
	}
	s.setupRoutes()

	var handler http.Handler = mux
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}
	handler = middleware.RequestLogging(logger)(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/webhook", s.handleWebhook)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/api/quote/today", s.handleQuoteToday)

	if s.deps.Metrics != nil && s.cfg.MetricsPath != "" {
		s.mux.Handle(s.cfg.MetricsPath, promhttp.HandlerFor(s.deps.Metrics.Registry, promhttp.HandlerOpts{}))
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the full middleware-wrapped handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// handleWebhook verifies the platform signature and hands the events to
// the bot. Replies are sent synchronously before the 200 goes back.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	if !line.ValidateSignature(s.cfg.ChannelSecret, body, r.Header.Get("X-Line-Signature")) {
		s.logger.Warn("webhook signature rejected")
		response.Error(w, http.StatusBadRequest, core.WrapError(core.ErrSignatureInvalid, nil))
		return
	}

	req, err := line.ParseWebhook(body)
	if err != nil {
		response.Error(w, http.StatusBadRequest, fmt.Errorf("parsing webhook: %w", err))
		return
	}

	s.deps.Bot.HandleEvents(r.Context(), req.Events)

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleQuoteToday is a read-only JSON view of the same resolution the
// bot performs, handy for monitoring and the shop's own site.
func (s *Server) handleQuoteToday(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	variant := quote.Retail()
	if name := r.URL.Query().Get("variant"); name != "" && name != "retail" {
		v, ok := s.deps.Variants[name]
		if !ok {
			response.Error(w, http.StatusBadRequest,
				core.WrapError(core.ErrConfigInvalid, fmt.Errorf("unknown variant %q", name)))
			return
		}
		variant = v
	}

	res, err := s.deps.Engine.Resolve(r.Context(), variant)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrSourceUnavailable):
			response.Error(w, http.StatusBadGateway, err)
		case errors.Is(err, core.ErrNoMatchingRecord):
			response.Error(w, http.StatusNotFound, err)
		default:
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"date":        res.Resolved.Date.Format("2006-01-02"),
		"offset_days": res.Resolved.OffsetDays,
		"stale":       res.Resolved.Stale(),
		"variant":     variant.Name,
		"values":      res.Values,
	})
}
