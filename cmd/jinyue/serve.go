package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Jerryfang1/jinyuegold/internal/api"
	"github.com/Jerryfang1/jinyuegold/internal/bot"
	"github.com/Jerryfang1/jinyuegold/internal/config"
	"github.com/Jerryfang1/jinyuegold/internal/core"
	"github.com/Jerryfang1/jinyuegold/internal/line"
	"github.com/Jerryfang1/jinyuegold/internal/logger"
	"github.com/Jerryfang1/jinyuegold/internal/metrics"
	"github.com/Jerryfang1/jinyuegold/internal/quote"
	"github.com/Jerryfang1/jinyuegold/internal/reply"
	"github.com/Jerryfang1/jinyuegold/internal/source"
	"github.com/Jerryfang1/jinyuegold/internal/source/sheets"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Initialize logger
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("starting jinyue server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	ctx := cmd.Context()

	src, err := newSheetsSource(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating sheets source: %w", err)
	}

	tpl, err := loadTemplate(cfg)
	if err != nil {
		return fmt.Errorf("loading reply template: %w", err)
	}

	engine := quote.New(src, quote.Config{
		MaxLookbackDays: cfg.Locator.MaxLookbackDays,
		Sentinel:        cfg.Reply.Sentinel,
	}, log)

	var reg *metrics.Registry
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
		engine.SetMetrics(reg)
	}

	b := bot.New(bot.Config{
		Engine:   engine,
		Template: tpl,
		Replier:  line.New(cfg.Line.ChannelAccessToken),
		Triggers: triggersFrom(cfg),
		Member:   variantFrom(cfg, "member"),
		Messages: messagesFrom(cfg),
	}, log)
	if reg != nil {
		b.SetMetrics(reg)
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	server, err := api.NewServer(api.Config{
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		ChannelSecret: cfg.Line.ChannelSecret,
		MetricsPath:   metricsPath,
	}, api.Deps{
		Bot:      b,
		Engine:   engine,
		Variants: apiVariants(cfg),
		Metrics:  reg,
	}, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down jinyue server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func loadConfig(log *zap.Logger) (*config.Config, error) {
	if cfgFile == "" {
		log.Warn("no config file specified, using defaults")
		return config.Defaults(), nil
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newSheetsSource(ctx context.Context, cfg *config.Config) (source.Source, error) {
	creds, err := cfg.Sheets.Credentials()
	if err != nil {
		return nil, err
	}

	columns := sheets.DefaultColumns()
	if len(cfg.Sheets.Columns) > 0 {
		columns = make(map[string]core.Kind, len(cfg.Sheets.Columns))
		for label, kindName := range cfg.Sheets.Columns {
			kind, ok := core.ParseKind(kindName)
			if !ok {
				return nil, core.WrapError(core.ErrConfigInvalid,
					fmt.Errorf("sheets column %q maps to unknown kind %q", label, kindName))
			}
			columns[label] = kind
		}
	}

	return sheets.New(ctx, sheets.Config{
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		ReadRange:       cfg.Sheets.ReadRange,
		CredentialsJSON: creds,
		DateColumn:      cfg.Sheets.DateColumn,
		WeekdayColumn:   cfg.Sheets.WeekdayColumn,
		TimeColumn:      cfg.Sheets.TimeColumn,
		QuoteColumns:    columns,
	})
}

func loadTemplate(cfg *config.Config) (*reply.Template, error) {
	if cfg.Reply.TemplatePath != "" {
		return reply.Load(cfg.Reply.TemplatePath, cfg.Reply.Sentinel)
	}
	return reply.Default(cfg.Reply.Sentinel), nil
}

func triggersFrom(cfg *config.Config) bot.Triggers {
	t := bot.DefaultTriggers()
	if len(cfg.Reply.PriceTriggers) > 0 {
		t.Price = cfg.Reply.PriceTriggers
	}
	if len(cfg.Reply.MemberTriggers) > 0 {
		t.Member = cfg.Reply.MemberTriggers
	}
	if len(cfg.Reply.RecyclingTriggers) > 0 {
		t.Recycling = cfg.Reply.RecyclingTriggers
	}
	return t
}

func messagesFrom(cfg *config.Config) bot.Messages {
	m := bot.DefaultMessages()
	if cfg.Reply.SourceUnavailableText != "" {
		m.SourceUnavailable = cfg.Reply.SourceUnavailableText
	}
	if cfg.Reply.NoRecentDataText != "" {
		m.NoRecentData = cfg.Reply.NoRecentDataText
	}
	if cfg.Reply.RecyclingInfo != "" {
		m.RecyclingInfo = cfg.Reply.RecyclingInfo
	}
	return m
}

func variantFrom(cfg *config.Config, name string) quote.Variant {
	offsets, ok := cfg.Variant(name)
	if !ok {
		return quote.Retail()
	}
	return quote.Variant{Name: name, Offsets: offsets}
}

func apiVariants(cfg *config.Config) map[string]quote.Variant {
	variants := map[string]quote.Variant{
		"retail": quote.Retail(),
	}
	for name := range cfg.Pricing.Variants {
		variants[name] = variantFrom(cfg, name)
	}
	return variants
}
