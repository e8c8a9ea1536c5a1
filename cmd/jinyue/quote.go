package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jerryfang1/jinyuegold/internal/core"
	"github.com/Jerryfang1/jinyuegold/internal/logger"
	"github.com/Jerryfang1/jinyuegold/internal/quote"
	"github.com/Jerryfang1/jinyuegold/internal/source"
)

var (
	quoteVariant string
	quoteDemo    bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Look up today's quote and print the reply text",
	Long: `Runs one quote lookup against the configured sheet and prints the
rendered reply text to stdout. Useful for checking the feed and the
template without going through LINE.`,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVar(&quoteVariant, "variant", "retail", "pricing variant to apply")
	quoteCmd.Flags().BoolVar(&quoteDemo, "demo", false, "use built-in sample data instead of the sheet")
	rootCmd.AddCommand(quoteCmd)
}

func runQuote(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	ctx := cmd.Context()

	var src source.Source
	if quoteDemo {
		src = demoSource()
	} else {
		if cfg.Sheets.SpreadsheetID == "" || cfg.Sheets.ReadRange == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("sheets.spreadsheet_id and sheets.read_range are required (or use --demo)"))
		}
		src, err = newSheetsSource(ctx, cfg)
		if err != nil {
			return fmt.Errorf("creating sheets source: %w", err)
		}
	}

	variant := quote.Retail()
	if quoteVariant != "retail" {
		offsets, ok := cfg.Variant(quoteVariant)
		if !ok {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown pricing variant %q", quoteVariant))
		}
		variant = quote.Variant{Name: quoteVariant, Offsets: offsets}
	}

	engine := quote.New(src, quote.Config{
		MaxLookbackDays: cfg.Locator.MaxLookbackDays,
		Sentinel:        cfg.Reply.Sentinel,
	}, log)

	result, err := engine.Resolve(ctx, variant)
	if err != nil {
		return err
	}

	tpl, err := loadTemplate(cfg)
	if err != nil {
		return fmt.Errorf("loading reply template: %w", err)
	}
	doc, err := tpl.Render(result.Values)
	if err != nil {
		return fmt.Errorf("rendering reply: %w", err)
	}

	fmt.Println(doc.Text)
	if result.Resolved.Stale() {
		fmt.Printf("\n(data from %s, %d day(s) old)\n",
			result.Resolved.Date.Format("2006/01/02"), result.Resolved.OffsetDays)
	}
	return nil
}

// demoSource returns a static feed with a record for today, for trying
// the template offline.
func demoSource() source.Source {
	today := time.Now()
	return &source.Static{
		Records: []core.PriceRecord{
			{
				RawDate: today.Format("2006/1/2"),
				Weekday: today.Format("Mon"),
				Time:    "09:00",
				Quotes: map[core.Kind]string{
					core.KindGoldSell: "12345",
					core.KindGoldBuy:  "11890",
					core.KindPtSell:   "4200",
					core.KindPtBuy:    "3900",
					core.KindBarGold:  "12100",
				},
			},
		},
	}
}
