// Package sheets implements the Google Sheets price feed.
package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Jerryfang1/jinyuegold/internal/core"
)

// Config holds the spreadsheet location and the header-label mapping. The
// feed is a hand-maintained sheet, so every column is looked up by its
// header text rather than position.
type Config struct {
	SpreadsheetID string
	ReadRange     string // e.g. "金價!A:H"

	// CredentialsJSON is the service-account key. Empty means ambient
	// credentials (option.WithoutAuthentication is not supported here).
	CredentialsJSON []byte

	DateColumn    string
	WeekdayColumn string
	TimeColumn    string
	QuoteColumns  map[string]core.Kind // header label -> kind
}

// DefaultColumns returns the shop sheet's header labels.
func DefaultColumns() map[string]core.Kind {
	return map[string]core.Kind{
		"飾金賣出": core.KindGoldSell,
		"飾金買入": core.KindGoldBuy,
		"鉑金賣出": core.KindPtSell,
		"鉑金買入": core.KindPtBuy,
		"條金":   core.KindBarGold,
	}
}

// Client reads price rows from one worksheet. The underlying service is
// long-lived and reused across queries; only the row data is fetched fresh.
type Client struct {
	svc *sheets.Service
	cfg Config
}

// New builds a Sheets client. Extra options are appended after the
// credential option so tests can point the service at a fake endpoint.
func New(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("sheets: spreadsheet_id is required"))
	}
	if cfg.ReadRange == "" {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("sheets: read_range is required"))
	}
	if cfg.DateColumn == "" {
		cfg.DateColumn = "日期"
	}
	if cfg.WeekdayColumn == "" {
		cfg.WeekdayColumn = "星期"
	}
	if cfg.TimeColumn == "" {
		cfg.TimeColumn = "時間"
	}
	if len(cfg.QuoteColumns) == 0 {
		cfg.QuoteColumns = DefaultColumns()
	}

	var clientOpts []option.ClientOption
	if len(cfg.CredentialsJSON) > 0 {
		jwtCfg, err := google.JWTConfigFromJSON(cfg.CredentialsJSON, sheets.SpreadsheetsReadonlyScope)
		if err != nil {
			return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("sheets: parsing credentials: %w", err))
		}
		clientOpts = append(clientOpts, option.WithTokenSource(jwtCfg.TokenSource(ctx)))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, core.WrapError(core.ErrSourceUnavailable, fmt.Errorf("sheets: creating service: %w", err))
	}

	return &Client{svc: svc, cfg: cfg}, nil
}

func (c *Client) Name() string { return "sheets" }

// FetchRecords reads the configured range and maps labeled columns onto
// price records. The first row is the header.
func (c *Client) FetchRecords(ctx context.Context) ([]core.PriceRecord, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.cfg.SpreadsheetID, c.cfg.ReadRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, core.WrapError(core.ErrSourceUnavailable, fmt.Errorf("sheets: reading %s: %w", c.cfg.ReadRange, err))
	}
	return RecordsFromRows(resp.Values, c.cfg), nil
}

// RecordsFromRows converts a raw value grid into price records. Short rows
// and unknown columns are tolerated; a missing header yields no records.
func RecordsFromRows(rows [][]any, cfg Config) []core.PriceRecord {
	if len(rows) < 2 {
		return nil
	}

	header := rows[0]
	dateIdx, weekdayIdx, timeIdx := -1, -1, -1
	kindIdx := make(map[int]core.Kind)
	for i, cell := range header {
		label := strings.TrimSpace(cellString(cell))
		switch label {
		case cfg.DateColumn:
			dateIdx = i
		case cfg.WeekdayColumn:
			weekdayIdx = i
		case cfg.TimeColumn:
			timeIdx = i
		default:
			if kind, ok := cfg.QuoteColumns[label]; ok {
				kindIdx[i] = kind
			}
		}
	}
	if dateIdx < 0 {
		return nil
	}

	records := make([]core.PriceRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := core.PriceRecord{Quotes: make(map[core.Kind]string)}
		rec.RawDate = cellAt(row, dateIdx)
		rec.Weekday = cellAt(row, weekdayIdx)
		rec.Time = cellAt(row, timeIdx)
		for i, kind := range kindIdx {
			if v := cellAt(row, i); v != "" {
				rec.Quotes[kind] = v
			}
		}
		if rec.RawDate == "" && len(rec.Quotes) == 0 {
			continue // blank separator row
		}
		records = append(records, rec)
	}
	return records
}

func cellAt(row []any, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(cellString(row[idx]))
}

// cellString renders one cell. The API returns strings under
// FORMATTED_VALUE, but numbers and bools appear when callers switch the
// render option.
func cellString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", x)
	}
}
