package quote

import (
	"strconv"
	"strings"

	"github.com/Jerryfang1/jinyuegold/internal/core"
)

// Variant is a named pricing adjustment policy. Offsets are flat per-kind
// amounts added to the raw quote, e.g. a member spread of sell -200 and
// buy +300. The retail variant has no offsets.
type Variant struct {
	Name    string
	Offsets map[core.Kind]float64
}

// Retail is the unadjusted policy.
func Retail() Variant { return Variant{Name: "retail"} }

// Apply adjusts the raw cell text for a kind. The second return is false
// when an adjustment is required but the cell is not numeric; an offset is
// never applied to a non-numeric value. Kinds without an offset pass
// through unchanged.
func (v Variant) Apply(kind core.Kind, raw string) (string, bool) {
	offset, ok := v.Offsets[kind]
	if !ok || offset == 0 {
		return strings.TrimSpace(raw), true
	}
	n, err := parsePrice(raw)
	if err != nil {
		return "", false
	}
	return strconv.FormatFloat(n+offset, 'f', -1, 64), true
}

// parsePrice reads a feed price cell. Thousands separators show up when
// the sheet cell is formatted as currency.
func parsePrice(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	return strconv.ParseFloat(s, 64)
}
