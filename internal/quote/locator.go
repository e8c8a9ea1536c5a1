package quote

import (
	"fmt"
	"time"

	"github.com/Jerryfang1/jinyuegold/internal/core"
)

// Locate searches records for the best entry for referenceDate. It tries
// the reference day first, then walks back one day at a time up to
// maxLookbackDays, so a closed day or a late feed update still yields the
// freshest available record. Records are scanned in source order and the
// first match for a day wins; rows whose date cannot be parsed are skipped.
func Locate(records []core.PriceRecord, referenceDate time.Time, maxLookbackDays int) (core.ResolvedQuote, error) {
	ref := Day(referenceDate)
	for offset := 0; offset <= maxLookbackDays; offset++ {
		candidate := ref.AddDate(0, 0, -offset)
		for _, rec := range records {
			d, err := ParseFeedDate(rec.RawDate)
			if err != nil {
				continue // junk row or stray header, not fatal
			}
			if SameDay(d, candidate) {
				return core.ResolvedQuote{Record: rec, Date: candidate, OffsetDays: offset}, nil
			}
		}
	}
	return core.ResolvedQuote{}, core.WrapError(core.ErrNoMatchingRecord,
		fmt.Errorf("no record within %d days of %s", maxLookbackDays, ref.Format("2006-01-02")))
}
