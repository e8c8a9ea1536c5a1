package source

import (
	"context"

	"github.com/Jerryfang1/jinyuegold/internal/core"
)

// Static is a fixed in-memory Source for tests and the CLI demo path.
type Static struct {
	Records []core.PriceRecord
	Err     error
}

func (s *Static) Name() string { return "static" }

// FetchRecords returns a copy of the configured records so callers cannot
// mutate the source.
func (s *Static) FetchRecords(ctx context.Context) ([]core.PriceRecord, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]core.PriceRecord, len(s.Records))
	copy(out, s.Records)
	return out, nil
}
