// Package source defines the upstream price feed boundary.
package source

import (
	"context"

	"github.com/Jerryfang1/jinyuegold/internal/core"
)

// Source is the upstream feed. Records come back in source order, one row
// per day, freshly fetched on every call; the engine never caches them
// across queries.
type Source interface {
	// Name returns the unique identifier for this source
	Name() string

	// FetchRecords returns all price rows in feed order.
	FetchRecords(ctx context.Context) ([]core.PriceRecord, error)
}
