package metrics

import "context"

// Collector defines the interface for collecting metrics from the book store.
type Collector interface {
	// GetTotalBooks returns the number of stored books
	GetTotalBooks(ctx context.Context) (int64, error)
}
