package metrics

import (
	"context"
	"fmt"
)

// Counter is the part of the book store the collector needs
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// StoreCollector implements the Collector interface on top of the book store
type StoreCollector struct {
	store Counter
}

// NewStoreCollector creates a new store metrics collector
func NewStoreCollector(store Counter) *StoreCollector {
	return &StoreCollector{
		store: store,
	}
}

// GetTotalBooks returns the number of stored books
func (c *StoreCollector) GetTotalBooks(ctx context.Context) (int64, error) {
	total, err := c.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("getting total books: %w", err)
	}
	return total, nil
}
