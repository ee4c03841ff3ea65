package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	total int64
	err   error
}

func (f fakeCounter) Count(ctx context.Context) (int64, error) {
	return f.total, f.err
}

func TestStoreCollector_GetTotalBooks(t *testing.T) {
	t.Run("reports the store count", func(t *testing.T) {
		c := NewStoreCollector(fakeCounter{total: 42})
		total, err := c.GetTotalBooks(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(42), total)
	})

	t.Run("propagates store errors", func(t *testing.T) {
		c := NewStoreCollector(fakeCounter{err: fmt.Errorf("connection refused")})
		_, err := c.GetTotalBooks(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting total books")
	})
}

func TestOTelExporter(t *testing.T) {
	ctx := context.Background()
	oe, err := NewOTelExporter(NewStoreCollector(fakeCounter{total: 7}), promclient.NewRegistry())
	require.NoError(t, err)
	defer oe.Shutdown(ctx)

	oe.RecordImported(ctx, 3, "success")
	oe.RecordExported(ctx, 5)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	oe.ServeHTTP().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "books_stored")
	assert.Contains(t, string(body), "books_imported")
	assert.Contains(t, string(body), "books_exported")
}
