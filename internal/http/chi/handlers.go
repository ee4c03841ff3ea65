package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/bookshelf/book"
	"github.com/marcelsud/bookshelf/metrics"
)

const (
	defaultExportFileName = "books.csv"
	defaultMaxUploadBytes = 10 << 20
)

// Options tunes the HTTP layer. Zero values fall back to sensible defaults.
type Options struct {
	LogLevel       string
	LogJSON        bool
	ExportFileName string
	MaxUploadBytes int64
	// Metrics is optional; when nil /metrics is not mounted and nothing is recorded
	Metrics *metrics.OTelExporter
}

func Handlers(ctx context.Context, bookService book.UseCase, opts Options) *chi.Mux {
	if opts.ExportFileName == "" {
		opts.ExportFileName = defaultExportFileName
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	logger := httplog.NewLogger("bookshelf", httplog.Options{
		JSON:     opts.LogJSON,
		Concise:  !opts.LogJSON,
		LogLevel: opts.LogLevel,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.ServeHTTP())
	}

	r.Method(http.MethodGet, "/getAllBooks", getAllBooks(bookService))
	r.Method(http.MethodGet, "/getBookById/{id}", getBookByID(bookService))
	r.Method(http.MethodPost, "/addBook", addBook(bookService))
	r.Method(http.MethodPost, "/updateBookById/{id}", updateBookByID(bookService))
	r.Method(http.MethodDelete, "/deleteBookById/{id}", deleteBookByID(bookService))
	r.Method(http.MethodGet, "/getBooksByTitle", getBooksByTitle(bookService))
	r.Method(http.MethodGet, "/exportCsv", exportCsv(bookService, opts.ExportFileName, opts.Metrics))
	r.Method(http.MethodPost, "/importCsv", importCsv(bookService, opts.MaxUploadBytes, opts.Metrics))

	return r
}
