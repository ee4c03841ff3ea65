package chi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/httplog"
	"github.com/google/uuid"
	"github.com/marcelsud/bookshelf/book"
	"github.com/marcelsud/bookshelf/metrics"
)

const (
	msgUploadRequired = "Please upload a CSV file."
	msgImportFailed   = "Error processing CSV file."
	msgImported       = "CSV file imported successfully."
)

// countingWriter remembers whether the response body has been started
type countingWriter struct {
	w       io.Writer
	written int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.written += int64(n)
	return n, err
}

func exportCsv(bookService book.UseCase, fileName string, m *metrics.OTelExporter) http.Handler {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", disposition)

		cw := &countingWriter{w: w}
		n, err := bookService.Export(r.Context(), cw)
		if err != nil {
			oplog := httplog.LogEntry(r.Context())
			oplog.Error().Err(err).Int("rows", n).Msg("exporting books")
			if cw.written == 0 {
				w.Header().Del("Content-Disposition")
				w.Header().Del("Content-Type")
				w.WriteHeader(http.StatusInternalServerError)
			}
			return
		}
		if m != nil {
			m.RecordExported(r.Context(), n)
		}
	})
}

func importCsv(bookService book.UseCase, maxUploadBytes int64, m *metrics.OTelExporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		file, header, err := r.FormFile("file")
		if err != nil {
			writeText(w, http.StatusBadRequest, msgUploadRequired)
			return
		}
		defer file.Close()
		if header.Size == 0 {
			writeText(w, http.StatusBadRequest, msgUploadRequired)
			return
		}

		importID := uuid.NewString()
		oplog := httplog.LogEntry(r.Context()).With().
			Str("import_id", importID).
			Str("file", header.Filename).
			Logger()

		n, err := bookService.Import(r.Context(), file)
		if err != nil {
			if m != nil && n > 0 {
				m.RecordImported(r.Context(), n, "failure")
			}
			if errors.Is(err, book.ErrEmptyFile) {
				writeText(w, http.StatusBadRequest, msgUploadRequired)
				return
			}
			oplog.Error().Err(err).Int("rows", n).Msg("importing books")
			writeText(w, http.StatusInternalServerError, msgImportFailed)
			return
		}
		oplog.Info().Int("rows", n).Msg("books imported")
		if m != nil {
			m.RecordImported(r.Context(), n, "success")
		}
		writeText(w, http.StatusOK, msgImported)
	})
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	fmt.Fprint(w, msg)
}
