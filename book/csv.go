package book

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var exportHeader = []string{"ID", "Title", "Author"}

// Export writes every book as CSV straight to w, header first, ordered by id.
// It returns the number of data rows written.
func (s *Service) Export(ctx context.Context, w io.Writer) (int, error) {
	all, err := s.Repo.SelectAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("selecting books: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}
	for i, b := range all {
		record := []string{strconv.FormatInt(b.ID, 10), b.Title, b.Author}
		if err := cw.Write(record); err != nil {
			return i, fmt.Errorf("writing book %d: %w", b.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return len(all), fmt.Errorf("flushing csv: %w", err)
	}
	return len(all), nil
}

// Import reads title/author rows from r and inserts one book per row.
// The first record is always treated as the header. When the header names
// "title" and "author" columns those are used, otherwise the first two columns.
// The import stops at the first failing row; rows saved before it are kept.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return 0, ErrEmptyFile
	}
	if err != nil {
		return 0, fmt.Errorf("reading header: %w", err)
	}
	titleCol, authorCol := importColumns(header)
	width := max(titleCol, authorCol) + 1

	imported := 0
	for row := 2; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("reading row %d: %w", row, err)
		}
		if len(record) < width {
			return imported, fmt.Errorf("row %d has %d columns: %w", row, len(record), ErrMalformedRow)
		}
		b := Book{
			Title:  strings.TrimSpace(record[titleCol]),
			Author: strings.TrimSpace(record[authorCol]),
		}
		if _, err := s.Repo.Insert(ctx, b); err != nil {
			return imported, fmt.Errorf("inserting row %d: %w", row, err)
		}
		imported++
	}
	return imported, nil
}

func importColumns(header []string) (title, author int) {
	title, author = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "title":
			if title < 0 {
				title = i
			}
		case "author":
			if author < 0 {
				author = i
			}
		}
	}
	if title < 0 || author < 0 {
		return 0, 1
	}
	return title, author
}
