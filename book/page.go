package book

import (
	"fmt"
	"math"
)

const (
	DefaultPage     = 0
	DefaultPageSize = 10
)

// PageRequest asks for one zero-indexed page of books
type PageRequest struct {
	Number int
	Size   int
	Sort   SortOrder
}

func (p PageRequest) Validate() error {
	if p.Number < 0 {
		return fmt.Errorf("page index must not be less than zero: %w", ErrInvalidPage)
	}
	if p.Size < 1 {
		return fmt.Errorf("page size must not be less than one: %w", ErrInvalidPage)
	}
	if p.Number > math.MaxInt/p.Size {
		return fmt.Errorf("page %d of size %d is out of range: %w", p.Number, p.Size, ErrInvalidPage)
	}
	return nil
}

// Offset is the number of records skipped before this page. Only valid after Validate.
func (p PageRequest) Offset() int {
	return p.Number * p.Size
}

// Page is a bounded slice of the result set plus its metadata
type Page struct {
	Books         []Book
	TotalPages    int
	TotalElements int64
	Number        int
	Size          int
}

func NewPage(books []Book, req PageRequest, total int64) Page {
	if books == nil {
		books = []Book{}
	}
	totalPages := 0
	if req.Size > 0 {
		size := int64(req.Size)
		totalPages = int(total / size)
		if total%size != 0 {
			totalPages++
		}
	}
	return Page{
		Books:         books,
		TotalPages:    totalPages,
		TotalElements: total,
		Number:        req.Number,
		Size:          req.Size,
	}
}
