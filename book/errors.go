package book

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidPage  = errors.New("invalid page request")
	ErrEmptyFile    = errors.New("empty file")
	ErrMalformedRow = errors.New("malformed row")
)
