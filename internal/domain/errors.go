package domain

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrInvalidCatalog    = errors.New("invalid catalog")
)
