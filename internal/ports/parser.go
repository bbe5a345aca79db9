package ports

import (
    "linguist/internal/domain"
)

type ParseResult struct {
    Catalog *domain.Catalog
    // Partial marks flat formats that carry no locations, translator
    // comments or plural forms beyond the first.
    Partial bool
    // StatusImplied marks formats whose status is derived from the text.
    StatusImplied bool
}

type Parser interface {
    Format() string
    Parse(data []byte) (ParseResult, error)
}
