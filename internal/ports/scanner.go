package ports

import "linguist/internal/domain"

// ScannedString is one translatable literal found in UI source code.
type ScannedString struct {
	Context  string
	Source   string
	Comment  string
	Location domain.Location
}

type Scanner interface {
	Format() string
	// Extensions lists the lower-case file name extensions the scanner reads.
	Extensions() []string
	Scan(filename string, data []byte) ([]ScannedString, error)
}
