package ports

import "linguist/internal/domain"

type Exporter interface {
	Format() string
	Export(cat *domain.Catalog) ([]byte, error)
}
