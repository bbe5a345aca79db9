package domain

import "time"

// File is a catalog stored in the database, addressed by a unique name.
type File struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Path           string    `json:"path"`
	Format         string    `json:"format"`
	Language       string    `json:"language"`
	SourceLanguage string    `json:"source_language"`
	Version        string    `json:"version"`
	Hash           string    `json:"hash"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Unit is a stored message. Seq preserves document order.
type Unit struct {
	ID     int64 `json:"id"`
	FileID int64 `json:"file_id"`
	Seq    int   `json:"seq"`
	Message
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CatalogOf rebuilds the catalog stored as f from its units in seq order.
func CatalogOf(f *File, units []*Unit) *Catalog {
	msgs := make([]*Message, 0, len(units))
	for _, u := range units {
		m := u.Message
		msgs = append(msgs, &m)
	}
	cat := NewCatalog(f.Language, msgs)
	cat.SourceLanguage = f.SourceLanguage
	if f.Version != "" {
		cat.Version = f.Version
	}
	return cat
}
