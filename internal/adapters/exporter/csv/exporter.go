package csv

import (
    "bytes"
    "encoding/csv"
    "linguist/internal/domain"
)

type Exporter struct {
    // Comma overrides the field separator; zero means ','.
    Comma rune
}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "csv" }

func (e *Exporter) Export(cat *domain.Catalog) ([]byte, error) {
    var buf bytes.Buffer
    w := csv.NewWriter(&buf)
    if e.Comma != 0 {
        w.Comma = e.Comma
    }
    _ = w.Write([]string{"context", "source", "translation", "status", "comment"})
    for _, m := range cat.Messages() {
        if err := w.Write([]string{m.Context, m.Source, m.Text(), m.Status.String(), m.Comment}); err != nil {
            return nil, err
        }
    }
    w.Flush()
    return buf.Bytes(), w.Error()
}
