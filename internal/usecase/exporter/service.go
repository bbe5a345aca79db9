package exporter

import (
    "context"
    "fmt"
    "strings"

    exreg "linguist/internal/adapters/exporter/registry"
    "linguist/internal/domain"
    "linguist/internal/ports"
)

type Service struct {
    Files ports.FileRepository
    Units ports.UnitRepository
    Reg   *exreg.Registry
}

func New(files ports.FileRepository, units ports.UnitRepository, reg *exreg.Registry) *Service {
    return &Service{Files: files, Units: units, Reg: reg}
}

type ExportArgs struct {
    Name           string
    OverrideFormat string // optional
}

type ExportResult struct {
    Filename string
    Format   string
    Content  []byte
}

// Load rebuilds a stored catalog in document order.
func (s *Service) Load(ctx context.Context, name string) (*domain.File, *domain.Catalog, error) {
    f, err := s.Files.GetByName(ctx, name)
    if err != nil { return nil, nil, err }
    if f == nil { return nil, nil, fmt.Errorf("catalog %q: %w", name, domain.ErrNotFound) }
    units, err := s.Units.ListByFile(ctx, f.ID)
    if err != nil { return nil, nil, fmt.Errorf("load units of %q: %w", name, err) }
    return f, domain.CatalogOf(f, units), nil
}

func (s *Service) ExportFile(ctx context.Context, a ExportArgs) (ExportResult, error) {
    f, cat, err := s.Load(ctx, a.Name)
    if err != nil { return ExportResult{}, err }
    format := f.Format
    if a.OverrideFormat != "" { format = a.OverrideFormat }
    exp, ok := s.Reg.Get(format)
    if !ok { return ExportResult{}, fmt.Errorf("%w: no exporter for %s (available: %s)", domain.ErrUnsupportedFormat, format, strings.Join(s.Reg.Formats(), ", ")) }
    content, err := exp.Export(cat)
    if err != nil { return ExportResult{}, fmt.Errorf("export %q as %s: %w", a.Name, format, err) }
    return ExportResult{Filename: f.Path, Format: format, Content: content}, nil
}
