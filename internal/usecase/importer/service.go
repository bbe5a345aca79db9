package importer

import (
    "context"
    "crypto/sha256"
    "encoding/hex"
    "fmt"
    "log/slog"
    "path/filepath"
    "strings"

    parreg "linguist/internal/adapters/parser/registry"
    "linguist/internal/domain"
    "linguist/internal/ports"
    "linguist/internal/usecase/merge"
)

type Service struct {
    Files ports.FileRepository
    Units ports.UnitRepository
    ParserRegistry *parreg.Registry
}

func New(files ports.FileRepository, units ports.UnitRepository, reg *parreg.Registry) *Service {
    return &Service{Files: files, Units: units, ParserRegistry: reg}
}

type ImportArgs struct {
    Name     string // defaults to the file name without extension
    Filename string
    Format   string // detected from Filename when empty
    Content  []byte
}

type ImportResult struct {
    FileID  int64
    Units   int
    Created bool
    Stats   domain.Stats
    // Merged is set when a flat format was folded into an existing catalog
    // instead of replacing it; Translations counts what changed.
    Merged       bool
    Translations merge.TranslationReport
}

// Import parses a catalog and stores it under a name. A full TS document
// replaces whatever was stored under that name. A flat format (csv, json)
// imported onto an existing catalog only updates translations and status,
// keeping locations, comments and plural forms.
func (s *Service) Import(ctx context.Context, in ImportArgs) (ImportResult, error) {
    format := in.Format
    if format == "" {
        var ok bool
        if format, ok = parreg.Detect(in.Filename); !ok {
            return ImportResult{}, fmt.Errorf("%w: cannot detect format of %q", domain.ErrUnsupportedFormat, in.Filename)
        }
    }
    parser, ok := s.ParserRegistry.Get(format)
    if !ok {
        return ImportResult{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
    }
    pr, err := parser.Parse(in.Content)
    if err != nil { return ImportResult{}, fmt.Errorf("parse %s: %w", in.Filename, err) }

    name := in.Name
    if name == "" {
        base := filepath.Base(in.Filename)
        name = strings.TrimSuffix(base, filepath.Ext(base))
    }
    sum := sha256.Sum256(in.Content)
    f := &domain.File{Name: name, Path: in.Filename, Format: format, Hash: hex.EncodeToString(sum[:])}
    cat := pr.Catalog

    var res ImportResult
    if pr.Partial {
        existing, err := s.Files.GetByName(ctx, name)
        if err != nil { return ImportResult{}, fmt.Errorf("lookup file %q: %w", name, err) }
        if existing != nil {
            units, err := s.Units.ListByFile(ctx, existing.ID)
            if err != nil { return ImportResult{}, fmt.Errorf("load units of %q: %w", name, err) }
            cat, res.Translations = merge.Translations(domain.CatalogOf(existing, units), pr.Catalog, pr.StatusImplied)
            res.Merged = true
            // the stored catalog keeps its origin; the flat file was only an edit
            f = &domain.File{Name: name}
        }
    }

    created, err := s.Save(ctx, f, cat)
    if err != nil { return ImportResult{}, err }
    slog.Debug("imported catalog", "name", name, "format", format, "file_id", f.ID, "created", created, "merged", res.Merged)
    res.FileID, res.Units, res.Created, res.Stats = f.ID, len(cat.Messages()), created, cat.Stats()
    return res, nil
}

// Save writes cat under f.Name. An existing row with that name is updated in
// place, so re-imports never duplicate files; metadata cat or f leave empty
// is kept from the stored row. f.ID is set on return.
func (s *Service) Save(ctx context.Context, f *domain.File, cat *domain.Catalog) (created bool, err error) {
    f.Language, f.SourceLanguage, f.Version = cat.Language, cat.SourceLanguage, cat.Version
    existing, err := s.Files.GetByName(ctx, f.Name)
    if err != nil { return false, fmt.Errorf("lookup file %q: %w", f.Name, err) }
    if existing == nil {
        if err := s.Files.Create(ctx, f); err != nil { return false, err }
        created = true
    } else {
        f.ID = existing.ID
        if f.Path == "" { f.Path = existing.Path }
        if f.Format == "" { f.Format = existing.Format }
        if f.Hash == "" { f.Hash = existing.Hash }
        if f.Language == "" { f.Language = existing.Language }
        if f.SourceLanguage == "" { f.SourceLanguage = existing.SourceLanguage }
        if f.Version == "" { f.Version = existing.Version }
        if err := s.Files.Update(ctx, f); err != nil { return false, err }
    }
    if err := s.Units.ReplaceAll(ctx, f.ID, cat.Messages()); err != nil {
        return created, fmt.Errorf("store units of %q: %w", f.Name, err)
    }
    return created, nil
}
