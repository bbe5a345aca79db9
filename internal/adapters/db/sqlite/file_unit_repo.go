package sqlite

import (
    "context"
    "crypto/sha256"
    "database/sql"
    "encoding/hex"
    "encoding/json"
    "fmt"
    "linguist/internal/domain"

    sq "github.com/Masterminds/squirrel"
)

type FileRepo struct{ *Repo }
type UnitRepo struct{ *Repo }

func NewFileRepo(db *sql.DB) *FileRepo { return &FileRepo{NewRepo(db)} }
func NewUnitRepo(db *sql.DB) *UnitRepo { return &UnitRepo{NewRepo(db)} }

func HashBytes(b []byte) string {
    h := sha256.Sum256(b)
    return hex.EncodeToString(h[:])
}

var fileColumns = []string{"id", "name", "path", "format", "language", "source_language", "version", "hash", "created_at", "updated_at"}

func (r *FileRepo) Create(ctx context.Context, f *domain.File) error {
    ts := now()
    q := r.SQ.Insert("files").Columns("name", "path", "format", "language", "source_language", "version", "hash", "created_at", "updated_at").
        Values(f.Name, f.Path, f.Format, f.Language, f.SourceLanguage, f.Version, f.Hash, ts, ts)
    sqlStr, args, _ := q.ToSql()
    res, err := r.DB.ExecContext(ctx, sqlStr, args...)
    if err != nil { return fmt.Errorf("create file %q: %w", f.Name, err) }
    id, _ := res.LastInsertId()
    f.ID = id
    f.CreatedAt, f.UpdatedAt = parseTime(ts), parseTime(ts)
    return nil
}

func (r *FileRepo) Update(ctx context.Context, f *domain.File) error {
    ts := now()
    q := r.SQ.Update("files").
        Set("path", f.Path).Set("format", f.Format).Set("language", f.Language).
        Set("source_language", f.SourceLanguage).Set("version", f.Version).Set("hash", f.Hash).
        Set("updated_at", ts).Where(sq.Eq{"id": f.ID})
    sqlStr, args, _ := q.ToSql()
    if _, err := r.DB.ExecContext(ctx, sqlStr, args...); err != nil { return fmt.Errorf("update file %d: %w", f.ID, err) }
    f.UpdatedAt = parseTime(ts)
    return nil
}

func (r *FileRepo) Get(ctx context.Context, id int64) (*domain.File, error) {
    return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *FileRepo) GetByName(ctx context.Context, name string) (*domain.File, error) {
    return r.getOne(ctx, sq.Eq{"name": name})
}

// getOne returns (nil, nil) when no row matches.
func (r *FileRepo) getOne(ctx context.Context, where sq.Eq) (*domain.File, error) {
    q := r.SQ.Select(fileColumns...).From("files").Where(where).Limit(1)
    sqlStr, args, _ := q.ToSql()
    f, err := scanFile(r.DB.QueryRowContext(ctx, sqlStr, args...))
    if err == sql.ErrNoRows { return nil, nil }
    return f, err
}

func (r *FileRepo) List(ctx context.Context) ([]*domain.File, error) {
    q := r.SQ.Select(fileColumns...).From("files").OrderBy("name")
    sqlStr, args, _ := q.ToSql()
    rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []*domain.File
    for rows.Next() {
        f, err := scanFile(rows)
        if err != nil { return nil, err }
        out = append(out, f)
    }
    return out, rows.Err()
}

func (r *FileRepo) Delete(ctx context.Context, id int64) error {
    // units and their locations go with the file via FK cascade
    q := r.SQ.Delete("files").Where(sq.Eq{"id": id})
    sqlStr, args, _ := q.ToSql()
    _, err := r.DB.ExecContext(ctx, sqlStr, args...)
    return err
}

type rowScanner interface{ Scan(dest ...any) error }

func scanFile(row rowScanner) (*domain.File, error) {
    var f domain.File
    var created, updated string
    if err := row.Scan(&f.ID, &f.Name, &f.Path, &f.Format, &f.Language, &f.SourceLanguage, &f.Version, &f.Hash, &created, &updated); err != nil {
        return nil, err
    }
    f.CreatedAt, f.UpdatedAt = parseTime(created), parseTime(updated)
    return &f, nil
}

// ReplaceAll swaps the file's units for msgs in one transaction, numbering
// them in document order.
func (r *UnitRepo) ReplaceAll(ctx context.Context, fileID int64, msgs []*domain.Message) error {
    return WithTx(ctx, r.DB, func(tx *sql.Tx) error {
        del, args, _ := r.SQ.Delete("units").Where(sq.Eq{"file_id": fileID}).ToSql()
        if _, err := tx.ExecContext(ctx, del, args...); err != nil { return fmt.Errorf("clear units: %w", err) }
        ts := now()
        for i, m := range msgs {
            numerus := ""
            if m.Numerus {
                b, _ := json.Marshal(m.NumerusForms)
                numerus = string(b)
            }
            ins, args, _ := r.SQ.Insert("units").
                Columns("file_id", "seq", "context", "source_text", "comment", "extra_comment", "translator_comment", "translation", "numerus_json", "status", "created_at", "updated_at").
                Values(fileID, i, m.Context, m.Source, m.Comment, m.ExtraComment, m.TranslatorComment, m.Translation, numerus, string(m.Status), ts, ts).
                ToSql()
            res, err := tx.ExecContext(ctx, ins, args...)
            if err != nil { return fmt.Errorf("insert unit %d: %w", i, err) }
            if len(m.Locations) == 0 { continue }
            unitID, _ := res.LastInsertId()
            lb := r.SQ.Insert("unit_locations").Columns("unit_id", "filename", "line")
            for _, l := range m.Locations {
                lb = lb.Values(unitID, l.Filename, l.Line)
            }
            locSQL, locArgs, _ := lb.ToSql()
            if _, err := tx.ExecContext(ctx, locSQL, locArgs...); err != nil { return fmt.Errorf("insert locations of unit %d: %w", i, err) }
        }
        return nil
    })
}

func (r *UnitRepo) ListByFile(ctx context.Context, fileID int64) ([]*domain.Unit, error) {
    q := r.SQ.Select("id", "file_id", "seq", "context", "source_text", "comment", "extra_comment", "translator_comment", "translation", "numerus_json", "status", "created_at", "updated_at").
        From("units").Where(sq.Eq{"file_id": fileID}).OrderBy("seq")
    sqlStr, args, _ := q.ToSql()
    rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
    if err != nil { return nil, err }
    defer rows.Close()
    var out []*domain.Unit
    byID := map[int64]*domain.Unit{}
    for rows.Next() {
        var u domain.Unit
        var numerus, status, created, updated string
        if err := rows.Scan(&u.ID, &u.FileID, &u.Seq, &u.Context, &u.Source, &u.Comment, &u.ExtraComment, &u.TranslatorComment, &u.Translation, &numerus, &status, &created, &updated); err != nil {
            return nil, err
        }
        if numerus != "" {
            u.Numerus = true
            if err := json.Unmarshal([]byte(numerus), &u.NumerusForms); err != nil { return nil, fmt.Errorf("unit %d numerus forms: %w", u.ID, err) }
        }
        u.Status = domain.Status(status)
        u.CreatedAt, u.UpdatedAt = parseTime(created), parseTime(updated)
        out = append(out, &u)
        byID[u.ID] = &u
    }
    if err := rows.Err(); err != nil { return nil, err }
    if len(out) == 0 { return out, nil }

    lq := r.SQ.Select("l.unit_id", "l.filename", "l.line").From("unit_locations l").
        Join("units u ON u.id = l.unit_id").Where(sq.Eq{"u.file_id": fileID}).OrderBy("l.id")
    lsql, largs, _ := lq.ToSql()
    lrows, err := r.DB.QueryContext(ctx, lsql, largs...)
    if err != nil { return nil, err }
    defer lrows.Close()
    for lrows.Next() {
        var unitID int64
        var l domain.Location
        if err := lrows.Scan(&unitID, &l.Filename, &l.Line); err != nil { return nil, err }
        if u, ok := byID[unitID]; ok {
            u.Locations = append(u.Locations, l)
        }
    }
    return out, lrows.Err()
}

func (r *UnitRepo) UpdateTranslation(ctx context.Context, unitID int64, text string, status domain.Status) error {
    q := r.SQ.Update("units").Set("translation", text).Set("status", string(status)).Set("updated_at", now()).Where(sq.Eq{"id": unitID})
    sqlStr, args, _ := q.ToSql()
    res, err := r.DB.ExecContext(ctx, sqlStr, args...)
    if err != nil { return err }
    if n, _ := res.RowsAffected(); n == 0 {
        return fmt.Errorf("unit %d: %w", unitID, domain.ErrNotFound)
    }
    return nil
}
