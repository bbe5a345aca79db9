package sqlite

import (
	"context"
	"database/sql"
	"linguist/internal/domain"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

type CacheRepo struct{ *Repo }

func NewCacheRepo(db *sql.DB) *CacheRepo { return &CacheRepo{NewRepo(db)} }

// cacheKey folds the lookup tuple into the primary key; the NUL separator
// cannot occur in TS text.
func cacheKey(src, srcLang, tgtLang, provider, model string) string {
	return HashBytes([]byte(strings.Join([]string{src, srcLang, tgtLang, provider, model}, "\x00")))
}

func (r *CacheRepo) Get(ctx context.Context, src, srcLang, tgtLang, provider, model string) (*domain.CacheEntry, error) {
	q := r.SQ.Select(
		"source_text",
		"src_lang",
		"tgt_lang",
		"provider",
		"model",
		"translation",
		"created_at",
	).
		From("cache").
		Where(sq.Eq{"key_hash": cacheKey(src, srcLang, tgtLang, provider, model)}).
		Limit(1)
	sqlStr, args, _ := q.ToSql()
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var e domain.CacheEntry
	var created string
	if err := row.Scan(
		&e.SourceText,
		&e.SrcLang,
		&e.TgtLang,
		&e.Provider,
		&e.Model,
		&e.Translation,
		&created,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	e.CreatedAt = parseTime(created)
	return &e, nil
}

func (r *CacheRepo) Put(ctx context.Context, entry *domain.CacheEntry) error {
	q := r.SQ.
		Insert("cache").
		Columns(
			"key_hash",
			"source_text",
			"src_lang",
			"tgt_lang",
			"provider",
			"model",
			"translation",
			"created_at",
		).
		Values(
			cacheKey(entry.SourceText, entry.SrcLang, entry.TgtLang, entry.Provider, entry.Model),
			entry.SourceText,
			entry.SrcLang,
			entry.TgtLang,
			entry.Provider,
			entry.Model,
			entry.Translation,
			now(),
		).
		Suffix("ON CONFLICT(key_hash) DO UPDATE SET translation=excluded.translation")
	sqlStr, args, _ := q.ToSql()
	_, err := r.DB.ExecContext(ctx, sqlStr, args...)
	return err
}
