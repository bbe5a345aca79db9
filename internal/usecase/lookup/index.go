package lookup

import "linguist/internal/domain"

type key struct{ context, source, comment string }

// Options tune which entries a live lookup may surface.
type Options struct {
	// SkipUnfinished hides translations still awaiting review. lrelease
	// ships them by default, and so does the index.
	SkipUnfinished bool
}

// Index is an immutable (context, source, comment) -> translation table
// built from one catalog. Vanished and empty entries are never indexed.
type Index struct {
	language string
	entries  map[key]string
}

func NewIndex(cat *domain.Catalog, opts Options) *Index {
	idx := &Index{language: cat.Language, entries: make(map[key]string)}
	for _, m := range cat.Messages() {
		if !m.Live() {
			continue
		}
		if m.Status == domain.StatusUnfinished && opts.SkipUnfinished {
			continue
		}
		text := m.Text()
		if text == "" {
			continue
		}
		k := key{m.Context, m.Source, m.Comment}
		// first occurrence wins for duplicated sources
		if _, ok := idx.entries[k]; ok {
			continue
		}
		idx.entries[k] = text
	}
	return idx
}

func (i *Index) Language() string { return i.language }

func (i *Index) Len() int { return len(i.entries) }

func (i *Index) Lookup(context, source string) (string, bool) {
	return i.LookupDisambiguated(context, source, "")
}

// LookupDisambiguated retries without the comment when the disambiguated
// entry is missing, as QTranslator does.
func (i *Index) LookupDisambiguated(context, source, comment string) (string, bool) {
	if t, ok := i.entries[key{context, source, comment}]; ok {
		return t, true
	}
	if comment != "" {
		t, ok := i.entries[key{context, source, ""}]
		return t, ok
	}
	return "", false
}

// Translate returns the translation of source, or source itself.
func (i *Index) Translate(context, source string) string {
	return i.TranslateDisambiguated(context, source, "")
}

func (i *Index) TranslateDisambiguated(context, source, comment string) string {
	if t, ok := i.LookupDisambiguated(context, source, comment); ok {
		return t
	}
	return source
}
