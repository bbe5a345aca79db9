package lookup

import (
	"fmt"
	"linguist/internal/domain"
	"linguist/internal/locale"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/text/language"
)

// Translator serves lookups across locales. Catalogs may be added while
// lookups are running.
type Translator struct {
	opts    Options
	mu      sync.RWMutex
	indexes map[language.Tag]*Index
}

func NewTranslator(opts Options) *Translator {
	return &Translator{opts: opts, indexes: map[language.Tag]*Index{}}
}

// Add installs cat under loc, replacing any earlier catalog for that locale.
// An empty loc falls back to the catalog's own language attribute.
func (t *Translator) Add(loc string, cat *domain.Catalog) error {
	if loc == "" {
		loc = cat.Language
	}
	tag, err := locale.Parse(loc)
	if err != nil {
		return err
	}
	if tag == language.Und {
		return fmt.Errorf("catalog without locale: %w", domain.ErrInvalidCatalog)
	}
	idx := NewIndex(cat, t.opts)
	slog.Debug("catalog indexed", "locale", locale.QtName(tag), "entries", idx.Len())
	t.mu.Lock()
	t.indexes[tag] = idx
	t.mu.Unlock()
	return nil
}

// Translate resolves loc through its parent chain (zh_CN, then zh) and
// falls back to source when no catalog has a live translation.
func (t *Translator) Translate(context, source, loc string) string {
	return t.TranslateDisambiguated(context, source, "", loc)
}

func (t *Translator) TranslateDisambiguated(context, source, comment, loc string) string {
	if s, ok := t.Lookup(context, source, comment, loc); ok {
		return s
	}
	return source
}

func (t *Translator) Lookup(context, source, comment, loc string) (string, bool) {
	tag, err := locale.Parse(loc)
	if err != nil {
		return "", false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, cand := range locale.Chain(tag) {
		if idx, ok := t.indexes[cand]; ok {
			if s, ok := idx.LookupDisambiguated(context, source, comment); ok {
				return s, true
			}
		}
	}
	return "", false
}

// Locales lists loaded locales in Qt spelling, sorted.
func (t *Translator) Locales() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.indexes))
	for tag := range t.indexes {
		out = append(out, locale.QtName(tag))
	}
	sort.Strings(out)
	return out
}

// Match picks the loaded locale that best serves the preferred ones, or ""
// when the source language is the better choice.
func (t *Translator) Match(preferred ...string) string {
	var prefs []language.Tag
	for _, p := range preferred {
		if tag, err := locale.Parse(p); err == nil && tag != language.Und {
			prefs = append(prefs, tag)
		}
	}
	names := t.Locales()
	if len(prefs) == 0 || len(names) == 0 {
		return ""
	}
	// index 0 is the "no match" default
	supported := []language.Tag{language.Und}
	for _, n := range names {
		tag, _ := locale.Parse(n)
		supported = append(supported, tag)
	}
	_, i, conf := language.NewMatcher(supported).Match(prefs...)
	if conf == language.No || i == 0 {
		return ""
	}
	return names[i-1]
}
