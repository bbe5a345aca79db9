package paraglidejson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"linguist/internal/domain"
	"linguist/internal/ports"
	"sort"
)

// Parser reads {"Context": {"source": "translation"}} documents.
// Empty values are untranslated; there is no way to express vanished entries.
type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() string { return "paraglidejson" }

func (p *Parser) Parse(data []byte) (ports.ParseResult, error) {
	// Strip UTF-8 BOM if present
	data = stripBOM(data)
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return ports.ParseResult{}, fmt.Errorf("%w: invalid json: %v", domain.ErrInvalidCatalog, err)
	}
	lang, _ := m["$language"].(string)
	// JSON objects are unordered; sort for a stable catalog.
	ctxNames := make([]string, 0, len(m))
	for k := range m {
		// Ignore metadata fields like $schema
		if len(k) > 0 && k[0] == '$' {
			continue
		}
		ctxNames = append(ctxNames, k)
	}
	sort.Strings(ctxNames)
	var msgs []*domain.Message
	for _, name := range ctxNames {
		entries, ok := m[name].(map[string]any)
		if !ok {
			return ports.ParseResult{}, fmt.Errorf("%w: context %q is not an object", domain.ErrInvalidCatalog, name)
		}
		sources := make([]string, 0, len(entries))
		for src := range entries {
			sources = append(sources, src)
		}
		sort.Strings(sources)
		for _, src := range sources {
			s, ok := entries[src].(string)
			if !ok {
				continue
			}
			st := domain.StatusFinished
			if s == "" {
				st = domain.StatusUnfinished
			}
			msgs = append(msgs, &domain.Message{Context: name, Source: src, Translation: s, Status: st})
		}
	}
	return ports.ParseResult{Catalog: domain.NewCatalog(lang, msgs), Partial: true, StatusImplied: true}, nil
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
