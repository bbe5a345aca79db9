package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"linguist/internal/domain"
	"linguist/internal/ports"
	"strings"
)

// Parser reads flat spreadsheets exchanged with translators:
// context, source, translation, status[, comment].
type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() string { return "csv" }

func (p *Parser) Parse(data []byte) (ports.ParseResult, error) {
	data = stripBOM(data)
	r := csv.NewReader(bufio.NewReader(bytes.NewReader(data)))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return ports.ParseResult{}, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	ctxIdx, ok := idx["context"]
	if !ok {
		return ports.ParseResult{}, fmt.Errorf("%w: csv missing 'context' column", domain.ErrInvalidCatalog)
	}
	// Support source column names
	srcIdx := -1
	for _, name := range []string{"source", "value", "text", "default"} {
		if i, ok := idx[name]; ok {
			srcIdx = i
			break
		}
	}
	if srcIdx == -1 {
		return ports.ParseResult{}, fmt.Errorf("%w: csv missing source column (source/value/text/default)", domain.ErrInvalidCatalog)
	}
	col := func(rec []string, name string) string {
		if i, ok := idx[name]; ok && i < len(rec) {
			return rec[i]
		}
		return ""
	}
	var msgs []*domain.Message
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ports.ParseResult{}, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
		}
		line++
		if ctxIdx >= len(rec) || srcIdx >= len(rec) {
			return ports.ParseResult{}, fmt.Errorf("%w: line %d: short record", domain.ErrInvalidCatalog, line)
		}
		st, ok := domain.ParseStatus(col(rec, "status"))
		if !ok {
			return ports.ParseResult{}, fmt.Errorf("%w: line %d: unknown status %q", domain.ErrInvalidCatalog, line, col(rec, "status"))
		}
		msgs = append(msgs, &domain.Message{
			Context:     rec[ctxIdx],
			Source:      rec[srcIdx],
			Comment:     col(rec, "comment"),
			Translation: col(rec, "translation"),
			Status:      st,
		})
	}
	return ports.ParseResult{Catalog: domain.NewCatalog("", msgs), Partial: true}, nil
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
