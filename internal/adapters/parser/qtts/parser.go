package qtts

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"linguist/internal/domain"
	"linguist/internal/ports"
)

// Parser reads Qt Linguist TS documents (the format written by lupdate).
type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() string { return "qtts" }

type tsDocument struct {
	XMLName        xml.Name    `xml:"TS"`
	Version        string      `xml:"version,attr"`
	Language       string      `xml:"language,attr"`
	SourceLanguage string      `xml:"sourcelanguage,attr"`
	Contexts       []tsContext `xml:"context"`
}

type tsContext struct {
	Name     string      `xml:"name"`
	Messages []tsMessage `xml:"message"`
}

type tsMessage struct {
	Numerus           string        `xml:"numerus,attr"`
	Locations         []tsLocation  `xml:"location"`
	Source            string        `xml:"source"`
	Comment           string        `xml:"comment"`
	ExtraComment      string        `xml:"extracomment"`
	TranslatorComment string        `xml:"translatorcomment"`
	Translation       tsTranslation `xml:"translation"`
}

type tsLocation struct {
	Filename string `xml:"filename,attr"`
	Line     string `xml:"line,attr"`
}

type tsTranslation struct {
	Type  string   `xml:"type,attr"`
	Text  string   `xml:",chardata"`
	Forms []string `xml:"numerusform"`
}

func (p *Parser) Parse(data []byte) (ports.ParseResult, error) {
	data = stripBOM(data)
	var doc tsDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return ports.ParseResult{}, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	cat := &domain.Catalog{Version: doc.Version, Language: doc.Language, SourceLanguage: doc.SourceLanguage}
	for ci, c := range doc.Contexts {
		ctx := &domain.Context{Name: c.Name, Messages: make([]*domain.Message, 0, len(c.Messages))}
		for mi, m := range c.Messages {
			st, ok := domain.ParseStatus(m.Translation.Type)
			if !ok {
				return ports.ParseResult{}, fmt.Errorf("%w: context %d (%q) message %d: unknown translation type %q",
					domain.ErrInvalidCatalog, ci, c.Name, mi, m.Translation.Type)
			}
			msg := &domain.Message{
				Context:           c.Name,
				Source:            m.Source,
				Comment:           m.Comment,
				ExtraComment:      m.ExtraComment,
				TranslatorComment: m.TranslatorComment,
				Status:            st,
				Numerus:           m.Numerus == "yes",
			}
			if msg.Numerus {
				msg.NumerusForms = m.Translation.Forms
			} else {
				msg.Translation = m.Translation.Text
			}
			for _, l := range m.Locations {
				msg.Locations = append(msg.Locations, domain.Location{Filename: l.Filename, Line: l.Line})
			}
			ctx.Messages = append(ctx.Messages, msg)
		}
		cat.Contexts = append(cat.Contexts, ctx)
	}
	return ports.ParseResult{Catalog: cat}, nil
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
