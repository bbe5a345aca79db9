package qtts

import (
	"bytes"
	"fmt"
	"linguist/internal/domain"
	"strings"
	"unicode/utf8"
)

// Exporter writes TS documents laid out the way lupdate writes them, so a
// re-exported file diffs cleanly against the original.
type Exporter struct{}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "qtts" }

func (e *Exporter) Export(cat *domain.Catalog) ([]byte, error) {
	var b bytes.Buffer
	version := cat.Version
	if version == "" {
		version = "2.1"
	}
	b.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<!DOCTYPE TS>\n")
	fmt.Fprintf(&b, "<TS version=\"%s\"", escape(version, true))
	if cat.Language != "" {
		fmt.Fprintf(&b, " language=\"%s\"", escape(cat.Language, true))
	}
	if cat.SourceLanguage != "" {
		fmt.Fprintf(&b, " sourcelanguage=\"%s\"", escape(cat.SourceLanguage, true))
	}
	b.WriteString(">\n")
	for _, ctx := range cat.Contexts {
		if err := writeContext(&b, ctx); err != nil {
			return nil, err
		}
	}
	b.WriteString("</TS>\n")
	return b.Bytes(), nil
}

func writeContext(b *bytes.Buffer, ctx *domain.Context) error {
	if err := checkText(ctx.Name); err != nil {
		return fmt.Errorf("context %q: %w", ctx.Name, err)
	}
	b.WriteString("<context>\n")
	fmt.Fprintf(b, "    <name>%s</name>\n", escape(ctx.Name, false))
	for _, m := range ctx.Messages {
		if err := writeMessage(b, m); err != nil {
			return fmt.Errorf("context %q source %q: %w", ctx.Name, m.Source, err)
		}
	}
	b.WriteString("</context>\n")
	return nil
}

func writeMessage(b *bytes.Buffer, m *domain.Message) error {
	for _, s := range append([]string{m.Source, m.Comment, m.ExtraComment, m.TranslatorComment, m.Translation}, m.NumerusForms...) {
		if err := checkText(s); err != nil {
			return err
		}
	}
	if m.Numerus {
		b.WriteString("    <message numerus=\"yes\">\n")
	} else {
		b.WriteString("    <message>\n")
	}
	for _, l := range m.Locations {
		if err := checkText(l.Filename + l.Line); err != nil {
			return err
		}
		fmt.Fprintf(b, "        <location filename=\"%s\" line=\"%s\"/>\n", escape(l.Filename, true), escape(l.Line, true))
	}
	fmt.Fprintf(b, "        <source>%s</source>\n", escape(m.Source, false))
	writeOptional(b, "comment", m.Comment)
	writeOptional(b, "extracomment", m.ExtraComment)
	writeOptional(b, "translatorcomment", m.TranslatorComment)
	b.WriteString("        <translation")
	if m.Status != domain.StatusFinished {
		fmt.Fprintf(b, " type=\"%s\"", m.Status)
	}
	b.WriteString(">")
	if m.Numerus {
		b.WriteString("\n")
		for _, f := range m.NumerusForms {
			fmt.Fprintf(b, "            <numerusform>%s</numerusform>\n", escape(f, false))
		}
		b.WriteString("        ")
	} else {
		b.WriteString(escape(m.Translation, false))
	}
	b.WriteString("</translation>\n")
	b.WriteString("    </message>\n")
	return nil
}

func writeOptional(b *bytes.Buffer, tag, s string) {
	if s == "" {
		return
	}
	fmt.Fprintf(b, "        <%s>%s</%s>\n", tag, escape(s, false), tag)
}

// escape follows lupdate: the five predefined entities are always used, and a
// carriage return is written as a character reference so XML end-of-line
// normalization does not turn it into a newline. Attribute values also escape
// tab and newline, which attribute normalization would otherwise fold to spaces.
func escape(s string, attr bool) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '&':
			sb.WriteString("&amp;")
		case '<':
			sb.WriteString("&lt;")
		case '>':
			sb.WriteString("&gt;")
		case '"':
			sb.WriteString("&quot;")
		case '\'':
			sb.WriteString("&apos;")
		case '\r':
			sb.WriteString("&#xd;")
		case '\n':
			if attr {
				sb.WriteString("&#xa;")
			} else {
				sb.WriteRune(r)
			}
		case '\t':
			if attr {
				sb.WriteString("&#x9;")
			} else {
				sb.WriteRune(r)
			}
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// checkText rejects what XML 1.0 cannot carry at all.
func checkText(s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: invalid UTF-8", domain.ErrInvalidCatalog)
	}
	for _, r := range s {
		if !isXMLChar(r) {
			return fmt.Errorf("%w: character %U not representable in XML", domain.ErrInvalidCatalog, r)
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
