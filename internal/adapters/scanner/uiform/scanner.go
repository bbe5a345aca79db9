package uiform

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"linguist/internal/domain"
	"linguist/internal/ports"
)

// Scanner reads Qt Designer forms. The top-level <class> names the context
// and every <string> not marked notr="true" is translatable.
type Scanner struct{}

func New() *Scanner { return &Scanner{} }

func (s *Scanner) Format() string { return "ui" }

func (s *Scanner) Extensions() []string { return []string{".ui"} }

type uiString struct {
	Text    string `xml:",chardata"`
	NoTr    string `xml:"notr,attr"`
	Comment string `xml:"comment,attr"`
}

func (s *Scanner) Scan(filename string, data []byte) ([]ports.ScannedString, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		out   []ports.ScannedString
		class string
		path  []string
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "class" && len(path) == 1 && path[0] == "ui":
				var name string
				if err := dec.DecodeElement(&name, &t); err != nil {
					return nil, fmt.Errorf("%s: %w", filename, err)
				}
				class = name
			case t.Name.Local == "string":
				line, _ := dec.InputPos()
				var v uiString
				if err := dec.DecodeElement(&v, &t); err != nil {
					return nil, fmt.Errorf("%s: %w", filename, err)
				}
				if v.NoTr == "true" || v.Text == "" {
					continue
				}
				out = append(out, ports.ScannedString{
					Source:   v.Text,
					Comment:  v.Comment,
					Location: domain.Location{Filename: filename, Line: strconv.Itoa(line)},
				})
			default:
				path = append(path, t.Name.Local)
			}
		case xml.EndElement:
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
		}
	}
	if class == "" && len(out) > 0 {
		return nil, fmt.Errorf("%s: form has no <class>", filename)
	}
	for i := range out {
		out[i].Context = class
	}
	return out, nil
}
