package domain

import "strings"

// Status is the translator state of a message. The zero value is finished,
// which is how TS files encode it (no type attribute).
type Status string

const (
	StatusFinished   Status = ""
	StatusUnfinished Status = "unfinished"
	StatusVanished   Status = "vanished"
)

// ParseStatus maps a TS translation type attribute to a Status.
// "obsolete" is the pre-5.x spelling of vanished.
func ParseStatus(s string) (Status, bool) {
	switch strings.TrimSpace(s) {
	case "", "finished":
		return StatusFinished, true
	case "unfinished":
		return StatusUnfinished, true
	case "vanished", "obsolete":
		return StatusVanished, true
	default:
		return "", false
	}
}

// String returns the human-readable name; finished has no TS spelling.
func (s Status) String() string {
	if s == StatusFinished {
		return "finished"
	}
	return string(s)
}

// Location is a source reference left by the string extractor.
// Line is kept verbatim so relative references like "+3" survive a round trip.
type Location struct {
	Filename string `json:"filename"`
	Line     string `json:"line"`
}

type Message struct {
	Context           string     `json:"context"`
	Source            string     `json:"source"`
	Comment           string     `json:"comment,omitempty"`
	ExtraComment      string     `json:"extra_comment,omitempty"`
	TranslatorComment string     `json:"translator_comment,omitempty"`
	Translation       string     `json:"translation"`
	Status            Status     `json:"status"`
	Numerus           bool       `json:"numerus,omitempty"`
	NumerusForms      []string   `json:"numerus_forms,omitempty"`
	Locations         []Location `json:"locations,omitempty"`
}

// Live reports whether the message is still referenced by the UI code.
func (m *Message) Live() bool { return m.Status != StatusVanished }

// Text returns the translation text, or the first numerus form for plural messages.
func (m *Message) Text() string {
	if m.Numerus && len(m.NumerusForms) > 0 {
		return m.NumerusForms[0]
	}
	return m.Translation
}

type Context struct {
	Name     string     `json:"name"`
	Messages []*Message `json:"messages"`
}

// Catalog is one TS document: every translatable string of an application for one language.
type Catalog struct {
	Version        string     `json:"version"`
	Language       string     `json:"language"`
	SourceLanguage string     `json:"source_language,omitempty"`
	Contexts       []*Context `json:"contexts"`
}

// Context returns the context with the given name, or nil.
func (c *Catalog) Context(name string) *Context {
	for _, ctx := range c.Contexts {
		if ctx.Name == name {
			return ctx
		}
	}
	return nil
}

// Add appends m to its context, creating the context at the end if needed.
func (c *Catalog) Add(m *Message) {
	ctx := c.Context(m.Context)
	if ctx == nil {
		ctx = &Context{Name: m.Context}
		c.Contexts = append(c.Contexts, ctx)
	}
	ctx.Messages = append(ctx.Messages, m)
}

// Messages flattens the catalog in document order.
func (c *Catalog) Messages() []*Message {
	var out []*Message
	for _, ctx := range c.Contexts {
		out = append(out, ctx.Messages...)
	}
	return out
}

type Stats struct {
	Contexts   int `json:"contexts"`
	Finished   int `json:"finished"`
	Unfinished int `json:"unfinished"`
	Vanished   int `json:"vanished"`
}

// Total counts live messages only.
func (s Stats) Total() int { return s.Finished + s.Unfinished }

func (c *Catalog) Stats() Stats {
	st := Stats{Contexts: len(c.Contexts)}
	for _, m := range c.Messages() {
		switch m.Status {
		case StatusFinished:
			st.Finished++
		case StatusUnfinished:
			st.Unfinished++
		case StatusVanished:
			st.Vanished++
		}
	}
	return st
}

// NewCatalog groups messages into contexts in first-seen order.
func NewCatalog(language string, msgs []*Message) *Catalog {
	c := &Catalog{Version: "2.1", Language: language}
	for _, m := range msgs {
		c.Add(m)
	}
	return c
}
