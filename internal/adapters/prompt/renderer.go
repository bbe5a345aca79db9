package prompt

import (
    "bytes"
    "fmt"
    "text/template"

    "linguist/internal/ports"
)

// Renderer expands prompt templates. Overrides are keyed "<type>.<role>",
// e.g. "translate_single.system", and replace the builtin body.
type Renderer struct {
    Overrides map[string]string
}

func New(overrides map[string]string) *Renderer { return &Renderer{Overrides: overrides} }

func (r *Renderer) Render(typ, role string, data ports.PromptData) (string, error) {
    body := builtinTemplate(typ, role)
    if o := r.Overrides[typ+"."+role]; o != "" {
        body = o
    }
    if body == "" {
        return "", fmt.Errorf("no prompt template for %s/%s", typ, role)
    }
    tpl, err := template.New(typ + "." + role).Parse(body)
    if err != nil { return "", fmt.Errorf("parse prompt %s/%s: %w", typ, role, err) }
    var buf bytes.Buffer
    if err := tpl.Execute(&buf, data); err != nil { return "", fmt.Errorf("render prompt %s/%s: %w", typ, role, err) }
    return buf.String(), nil
}

func builtinTemplate(typ, role string) string {
    if typ == "translate_single" && role == "system" {
        return "You are a professional software localization translator working on a Qt application. " +
            "Translate the UI string from {{.SrcLang}} to {{.TgtLang}}. " +
            "Tokens like __PH_0__ and __TAG_0__ stand for placeholders and markup; copy every one of them unchanged. " +
            "Keep it short enough for a button or label, and keep keyboard accelerators (&) if present. " +
            "Return only JSON: {\"translation\":\"...\"}."
    }
    if typ == "translate_single" && role == "user" {
        return "catalog: {{.Catalog}}\ncontext: {{.Context}}\n" +
            "{{if .Comment}}disambiguation: {{.Comment}}\n{{end}}" +
            "source: {{.Text}}"
    }
    return ""
}
