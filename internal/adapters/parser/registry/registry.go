package registry

import (
    "path/filepath"
    "strings"

    "linguist/internal/ports"
)

type Registry struct {
    byFormat map[string]ports.Parser
}

func New() *Registry { return &Registry{byFormat: map[string]ports.Parser{}} }

func (r *Registry) Register(p ports.Parser) { r.byFormat[p.Format()] = p }

func (r *Registry) Get(format string) (ports.Parser, bool) { p, ok := r.byFormat[format]; return p, ok }

// Detect guesses a format from a file name extension.
func Detect(filename string) (string, bool) {
    switch strings.ToLower(filepath.Ext(filename)) {
    case ".ts":
        return "qtts", true
    case ".csv":
        return "csv", true
    case ".json":
        return "paraglidejson", true
    }
    return "", false
}
