package registry

import (
	"path/filepath"
	"sort"
	"strings"

	"linguist/internal/ports"
)

type Registry struct{ byExt map[string]ports.Scanner }

func New() *Registry { return &Registry{byExt: map[string]ports.Scanner{}} }

func (r *Registry) Register(s ports.Scanner) {
	for _, ext := range s.Extensions() {
		r.byExt[ext] = s
	}
}

// For picks the scanner for a source file by its extension.
func (r *Registry) For(filename string) (ports.Scanner, bool) {
	s, ok := r.byExt[strings.ToLower(filepath.Ext(filename))]
	return s, ok
}

// Extensions lists every registered extension in sorted order.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
