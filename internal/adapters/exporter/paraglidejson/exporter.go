package paraglidejson

import (
	"encoding/json"
	"fmt"
	"strings"

	"linguist/internal/domain"
)

type Exporter struct{}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "paraglidejson" }

// Export writes live entries only; the first occurrence of a duplicated source wins.
// Context names starting with '$' are reserved for metadata and rejected.
func (e *Exporter) Export(cat *domain.Catalog) ([]byte, error) {
	out := make(map[string]any, len(cat.Contexts)+1)
	if cat.Language != "" {
		out["$language"] = cat.Language
	}
	for _, m := range cat.Messages() {
		if !m.Live() {
			continue
		}
		if strings.HasPrefix(m.Context, "$") {
			return nil, fmt.Errorf("%w: context %q clashes with paraglide metadata keys", domain.ErrUnsupportedFormat, m.Context)
		}
		ctx, ok := out[m.Context].(map[string]string)
		if !ok {
			ctx = map[string]string{}
			out[m.Context] = ctx
		}
		if _, dup := ctx[m.Source]; dup {
			continue
		}
		ctx[m.Source] = m.Text()
	}
	return json.MarshalIndent(out, "", "  ")
}
