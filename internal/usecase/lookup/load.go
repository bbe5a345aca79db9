package lookup

import (
	"fmt"
	"linguist/internal/ports"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadDir adds every <prefix>_<locale>.ts file found in dir. The locale in
// the file name wins over the language attribute inside the document.
func (t *Translator) LoadDir(dir, prefix string, p ports.Parser) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, prefix+"_*.ts"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	var loaded []string
	for _, path := range matches {
		loc := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), prefix+"_"), ".ts")
		data, err := os.ReadFile(path)
		if err != nil {
			return loaded, fmt.Errorf("read %s: %w", path, err)
		}
		res, err := p.Parse(data)
		if err != nil {
			return loaded, fmt.Errorf("parse %s: %w", path, err)
		}
		if err := t.Add(loc, res.Catalog); err != nil {
			return loaded, fmt.Errorf("load %s: %w", path, err)
		}
		loaded = append(loaded, loc)
	}
	return loaded, nil
}
