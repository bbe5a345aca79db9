// Package locale converts between POSIX/Qt locale names ("zh_CN.UTF-8")
// and BCP 47 tags.
package locale

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Parse accepts "zh_CN", "zh-CN", "zh_CN.UTF-8" or "sr_RS@latin".
// "C" and "POSIX" mean no locale and yield language.Und.
func Parse(s string) (language.Tag, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	switch s {
	case "", "C", "POSIX":
		return language.Und, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", s, err)
	}
	return tag, nil
}

// QtName renders a tag the way Qt names translation files: zh_CN, en_US, de.
func QtName(tag language.Tag) string {
	if tag == language.Und {
		return ""
	}
	return strings.ReplaceAll(tag.String(), "-", "_")
}

// Chain returns tag followed by its parents, stopping before the root:
// zh-Hant-TW, zh-Hant, zh.
func Chain(tag language.Tag) []language.Tag {
	var out []language.Tag
	for t := tag; t != language.Und; t = t.Parent() {
		out = append(out, t)
		if len(out) > 8 {
			break
		}
	}
	return out
}

// FromEnv resolves the process locale the way gettext does.
func FromEnv(getenv func(string) string) string {
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(k); v != "" {
			return v
		}
	}
	return ""
}
