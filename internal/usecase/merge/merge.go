// Package merge folds freshly scanned source strings into an existing
// catalog the way lupdate does: nothing is ever deleted, strings that
// disappear from the source are marked vanished.
package merge

import (
	"linguist/internal/domain"
	"linguist/internal/ports"
)

type Report struct {
	Added    int `json:"added"`
	Kept     int `json:"kept"`
	Revived  int `json:"revived"`
	Vanished int `json:"vanished"`
}

type key struct{ context, source, comment string }

// Merge returns a new catalog; existing is not modified and may be nil.
func Merge(existing *domain.Catalog, scanned []ports.ScannedString) (*domain.Catalog, Report) {
	var rep Report
	out := clone(existing)

	var order []key
	locs := map[key][]domain.Location{}
	for _, s := range scanned {
		k := key{s.Context, s.Source, s.Comment}
		if _, seen := locs[k]; !seen {
			order = append(order, k)
			locs[k] = nil
		}
		if s.Location.Filename != "" {
			locs[k] = append(locs[k], s.Location)
		}
	}

	matched := map[key]bool{}
	for _, m := range out.Messages() {
		k := key{m.Context, m.Source, m.Comment}
		l, found := locs[k]
		switch {
		case !found:
			if m.Live() {
				m.Status = domain.StatusVanished
				rep.Vanished++
			}
			m.Locations = nil
		case matched[k]:
			// a later duplicate of a string already claimed by the scan
			m.Locations = nil
		case m.Live():
			matched[k] = true
			m.Locations = l
			rep.Kept++
		default:
			matched[k] = true
			m.Status = domain.StatusUnfinished
			m.Locations = l
			rep.Revived++
		}
	}

	for _, k := range order {
		if matched[k] {
			continue
		}
		out.Add(&domain.Message{
			Context:   k.context,
			Source:    k.source,
			Comment:   k.comment,
			Status:    domain.StatusUnfinished,
			Locations: locs[k],
		})
		rep.Added++
	}
	return out, rep
}

func clone(c *domain.Catalog) *domain.Catalog {
	if c == nil {
		return domain.NewCatalog("", nil)
	}
	out := &domain.Catalog{Version: c.Version, Language: c.Language, SourceLanguage: c.SourceLanguage}
	for _, ctx := range c.Contexts {
		nc := &domain.Context{Name: ctx.Name}
		for _, m := range ctx.Messages {
			cp := *m
			cp.NumerusForms = append([]string(nil), m.NumerusForms...)
			cp.Locations = append([]domain.Location(nil), m.Locations...)
			nc.Messages = append(nc.Messages, &cp)
		}
		out.Contexts = append(out.Contexts, nc)
	}
	return out
}
