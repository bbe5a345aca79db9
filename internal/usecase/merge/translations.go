package merge

import "linguist/internal/domain"

type TranslationReport struct {
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Added     int `json:"added"`
}

// Translations folds translations edited in a flat format (csv, json) back
// into a full catalog. Locations, comments and plural forms other than the
// first are kept from existing; messages absent from edited are untouched.
// When statusImplied is set the edited status was derived from the text, so
// it only replaces the stored status if the text changed.
func Translations(existing, edited *domain.Catalog, statusImplied bool) (*domain.Catalog, TranslationReport) {
	var rep TranslationReport
	out := clone(existing)

	byKey := map[key]*domain.Message{}
	for _, m := range out.Messages() {
		k := key{m.Context, m.Source, m.Comment}
		if _, dup := byKey[k]; !dup {
			byKey[k] = m
		}
	}

	for _, em := range edited.Messages() {
		k := key{em.Context, em.Source, em.Comment}
		m, ok := byKey[k]
		if !ok {
			cp := *em
			cp.NumerusForms = append([]string(nil), em.NumerusForms...)
			cp.Locations = append([]domain.Location(nil), em.Locations...)
			out.Add(&cp)
			byKey[k] = &cp
			rep.Added++
			continue
		}
		text := em.Text()
		textChanged := text != m.Text()
		statusChanged := em.Status != m.Status && (!statusImplied || textChanged)
		if !textChanged && !statusChanged {
			rep.Unchanged++
			continue
		}
		if textChanged {
			if m.Numerus && len(m.NumerusForms) > 0 {
				m.NumerusForms[0] = text
			} else if m.Numerus {
				m.NumerusForms = []string{text}
			} else {
				m.Translation = text
			}
		}
		if statusChanged {
			m.Status = em.Status
		}
		rep.Updated++
	}
	return out, rep
}
