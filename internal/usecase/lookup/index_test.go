package lookup

import (
	"testing"

	"linguist/internal/domain"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func sampleCatalog() *domain.Catalog {
	return domain.NewCatalog("zh_CN", []*domain.Message{
		{Context: "AdvancedSearchWidget", Source: "Artist", Translation: "艺术家"},
		{Context: "AdvancedSearchWidget", Source: "Entity Type:", Translation: "实体类型：", Status: domain.StatusVanished},
		{Context: "AdvancedSearchWidget", Source: "Release Group", Translation: "发行组", Status: domain.StatusUnfinished},
		{Context: "AdvancedSearchWidget", Source: "Annotation", Status: domain.StatusUnfinished},
		{Context: "MainWindow", Source: "Artist", Translation: "歌手"},
		{Context: "MainWindow", Source: "Open", Comment: "verb", Translation: "打开"},
		{Context: "MainWindow", Source: "Open", Comment: "adjective", Translation: "开放的"},
		{Context: "MainWindow", Source: "Quit", Translation: "退出"},
		{Context: "MainWindow", Source: "Quit", Translation: "离开"},
		{Context: "SearchResultTab", Source: "%n result(s)", Numerus: true, NumerusForms: []string{"%n 个结果"}},
	})
}

func TestIndexTranslate(t *testing.T) {
	idx := NewIndex(sampleCatalog(), Options{})

	assert.Equal(t, "zh_CN", idx.Language())
	assert.Equal(t, 7, idx.Len(), "vanished, empty and duplicate entries are not indexed")
	assert.Equal(t, "艺术家", idx.Translate("AdvancedSearchWidget", "Artist"))
	assert.Equal(t, "歌手", idx.Translate("MainWindow", "Artist"), "context separates identical sources")
	assert.Equal(t, "Entity Type:", idx.Translate("AdvancedSearchWidget", "Entity Type:"), "vanished is never surfaced")
	assert.Equal(t, "发行组", idx.Translate("AdvancedSearchWidget", "Release Group"))
	assert.Equal(t, "Annotation", idx.Translate("AdvancedSearchWidget", "Annotation"))
	assert.Equal(t, "退出", idx.Translate("MainWindow", "Quit"), "first duplicate wins")
	assert.Equal(t, "%n 个结果", idx.Translate("SearchResultTab", "%n result(s)"))
	assert.Equal(t, "Nope", idx.Translate("MainWindow", "Nope"))

	assert.Equal(t, "开放的", idx.TranslateDisambiguated("MainWindow", "Open", "adjective"))
	assert.Equal(t, "Open", idx.Translate("MainWindow", "Open"), "a disambiguated entry never answers a lookup without comment")
	assert.Equal(t, "退出", idx.TranslateDisambiguated("MainWindow", "Quit", "menu"), "falls back to empty comment")

	_, ok := idx.Lookup("AdvancedSearchWidget", "Annotation")
	assert.False(t, ok)
}

func TestIndexSkipUnfinished(t *testing.T) {
	idx := NewIndex(sampleCatalog(), Options{SkipUnfinished: true})
	assert.Equal(t, 6, idx.Len())
	assert.Equal(t, "Release Group", idx.Translate("AdvancedSearchWidget", "Release Group"))
	assert.Equal(t, "艺术家", idx.Translate("AdvancedSearchWidget", "Artist"))
}

func TestIndexProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		contexts := []string{"MainWindow", "SettingsDialog", ""}
		sources := []string{"Artist", "Release", "Quit", "", "Search…"}
		n := rapid.IntRange(0, 30).Draw(t, "n")
		var msgs []*domain.Message
		for i := 0; i < n; i++ {
			msgs = append(msgs, &domain.Message{
				Context:     rapid.SampledFrom(contexts).Draw(t, "ctx"),
				Source:      rapid.SampledFrom(sources).Draw(t, "src"),
				Translation: rapid.SampledFrom([]string{"", "译", "翻译"}).Draw(t, "tr"),
				Status:      rapid.SampledFrom([]domain.Status{domain.StatusFinished, domain.StatusUnfinished, domain.StatusVanished}).Draw(t, "st"),
			})
		}
		idx := NewIndex(domain.NewCatalog("zh_CN", msgs), Options{})

		for _, c := range contexts {
			for _, s := range sources {
				// the first live, non-empty occurrence decides
				want := s
				for _, m := range msgs {
					if m.Context == c && m.Source == s && m.Live() && m.Translation != "" {
						want = m.Translation
						break
					}
				}
				if got := idx.Translate(c, s); got != want {
					t.Fatalf("Translate(%q, %q) = %q, want %q", c, s, got, want)
				}
			}
		}
	})
}
