package merge

import (
	"testing"

	"linguist/internal/domain"
	"linguist/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func at(file, line string) domain.Location { return domain.Location{Filename: file, Line: line} }

func existingCatalog() *domain.Catalog {
	cat := domain.NewCatalog("zh_CN", []*domain.Message{
		{Context: "MainWindow", Source: "Quit", Translation: "退出", Locations: []domain.Location{at("mainwindow.cpp", "10")}},
		{Context: "MainWindow", Source: "Help", Translation: "帮助", Locations: []domain.Location{at("mainwindow.cpp", "11")}},
		{Context: "MainWindow", Source: "Search", Translation: "搜索", Status: domain.StatusVanished},
		{Context: "MainWindow", Source: "Old", Translation: "旧", Status: domain.StatusVanished},
	})
	cat.SourceLanguage = "en"
	return cat
}

func TestMerge(t *testing.T) {
	existing := existingCatalog()
	scanned := []ports.ScannedString{
		{Context: "MainWindow", Source: "Quit", Location: at("mainwindow.cpp", "20")},
		{Context: "MainWindow", Source: "Search", Location: at("mainwindow.cpp", "21")},
		{Context: "SettingsDialog", Source: "Language", Location: at("settingsdialog.cpp", "5")},
		{Context: "SettingsDialog", Source: "Language", Location: at("settingsdialog.cpp", "9")},
	}

	got, rep := Merge(existing, scanned)
	assert.Equal(t, Report{Added: 1, Kept: 1, Revived: 1, Vanished: 1}, rep)
	assert.Equal(t, "zh_CN", got.Language)
	assert.Equal(t, "en", got.SourceLanguage)

	mw := got.Context("MainWindow").Messages
	require.Len(t, mw, 4)
	assert.Equal(t, domain.StatusFinished, mw[0].Status)
	assert.Equal(t, "退出", mw[0].Translation)
	assert.Equal(t, []domain.Location{at("mainwindow.cpp", "20")}, mw[0].Locations)

	assert.Equal(t, domain.StatusVanished, mw[1].Status, "missing from scan")
	assert.Equal(t, "帮助", mw[1].Translation, "vanished keeps its text")
	assert.Empty(t, mw[1].Locations)

	assert.Equal(t, domain.StatusUnfinished, mw[2].Status, "revived")
	assert.Equal(t, "搜索", mw[2].Translation)

	assert.Equal(t, domain.StatusVanished, mw[3].Status)

	sd := got.Context("SettingsDialog")
	require.NotNil(t, sd)
	require.Len(t, sd.Messages, 1)
	assert.Equal(t, domain.StatusUnfinished, sd.Messages[0].Status)
	assert.Empty(t, sd.Messages[0].Translation)
	assert.Len(t, sd.Messages[0].Locations, 2)

	// input untouched
	assert.Equal(t, domain.StatusFinished, existing.Context("MainWindow").Messages[1].Status)
	assert.Equal(t, "10", existing.Context("MainWindow").Messages[0].Locations[0].Line)
}

func TestMergeNilExisting(t *testing.T) {
	got, rep := Merge(nil, []ports.ScannedString{{Context: "A", Source: "x"}})
	assert.Equal(t, Report{Added: 1}, rep)
	assert.Equal(t, "2.1", got.Version)
	assert.Len(t, got.Messages(), 1)
}

func TestMergeDisambiguationIsPartOfKey(t *testing.T) {
	existing := domain.NewCatalog("de", []*domain.Message{{Context: "A", Source: "Open", Comment: "verb", Translation: "Öffnen"}})
	got, rep := Merge(existing, []ports.ScannedString{{Context: "A", Source: "Open", Comment: "adjective"}})
	assert.Equal(t, Report{Added: 1, Vanished: 1}, rep)
	assert.Len(t, got.Messages(), 2)
}

// Merging never drops a message and never leaves a scanned string unrepresented.
func TestMergeNeverDeletes(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.SampledFrom([]string{"a", "b", "c", "d"})
		status := rapid.SampledFrom([]domain.Status{domain.StatusFinished, domain.StatusUnfinished, domain.StatusVanished})
		var msgs []*domain.Message
		for i, n := 0, rapid.IntRange(0, 8).Draw(t, "n"); i < n; i++ {
			msgs = append(msgs, &domain.Message{
				Context: word.Draw(t, "ctx"), Source: word.Draw(t, "src"),
				Translation: "t", Status: status.Draw(t, "status"),
			})
		}
		var scanned []ports.ScannedString
		for i, n := 0, rapid.IntRange(0, 8).Draw(t, "m"); i < n; i++ {
			scanned = append(scanned, ports.ScannedString{Context: word.Draw(t, "sctx"), Source: word.Draw(t, "ssrc")})
		}

		existing := domain.NewCatalog("fr", msgs)
		got, rep := Merge(existing, scanned)
		if len(got.Messages()) != len(msgs)+rep.Added {
			t.Fatalf("have %d messages, want %d + %d added", len(got.Messages()), len(msgs), rep.Added)
		}
		live := map[key]bool{}
		for _, m := range got.Messages() {
			if m.Live() {
				live[key{m.Context, m.Source, m.Comment}] = true
			}
		}
		for _, s := range scanned {
			if !live[key{s.Context, s.Source, s.Comment}] {
				t.Fatalf("scanned %q/%q has no live entry", s.Context, s.Source)
			}
		}
	})
}

func TestTranslations(t *testing.T) {
	existing := existingCatalog()
	existing.Add(&domain.Message{Context: "MainWindow", Source: "%n file(s)", Numerus: true, NumerusForms: []string{"%n 个文件"}, Status: domain.StatusUnfinished})
	existing.Contexts[0].Messages[1].Status = domain.StatusUnfinished

	edited := domain.NewCatalog("", []*domain.Message{
		{Context: "MainWindow", Source: "Quit", Translation: "离开", Status: domain.StatusFinished},
		{Context: "MainWindow", Source: "Help", Translation: "帮助", Status: domain.StatusFinished},
		{Context: "MainWindow", Source: "%n file(s)", Translation: "%n 份文件", Status: domain.StatusFinished},
		{Context: "About", Source: "Version", Translation: "版本", Status: domain.StatusFinished},
	})

	t.Run("status read from the file", func(t *testing.T) {
		got, rep := Translations(existing, edited, false)
		assert.Equal(t, TranslationReport{Updated: 3, Added: 1}, rep)
		msgs := got.Messages()
		assert.Equal(t, "离开", msgs[0].Translation)
		assert.Equal(t, []domain.Location{at("mainwindow.cpp", "10")}, msgs[0].Locations)
		assert.Equal(t, domain.StatusFinished, msgs[1].Status, "accepting a translation only changes its status")
		assert.Equal(t, []string{"%n 份文件"}, msgs[4].NumerusForms)
		assert.Empty(t, msgs[4].Translation)
		assert.Equal(t, "Search", msgs[2].Source, "untouched entries stay in place")
		assert.Equal(t, "About", got.Contexts[1].Name)
		assert.Equal(t, "zh_CN", got.Language)

		assert.Equal(t, domain.StatusUnfinished, existing.Contexts[0].Messages[1].Status, "existing is not modified")
		assert.Equal(t, "退出", existing.Contexts[0].Messages[0].Translation)
	})

	t.Run("status implied by the text", func(t *testing.T) {
		got, rep := Translations(existing, edited, true)
		assert.Equal(t, TranslationReport{Updated: 2, Unchanged: 1, Added: 1}, rep)
		assert.Equal(t, domain.StatusUnfinished, got.Messages()[1].Status, "same text keeps the stored status")
	})
}
