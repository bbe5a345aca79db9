package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"linguist/internal/adapters/db/sqlite"
	csvexp "linguist/internal/adapters/exporter/csv"
	exreg "linguist/internal/adapters/exporter/registry"
	tsexp "linguist/internal/adapters/exporter/qtts"
	csvpar "linguist/internal/adapters/parser/csv"
	"linguist/internal/adapters/parser/qtts"
	parreg "linguist/internal/adapters/parser/registry"
	"linguist/internal/domain"
	"linguist/internal/usecase/exporter"
	"linguist/internal/usecase/merge"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTS = "../../adapters/parser/qtts/testdata/sample_zh_CN.ts"

func newServices(t *testing.T) (*Service, *exporter.Service, *sqlite.FileRepo) {
	t.Helper()
	db, err := sqlite.Init(filepath.Join(t.TempDir(), "import.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	pr := parreg.New()
	pr.Register(qtts.New())
	pr.Register(csvpar.New())
	er := exreg.New()
	er.Register(tsexp.New())
	er.Register(csvexp.New())

	files, units := sqlite.NewFileRepo(db), sqlite.NewUnitRepo(db)
	return New(files, units, pr), exporter.New(files, units, er), files
}

func TestImportExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	imp, exp, files := newServices(t)
	data, err := os.ReadFile(sampleTS)
	require.NoError(t, err)

	res, err := imp.Import(ctx, ImportArgs{Filename: "translations/sample_zh_CN.ts", Content: data})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, 8, res.Units)
	assert.Equal(t, domain.Stats{Contexts: 2, Finished: 4, Unfinished: 3, Vanished: 1}, res.Stats)

	f, err := files.GetByName(ctx, "sample_zh_CN")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "qtts", f.Format)
	assert.Equal(t, "zh_CN", f.Language)
	assert.Equal(t, sqlite.HashBytes(data), f.Hash)

	out, err := exp.ExportFile(ctx, exporter.ExportArgs{Name: "sample_zh_CN"})
	require.NoError(t, err)
	assert.Equal(t, "translations/sample_zh_CN.ts", out.Filename)
	assert.Equal(t, string(data), string(out.Content))
}

func TestReimportReplacesUnits(t *testing.T) {
	ctx := context.Background()
	imp, exp, files := newServices(t)
	data, err := os.ReadFile(sampleTS)
	require.NoError(t, err)

	first, err := imp.Import(ctx, ImportArgs{Name: "app", Filename: "a.ts", Content: data})
	require.NoError(t, err)
	smaller := strings.Replace(string(data), "<source>Annotation</source>", "<source>Notes</source>", 1)
	second, err := imp.Import(ctx, ImportArgs{Name: "app", Filename: "b.ts", Content: []byte(smaller)})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.False(t, second.Merged)
	assert.Equal(t, first.FileID, second.FileID)

	list, err := files.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b.ts", list[0].Path)

	out, err := exp.ExportFile(ctx, exporter.ExportArgs{Name: "app"})
	require.NoError(t, err)
	assert.Equal(t, smaller, string(out.Content))
}

func TestCSVEditMergesIntoStoredCatalog(t *testing.T) {
	ctx := context.Background()
	imp, exp, files := newServices(t)
	data, err := os.ReadFile(sampleTS)
	require.NoError(t, err)
	_, err = imp.Import(ctx, ImportArgs{Name: "app", Filename: "translations/app_zh_CN.ts", Content: data})
	require.NoError(t, err)

	sheet, err := exp.ExportFile(ctx, exporter.ExportArgs{Name: "app", OverrideFormat: "csv"})
	require.NoError(t, err)
	edited := strings.Replace(string(sheet.Content), "AdvancedSearchWidget,Annotation,,unfinished,", "AdvancedSearchWidget,Annotation,注释,finished,", 1)
	require.NotEqual(t, string(sheet.Content), edited)
	edited += "MainWindow,Quit,退出,finished,\n"

	res, err := imp.Import(ctx, ImportArgs{Name: "app", Filename: "edited.csv", Content: []byte(edited)})
	require.NoError(t, err)
	assert.True(t, res.Merged)
	assert.Equal(t, merge.TranslationReport{Updated: 1, Unchanged: 7, Added: 1}, res.Translations)
	assert.Equal(t, 9, res.Units)

	f, err := files.GetByName(ctx, "app")
	require.NoError(t, err)
	assert.Equal(t, "zh_CN", f.Language)
	assert.Equal(t, "qtts", f.Format)
	assert.Equal(t, "translations/app_zh_CN.ts", f.Path)

	want := strings.Replace(string(data),
		"<source>Annotation</source>\n        <translation type=\"unfinished\"></translation>",
		"<source>Annotation</source>\n        <translation>注释</translation>", 1)
	want = strings.Replace(want, "</TS>\n", "<context>\n    <name>MainWindow</name>\n    <message>\n        <source>Quit</source>\n        <translation>退出</translation>\n    </message>\n</context>\n</TS>\n", 1)
	out, err := exp.ExportFile(ctx, exporter.ExportArgs{Name: "app"})
	require.NoError(t, err)
	assert.Equal(t, want, string(out.Content), "locations, comments and numerus forms survive the csv round trip")
}

func TestCSVImportWithoutStoredCatalog(t *testing.T) {
	ctx := context.Background()
	imp, _, files := newServices(t)

	res, err := imp.Import(ctx, ImportArgs{Name: "app", Filename: "a.csv", Content: []byte("context,source,translation\nMainWindow,Quit,退出\n")})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.False(t, res.Merged)

	f, err := files.GetByName(ctx, "app")
	require.NoError(t, err)
	assert.Equal(t, "csv", f.Format)
}

func TestImportErrors(t *testing.T) {
	ctx := context.Background()
	imp, exp, _ := newServices(t)

	_, err := imp.Import(ctx, ImportArgs{Filename: "strings.po", Content: []byte("x")})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)

	_, err = imp.Import(ctx, ImportArgs{Filename: "x.json", Content: []byte("{}")})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat, "paraglidejson is not registered here")

	_, err = imp.Import(ctx, ImportArgs{Filename: "broken.ts", Content: []byte("<html/>")})
	assert.ErrorIs(t, err, domain.ErrInvalidCatalog)

	_, err = exp.ExportFile(ctx, exporter.ExportArgs{Name: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExportOverrideFormat(t *testing.T) {
	ctx := context.Background()
	imp, exp, _ := newServices(t)
	_, err := imp.Import(ctx, ImportArgs{Name: "app", Filename: "a.csv", Content: []byte("context,source,translation,status\nMainWindow,Quit,退出,finished\n")})
	require.NoError(t, err)

	out, err := exp.ExportFile(ctx, exporter.ExportArgs{Name: "app", OverrideFormat: "qtts"})
	require.NoError(t, err)
	assert.Equal(t, "qtts", out.Format)
	assert.Contains(t, string(out.Content), "<translation>退出</translation>")

	_, err = exp.ExportFile(ctx, exporter.ExportArgs{Name: "app", OverrideFormat: "vdf"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}
