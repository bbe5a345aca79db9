package qtts

import (
	"os"
	"testing"

	"linguist/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSample(t *testing.T) {
	data, err := os.ReadFile("testdata/sample_zh_CN.ts")
	require.NoError(t, err)

	res, err := New().Parse(data)
	require.NoError(t, err)
	cat := res.Catalog

	assert.Equal(t, "2.1", cat.Version)
	assert.Equal(t, "zh_CN", cat.Language)
	require.Len(t, cat.Contexts, 2)

	adv := cat.Context("AdvancedSearchWidget")
	require.NotNil(t, adv)
	require.Len(t, adv.Messages, 5)

	first := adv.Messages[0]
	assert.Equal(t, "Advanced Search", first.Source)
	assert.Equal(t, "高级搜索", first.Translation)
	assert.Equal(t, domain.StatusFinished, first.Status)
	assert.Equal(t, []domain.Location{{Filename: "../ui/advancedsearchwidget.ui", Line: "14"}}, first.Locations)
	assert.Equal(t, "AdvancedSearchWidget", first.Context)

	assert.Equal(t, domain.StatusVanished, adv.Messages[1].Status)
	assert.Empty(t, adv.Messages[1].Locations)
	assert.Len(t, adv.Messages[2].Locations, 2)
	assert.Equal(t, domain.StatusUnfinished, adv.Messages[3].Status)
	assert.Equal(t, "发行组", adv.Messages[3].Translation)
	assert.Equal(t, "", adv.Messages[4].Translation)

	settings := cat.Context("SettingsDialog")
	require.NotNil(t, settings)
	assert.Equal(t, "<i>Some settings will take effect after restart</i>", settings.Messages[0].Source)
	assert.Equal(t, "language option", settings.Messages[1].Comment)

	plural := settings.Messages[2]
	assert.True(t, plural.Numerus)
	assert.Equal(t, []string{"%n 个结果"}, plural.NumerusForms)
	assert.Equal(t, "%n 个结果", plural.Text())

	st := cat.Stats()
	assert.Equal(t, domain.Stats{Contexts: 2, Finished: 4, Unfinished: 3, Vanished: 1}, st)
}

func TestParseObsoleteIsVanished(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS><TS version="2.0" language="de"><context><name>C</name>
<message><source>Old</source><translation type="obsolete">Alt</translation></message>
</context></TS>`
	res, err := New().Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVanished, res.Catalog.Contexts[0].Messages[0].Status)
}

func TestParseBOM(t *testing.T) {
	doc := "\xEF\xBB\xBF<TS version=\"2.1\" language=\"en_US\"></TS>"
	res, err := New().Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "en_US", res.Catalog.Language)
	assert.Empty(t, res.Catalog.Contexts)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"wrong root":   `<resources><string name="a">b</string></resources>`,
		"broken xml":   `<TS version="2.1"><context>`,
		"unknown type": `<TS><context><name>C</name><message><source>a</source><translation type="draft">b</translation></message></context></TS>`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New().Parse([]byte(doc))
			assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
		})
	}
}
