package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAndLoadDefaults(t *testing.T) {
	cfg, path, err := FindAndLoad(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, filepath.Join("data", "linguist.db"), cfg.Database.Path)
	assert.Equal(t, "musicbrainzqt", cfg.Translations.Prefix)
	assert.Equal(t, "system", cfg.Language)
}

func TestFindAndLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(`
language = "zh_CN"

[database]
path = "state/app.db"

[translations]
dir = "/abs/translations"
prefix = "app"
skip_unfinished = true

[provider]
type = "openrouter"
model = "qwen/qwen-2.5-72b-instruct"

[prompts]
"translate_single.user" = "{{.Text}}"
`), 0o644))
	nested := filepath.Join(root, "src", "ui")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, path, err := FindAndLoad(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, FileName), path)
	assert.Equal(t, "zh_CN", cfg.Language)
	assert.Equal(t, filepath.Join(root, "state", "app.db"), cfg.Database.Path)
	assert.Equal(t, "/abs/translations", cfg.Translations.Dir)
	assert.Equal(t, "app", cfg.Translations.Prefix)
	assert.True(t, cfg.Translations.SkipUnfinished)
	assert.Equal(t, "openrouter", cfg.Provider.Type)
	assert.Equal(t, "{{.Text}}", cfg.Prompts["translate_single.user"])
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(p, []byte("langauge = \"de\"\n"), 0o644))
	_, err := Load(p)
	assert.ErrorContains(t, err, "unknown key langauge")
}

func TestApplyEnvWithDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LINGUIST_PROVIDER_API_KEY=from-dotenv\nLINGUIST_LANGUAGE=de\n"), 0o644))
	dotenv, err := DotEnv(dir)
	require.NoError(t, err)

	process := map[string]string{"LINGUIST_LANGUAGE": "zh_CN", "LINGUIST_DB": "/tmp/x.db", "LINGUIST_SKIP_UNFINISHED": "true"}
	getenv := Getenv(func(k string) string { return process[k] }, dotenv)

	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(getenv))
	assert.Equal(t, "zh_CN", cfg.Language, "process env beats .env")
	assert.Equal(t, "from-dotenv", cfg.Provider.APIKey)
	assert.Equal(t, "/tmp/x.db", cfg.Database.Path)
	assert.True(t, cfg.Translations.SkipUnfinished)

	bad := DefaultConfig()
	assert.Error(t, bad.ApplyEnv(func(k string) string {
		if k == "LINGUIST_SKIP_UNFINISHED" {
			return "maybe"
		}
		return ""
	}))
}

func TestDotEnvMissing(t *testing.T) {
	env, err := DotEnv(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, env)
}
