package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"linguist/internal/domain"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const FileName = "linguist.toml"

// Config is the toolkit configuration, read from linguist.toml and the environment.
type Config struct {
	Database     DatabaseConfig     `toml:"database"`
	Translations TranslationsConfig `toml:"translations"`
	// Language is "system" or a locale such as zh_CN; the stored setting wins over it.
	Language string            `toml:"language"`
	Provider domain.Provider   `toml:"provider"`
	Prompts  map[string]string `toml:"prompts"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type TranslationsConfig struct {
	Dir            string `toml:"dir"`
	Prefix         string `toml:"prefix"`
	SkipUnfinished bool   `toml:"skip_unfinished"`
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		Database:     DatabaseConfig{Path: filepath.Join("data", "linguist.db")},
		Translations: TranslationsConfig{Dir: "translations", Prefix: "musicbrainzqt"},
		Language:     "system",
		Provider:     domain.Provider{Type: "ollama"},
	}
}

// FindAndLoad looks for linguist.toml from startDir upwards. Without one it
// returns the defaults and an empty path.
func FindAndLoad(startDir string) (*Config, string, error) {
	path := FindConfigFile(startDir)
	if path == "" {
		return DefaultConfig(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// FindConfigFile walks up from startDir and returns the first linguist.toml, or "".
func FindConfigFile(startDir string) string {
	dir := startDir
	for {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load decodes path over the defaults. Relative paths in the file are taken
// relative to the file's directory.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("load %s: unknown key %s", path, undec[0])
	}
	root := filepath.Dir(path)
	cfg.Database.Path = resolve(root, cfg.Database.Path)
	cfg.Translations.Dir = resolve(root, cfg.Translations.Dir)
	return cfg, nil
}

func resolve(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// DotEnv reads a .env file in dir. A missing file yields an empty map.
func DotEnv(dir string) (map[string]string, error) {
	p := filepath.Join(dir, ".env")
	if _, err := os.Stat(p); err != nil {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return env, nil
}

// Getenv layers a .env map under the process environment, the way
// godotenv.Load never overrides variables that are already set.
func Getenv(getenv func(string) string, dotenv map[string]string) func(string) string {
	return func(k string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return dotenv[k]
	}
}

// ApplyEnv overrides file values with LINGUIST_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Database.Path, "LINGUIST_DB")
	set(&c.Translations.Dir, "LINGUIST_TRANSLATIONS_DIR")
	set(&c.Language, "LINGUIST_LANGUAGE")
	set(&c.Provider.Type, "LINGUIST_PROVIDER_TYPE")
	set(&c.Provider.BaseURL, "LINGUIST_PROVIDER_URL")
	set(&c.Provider.Model, "LINGUIST_PROVIDER_MODEL")
	set(&c.Provider.APIKey, "LINGUIST_PROVIDER_API_KEY")
	if v := getenv("LINGUIST_SKIP_UNFINISHED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("LINGUIST_SKIP_UNFINISHED: %w", err)
		}
		c.Translations.SkipUnfinished = b
	}
	return nil
}
