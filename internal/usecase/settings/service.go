package settings

import (
	"context"
	"errors"
	"fmt"
	"os"

	"linguist/internal/domain"
	"linguist/internal/locale"
	"linguist/internal/ports"
)

const (
	KeyLanguage    = "language"
	LanguageSystem = "system"
)

// Matcher picks the best available translation locale; "" means the source language.
type Matcher interface {
	Match(preferred ...string) string
}

type Service struct {
	Settings ports.SettingsRepository
	// Getenv reads the process locale; os.Getenv when nil.
	Getenv func(string) string
	// Default is used when nothing is stored.
	Default string
}

func New(repo ports.SettingsRepository, def string) *Service {
	if def == "" {
		def = LanguageSystem
	}
	return &Service{Settings: repo, Default: def}
}

// Language returns the stored language preference.
func (s *Service) Language(ctx context.Context) (string, error) {
	v, err := s.Settings.Get(ctx, KeyLanguage)
	if errors.Is(err, domain.ErrNotFound) {
		return s.Default, nil
	}
	return v, err
}

// SetLanguage stores "system" or a locale, normalised to its Qt name.
func (s *Service) SetLanguage(ctx context.Context, v string) (string, error) {
	if v != LanguageSystem {
		tag, err := locale.Parse(v)
		if err != nil {
			return "", err
		}
		name := locale.QtName(tag)
		if name == "" {
			return "", fmt.Errorf("language %q names no locale; use %q", v, LanguageSystem)
		}
		v = name
	}
	return v, s.Settings.Set(ctx, KeyLanguage, v)
}

// Resolve turns the preference into a loaded locale, reading the environment
// for "system".
func (s *Service) Resolve(ctx context.Context, m Matcher) (string, error) {
	v, err := s.Language(ctx)
	if err != nil {
		return "", err
	}
	if v == LanguageSystem {
		getenv := s.Getenv
		if getenv == nil {
			getenv = os.Getenv
		}
		v = locale.FromEnv(getenv)
	}
	return m.Match(v), nil
}
