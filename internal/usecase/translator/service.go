package translator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"linguist/internal/domain"
	"linguist/internal/ports"
)

type Deps struct {
	Cache    ports.CacheRepository
	Prompt   ports.PromptRenderer
	Provider ports.Provider
	// Info names the provider and default model in cache keys.
	Info domain.Provider
}

type Service struct{ d Deps }

func New(d Deps) *Service { return &Service{d: d} }

type TranslateArgs struct {
	Message     *domain.Message
	Catalog     string
	SourceLang  string
	TargetLang  string
	Model       string
	BypassCache bool
}

// Backoff between attempts on flaky model output.
var Backoff = 200 * time.Millisecond

func (s *Service) TranslateOne(ctx context.Context, a TranslateArgs) (string, error) {
	if a.Message == nil {
		return "", errors.New("message is required")
	}
	if s.d.Provider == nil {
		return "", errors.New("no translation provider")
	}
	model := a.Model
	if model == "" {
		model = s.d.Info.Model
	}
	src := a.Message.Source
	placeholders := extractPlaceholders(src)
	tags := extractTags(src)
	masked, unmask := maskTokens(src, placeholders, tags)

	if !a.BypassCache && s.d.Cache != nil {
		if ce, _ := s.d.Cache.Get(ctx, masked, a.SourceLang, a.TargetLang, s.d.Info.Type, model); ce != nil {
			return unmask(ce.Translation), nil
		}
	}

	data := ports.PromptData{
		SrcLang:      a.SourceLang,
		TgtLang:      a.TargetLang,
		Context:      a.Message.Context,
		Comment:      a.Message.Comment,
		Text:         masked,
		Catalog:      a.Catalog,
		Placeholders: placeholders,
		Tags:         tags,
	}
	system, err := s.d.Prompt.Render("translate_single", "system", data)
	if err != nil {
		return "", err
	}
	user, err := s.d.Prompt.Render("translate_single", "user", data)
	if err != nil {
		return "", err
	}
	segment := ports.Segment{Context: a.Message.Context, Text: masked, Comment: a.Message.Comment, Placeholders: placeholders, Tags: tags}

	var res ports.TranslateResult
	for attempt := 1; attempt <= 3; attempt++ {
		res, err = s.d.Provider.Translate(ctx, segment, ports.TranslateParams{
			SourceLang:   a.SourceLang,
			TargetLang:   a.TargetLang,
			Model:        model,
			SystemPrompt: system,
			UserPrompt:   user,
		})
		if err == nil {
			break
		}
		if !isRetryableTranslateError(err) || attempt == 3 {
			return "", err
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * Backoff):
		}
	}
	raw := strings.TrimSpace(res.Translation)
	translated := unmask(raw)
	for _, ph := range placeholders {
		if !strings.Contains(translated, ph) {
			return "", fmt.Errorf("placeholder missing in translation: %s", ph)
		}
	}
	for _, tg := range tags {
		if !strings.Contains(translated, tg) {
			return "", fmt.Errorf("tag missing in translation: %s", tg)
		}
	}
	if s.d.Cache != nil {
		// cache the masked form so it matches the masked lookup key
		_ = s.d.Cache.Put(ctx, &domain.CacheEntry{
			SourceText:  masked,
			SrcLang:     a.SourceLang,
			TgtLang:     a.TargetLang,
			Provider:    s.d.Info.Type,
			Model:       model,
			Translation: raw,
		})
	}
	return translated, nil
}

// Qt positional arguments (%1, %L2) and the plural count %n.
var placeholderRE = regexp.MustCompile(`%L?(?:[1-9][0-9]?|n)`)

// Rich-text markup and entities.
var tagRE = regexp.MustCompile(`<[^<>]+>|&[a-zA-Z]+;|&#[0-9]+;`)

func extractPlaceholders(s string) []string { return uniqueMatches(placeholderRE, s) }

func extractTags(s string) []string { return uniqueMatches(tagRE, s) }

// uniqueMatches returns distinct matches, longest first, so %10 is masked before %1.
func uniqueMatches(re *regexp.Regexp, s string) []string {
	m := re.FindAllString(s, -1)
	if len(m) == 0 {
		return nil
	}
	uniq := make(map[string]struct{}, len(m))
	for _, v := range m {
		uniq[v] = struct{}{}
	}
	out := make([]string, 0, len(uniq))
	for v := range uniq {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

func maskTokens(s string, placeholders, tags []string) (string, func(string) string) {
	masked := s
	repls := []struct{ from, to string }{}
	// tags first: an entity never contains a placeholder, but markup might
	for i, tg := range tags {
		token := fmt.Sprintf("__TAG_%d__", i)
		masked = strings.ReplaceAll(masked, tg, token)
		repls = append(repls, struct{ from, to string }{from: token, to: tg})
	}
	for i, ph := range placeholders {
		token := fmt.Sprintf("__PH_%d__", i)
		masked = strings.ReplaceAll(masked, ph, token)
		repls = append(repls, struct{ from, to string }{from: token, to: ph})
	}
	unmask := func(in string) string {
		out := in
		for i := len(repls) - 1; i >= 0; i-- {
			out = strings.ReplaceAll(out, repls[i].from, repls[i].to)
		}
		return out
	}
	return masked, unmask
}

// isRetryableTranslateError reports output/format problems that models
// often get right on a second try.
func isRetryableTranslateError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "failed to parse translation json"):
		return true
	case strings.Contains(msg, "no choices returned"):
		return true
	case strings.Contains(msg, "unexpected end of"):
		return true
	case strings.Contains(msg, "invalid character"):
		return true
	default:
		return false
	}
}
