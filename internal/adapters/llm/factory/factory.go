package factory

import (
	"fmt"
	"strings"

	httpprov "linguist/internal/adapters/llm/httpclient"
	"linguist/internal/domain"
	"linguist/internal/ports"
)

// FromProvider returns an HTTP-backed provider for the given record.
func FromProvider(p domain.Provider) (ports.Provider, error) {
	switch strings.ToLower(p.Type) {
	case "ollama":
	case "openrouter":
		if p.APIKey == "" {
			return nil, fmt.Errorf("openrouter provider needs an api key")
		}
	case "":
		return nil, fmt.Errorf("no provider configured")
	default:
		return nil, fmt.Errorf("unsupported provider: %s", p.Type)
	}
	return httpprov.New(p), nil
}
