package domain

// Provider describes an LLM endpoint used for machine pre-translation.
type Provider struct {
	Type    string `json:"type" toml:"type"` // ollama | openrouter
	BaseURL string `json:"base_url" toml:"base_url"`
	Model   string `json:"model" toml:"model"`
	APIKey  string `json:"-" toml:"api_key"`
}
