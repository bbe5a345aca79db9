package httpclient

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "regexp"
    "strings"
    "time"

    "linguist/internal/domain"
    "linguist/internal/ports"

    "github.com/go-resty/resty/v2"
)

const (
    defaultOllamaURL     = "http://localhost:11434"
    defaultOpenRouterURL = "https://openrouter.ai"
)

// Client talks to chat-completion style LLM endpoints. One client serves one
// provider record.
type Client struct {
    ProviderType string
    APIKey       string
    BaseURL      string
    Model        string
    http         *resty.Client
}

func New(p domain.Provider) *Client {
    c := resty.New().SetTimeout(60 * time.Second)
    return &Client{ProviderType: strings.ToLower(p.Type), APIKey: p.APIKey, BaseURL: p.BaseURL, Model: p.Model, http: c}
}

func (c *Client) Translate(ctx context.Context, seg ports.Segment, p ports.TranslateParams) (ports.TranslateResult, error) {
    switch c.ProviderType {
    case "openrouter":
        return c.translateOpenRouter(ctx, p)
    case "ollama":
        return c.translateOllama(ctx, p)
    default:
        return ports.TranslateResult{}, fmt.Errorf("unsupported provider: %s", c.ProviderType)
    }
}

func (c *Client) ListModels(ctx context.Context) ([]ports.ModelInfo, error) {
    switch c.ProviderType {
    case "ollama":
        url := strings.TrimRight(c.base(defaultOllamaURL), "/") + "/api/tags"
        var resp struct{ Models []struct{ Name string `json:"name"` } `json:"models"` }
        r, err := c.http.R().SetContext(ctx).SetResult(&resp).Get(url)
        if err != nil { return nil, err }
        if r.IsError() { return nil, fmt.Errorf("ollama list models: %s; body: %s", r.Status(), abbreviate(r.String(), 500)) }
        out := make([]ports.ModelInfo, 0, len(resp.Models))
        for _, m := range resp.Models { out = append(out, ports.ModelInfo{Name: m.Name}) }
        return out, nil
    case "openrouter":
        url := openRouterURL(c.base(defaultOpenRouterURL), "/models")
        var resp struct {
            Data []struct {
                ID            string `json:"id"`
                Name          string `json:"name"`
                ContextLength int    `json:"context_length"`
            } `json:"data"`
        }
        rr, err := c.http.R().SetContext(ctx).
            SetHeader("Authorization", "Bearer "+c.APIKey).
            SetResult(&resp).Get(url)
        if err != nil { return nil, err }
        if rr.IsError() { return nil, fmt.Errorf("openrouter list models: %s; body: %s", rr.Status(), abbreviate(rr.String(), 500)) }
        out := make([]ports.ModelInfo, 0, len(resp.Data))
        for _, d := range resp.Data {
            label := d.Name
            if label == "" { label = d.ID }
            out = append(out, ports.ModelInfo{Name: d.ID, Description: label, ContextTokens: d.ContextLength})
        }
        return out, nil
    default:
        return nil, fmt.Errorf("unsupported provider: %s", c.ProviderType)
    }
}

func (c *Client) Test(ctx context.Context) error { _, err := c.ListModels(ctx); return err }

func (c *Client) base(def string) string {
    if c.BaseURL == "" { return def }
    return c.BaseURL
}

func (c *Client) model(p ports.TranslateParams) string {
    if p.Model != "" { return p.Model }
    return c.Model
}

func chatMessages(p ports.TranslateParams) []map[string]string {
    return []map[string]string{
        {"role": "system", "content": p.SystemPrompt},
        {"role": "user", "content": p.UserPrompt},
    }
}

var translationSchema = map[string]any{
    "type": "json_schema",
    "json_schema": map[string]any{
        "name":   "translation",
        "strict": true,
        "schema": map[string]any{
            "type": "object",
            "properties": map[string]any{
                "translation": map[string]any{"type": "string"},
            },
            "required":             []string{"translation"},
            "additionalProperties": false,
        },
    },
}

func (c *Client) translateOpenRouter(ctx context.Context, p ports.TranslateParams) (ports.TranslateResult, error) {
    url := openRouterURL(c.base(defaultOpenRouterURL), "/chat/completions")
    body := map[string]any{
        "model":           c.model(p),
        "messages":        chatMessages(p),
        "temperature":     p.Temperature,
        "response_format": translationSchema,
    }
    var resp struct{ Choices []struct{ Message struct{ Content string `json:"content"` } `json:"message"` } `json:"choices"` }
    post := func() (*resty.Response, error) {
        return c.http.R().SetContext(ctx).
            SetHeader("Authorization", "Bearer "+c.APIKey).
            SetHeader("X-Title", "linguist").
            SetHeader("Content-Type", "application/json").
            SetBody(body).SetResult(&resp).Post(url)
    }
    rr, err := post()
    if err != nil { return ports.TranslateResult{}, err }
    // models without structured output reject json_schema; retry with plain JSON mode
    if rr.StatusCode() == http.StatusBadRequest {
        body["response_format"] = map[string]string{"type": "json_object"}
        if rr, err = post(); err != nil { return ports.TranslateResult{}, err }
    }
    if rr.IsError() { return ports.TranslateResult{}, fmt.Errorf("openrouter translate: %s; body: %s", rr.Status(), abbreviate(rr.String(), 500)) }
    if len(resp.Choices) == 0 { return ports.TranslateResult{}, fmt.Errorf("no choices returned") }
    content := strings.TrimSpace(resp.Choices[0].Message.Content)
    tr, err := extractTranslation(content)
    if err != nil { return ports.TranslateResult{}, err }
    return ports.TranslateResult{Translation: tr, Raw: content}, nil
}

func (c *Client) translateOllama(ctx context.Context, p ports.TranslateParams) (ports.TranslateResult, error) {
    url := strings.TrimRight(c.base(defaultOllamaURL), "/") + "/api/chat"
    body := map[string]any{
        "model":    c.model(p),
        "messages": chatMessages(p),
        "stream":   false,
        "format":   "json",
        "options":  map[string]any{"temperature": p.Temperature},
    }
    var resp struct{ Message struct{ Content string `json:"content"` } `json:"message"` }
    rr, err := c.http.R().SetContext(ctx).SetHeader("Content-Type", "application/json").SetBody(body).SetResult(&resp).Post(url)
    if err != nil { return ports.TranslateResult{}, err }
    if rr.IsError() { return ports.TranslateResult{}, fmt.Errorf("ollama translate: %s; body: %s", rr.Status(), abbreviate(rr.String(), 500)) }
    content := strings.TrimSpace(resp.Message.Content)
    tr, err := extractTranslation(content)
    if err != nil { return ports.TranslateResult{}, err }
    return ports.TranslateResult{Translation: tr, Raw: content}, nil
}

var translationRE = regexp.MustCompile(`(?s)"translation"\s*:\s*"(.*?)"`)

// extractTranslation pulls {"translation": "..."} out of a model reply,
// tolerating code fences, surrounding chatter, and plain-text answers.
func extractTranslation(content string) (string, error) {
    s := strings.TrimSpace(content)
    if idx := strings.Index(s, "```"); idx >= 0 {
        rest := strings.TrimPrefix(s[idx+3:], "json")
        if j := strings.Index(rest, "```"); j >= 0 {
            s = strings.TrimSpace(rest[:j])
        }
    }
    var obj struct{ Translation string `json:"translation"` }
    if err := json.Unmarshal([]byte(s), &obj); err == nil && obj.Translation != "" { return obj.Translation, nil }
    if m := translationRE.FindStringSubmatch(s); len(m) == 2 {
        return unescapeLoose(m[1]), nil
    }
    if i := strings.Index(s, "{"); i >= 0 {
        if j := strings.LastIndex(s, "}"); j > i {
            if err := json.Unmarshal([]byte(s[i:j+1]), &obj); err == nil && obj.Translation != "" { return obj.Translation, nil }
        }
    }
    if !strings.Contains(s, "{") {
        lower := strings.ToLower(s)
        for _, k := range []string{"translation:", "translated:", "result:", "output:"} {
            if pos := strings.Index(lower, k); pos >= 0 && pos < 80 {
                if cand := strings.TrimSpace(s[pos+len(k):]); cand != "" { return cand, nil }
            }
        }
        if s != "" { return s, nil }
    }
    return "", fmt.Errorf("failed to parse translation JSON; content: %s", abbreviate(s, 2000))
}

func unescapeLoose(s string) string {
    s = strings.ReplaceAll(s, `\n`, "\n")
    return strings.ReplaceAll(s, `\"`, `"`)
}

func abbreviate(s string, n int) string {
    if len(s) <= n { return s }
    if n <= 3 { return s[:n] }
    return s[:n-3] + "..."
}

// openRouterURL builds a URL for OpenRouter whether base contains /api/v1 or not.
func openRouterURL(base, tail string) string {
    b := strings.TrimRight(base, "/")
    if idx := strings.Index(b, "/api/v1"); idx >= 0 {
        return b[:idx+len("/api/v1")] + tail
    }
    return b + "/api/v1" + tail
}
