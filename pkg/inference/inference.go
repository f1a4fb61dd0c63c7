package inference

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
)

// Provider is one of the supported model backends.
type Provider string

const (
	OpenAI    Provider = "openai"
	Anthropic Provider = "anthropic"
	XAI       Provider = "xai"
	Google    Provider = "google"
)

// Providers lists every supported backend.
func Providers() []Provider {
	return []Provider{OpenAI, Anthropic, XAI, Google}
}

var ErrUnknownProvider = errors.New("unknown provider")

// ParseProvider accepts provider ids and the common aliases used by clients.
func ParseProvider(s string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "openai", "gpt", "chatgpt":
		return OpenAI, nil
	case "anthropic", "claude":
		return Anthropic, nil
	case "xai", "grok":
		return XAI, nil
	case "google", "gemini":
		return Google, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
}

func (p Provider) Label() string {
	switch p {
	case OpenAI:
		return "OpenAI"
	case Anthropic:
		return "Anthropic"
	case XAI:
		return "xAI Grok"
	case Google:
		return "Google Gemini"
	}
	return string(p)
}

// DefaultModel is used when a request leaves the model empty.
func (p Provider) DefaultModel() string {
	switch p {
	case OpenAI:
		return "gpt-4o-mini"
	case Anthropic:
		return "claude-sonnet-4-5"
	case XAI:
		return "grok-4-fast-reasoning"
	case Google:
		return "gemini-2.5-flash"
	}
	return ""
}

// Keys holds one optional credential per provider.
type Keys struct {
	OpenAI    string `json:"openai,omitempty"`
	Anthropic string `json:"anthropic,omitempty"`
	XAI       string `json:"xai,omitempty"`
	Google    string `json:"google,omitempty"`
}

func (k Keys) For(p Provider) string {
	switch p {
	case OpenAI:
		return strings.TrimSpace(k.OpenAI)
	case Anthropic:
		return strings.TrimSpace(k.Anthropic)
	case XAI:
		return strings.TrimSpace(k.XAI)
	case Google:
		return strings.TrimSpace(k.Google)
	}
	return ""
}

// Merge fills keys missing from k with the ones from fallback.
func (k Keys) Merge(fallback Keys) Keys {
	return Keys{
		OpenAI:    cmp.Or(strings.TrimSpace(k.OpenAI), fallback.OpenAI),
		Anthropic: cmp.Or(strings.TrimSpace(k.Anthropic), fallback.Anthropic),
		XAI:       cmp.Or(strings.TrimSpace(k.XAI), fallback.XAI),
		Google:    cmp.Or(strings.TrimSpace(k.Google), fallback.Google),
	}
}

// JSONSchema asks the provider for a JSON object matching Schema. Providers
// without structured output still get a plain JSON hint.
type JSONSchema struct {
	Name        string
	Description string
	Schema      any
}

// Params tunes a single call. Zero values fall back to provider defaults.
type Params struct {
	MaxTokens   int64
	Temperature float64
	JSON        *JSONSchema
}

// Inferencer sends one system + user prompt pair to a model and returns its text.
type Inferencer interface {
	Infer(ctx context.Context, params *Params, system, user string) (string, error)
}

// Factory builds an Inferencer for a provider, key and model.
type Factory func(p Provider, apiKey, model string) (Inferencer, error)

// New dispatches to the adapter for p. A missing key fails before any client
// is built.
func New(p Provider, apiKey, model string) (Inferencer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &Error{Provider: p, Kind: KindMissingKey, Message: "no API key configured"}
	}
	model = cmp.Or(strings.TrimSpace(model), p.DefaultModel())
	switch p {
	case OpenAI:
		return NewOpenAIInferencer(apiKey, model), nil
	case Anthropic:
		return NewAnthropicInferencer(apiKey, model), nil
	case XAI:
		return NewGrokInferencer(apiKey, model), nil
	case Google:
		g, err := NewGeminiInferencer(apiKey, model)
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, string(p))
}

func (p *Params) orDefault() *Params {
	if p == nil {
		return new(Params)
	}
	return p
}
