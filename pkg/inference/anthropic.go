package inference

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicInferencer implements Inferencer with the Messages API.
type AnthropicInferencer struct {
	client *anthropic.Client
	apiKey string
	model  string
}

func NewAnthropicInferencer(apiKey string, model string) *AnthropicInferencer {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)
	return &AnthropicInferencer{
		client: &client,
		apiKey: apiKey,
		model:  cmp.Or(model, Anthropic.DefaultModel()),
	}
}

func (a *AnthropicInferencer) ChangeBaseURL(baseURL string) {
	client := anthropic.NewClient(
		option.WithAPIKey(a.apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
	a.client = &client
}

// Infer sends the prompt pair as one user turn and joins the text blocks of the reply.
func (a *AnthropicInferencer) Infer(ctx context.Context, params *Params, system, user string) (string, error) {
	params = params.orDefault()
	if params.JSON != nil {
		system += "\n\nRespond with a single JSON object only, no prose and no code fences."
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   cmp.Or(params.MaxTokens, 4096),
		Temperature: anthropic.Float(cmp.Or(params.Temperature, 0.7)),
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", classify(Anthropic, fmt.Errorf("anthropic inference error: %w", err))
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	content := strings.TrimSpace(b.String())
	if content == "" {
		return "", classify(Anthropic, ErrEmptyCompletion)
	}
	return content, nil
}
