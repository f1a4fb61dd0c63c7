package inference

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIInferencer implements Inferencer using OpenAI's official Go SDK. It
// also serves any OpenAI-compatible endpoint through ChangeBaseURL.
type OpenAIInferencer struct {
	client   *openai.Client
	provider Provider
	apiKey   string
	model    string
}

// NewOpenAIInferencer creates a new inferencer instance using OpenAI client.
func NewOpenAIInferencer(apiKey string, model string) *OpenAIInferencer {
	return newChatInferencer(OpenAI, apiKey, model)
}

func newChatInferencer(p Provider, apiKey, model string, opts ...option.RequestOption) *OpenAIInferencer {
	opts = append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, opts...)
	client := openai.NewClient(opts...)
	return &OpenAIInferencer{
		client:   &client,
		provider: p,
		apiKey:   apiKey,
		model:    cmp.Or(model, p.DefaultModel()),
	}
}

func (o *OpenAIInferencer) ChangeBaseURL(baseURL string) {
	client := openai.NewClient(
		option.WithAPIKey(o.apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
	o.client = &client
}

func (o *OpenAIInferencer) SetModel(model string) {
	o.model = model
}

// Infer sends text to the chat completion endpoint and returns the output.
func (o *OpenAIInferencer) Infer(ctx context.Context, params *Params, system, user string) (string, error) {
	params = params.orDefault()
	req := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxCompletionTokens: openai.Int(cmp.Or(params.MaxTokens, 4096)),
		Temperature:         openai.Float(cmp.Or(params.Temperature, 0.7)),
	}
	if params.JSON != nil {
		req.ResponseFormat = o.responseFormat(params.JSON)
	}

	resp, err := o.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", classify(o.provider, fmt.Errorf("%s inference error: %w", o.provider, err))
	}
	if len(resp.Choices) == 0 {
		return "", classify(o.provider, fmt.Errorf("no choices returned: %w", ErrEmptyCompletion))
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", classify(o.provider, ErrEmptyCompletion)
	}
	return content, nil
}

// responseFormat uses json_schema on OpenAI and plain json_object elsewhere.
func (o *OpenAIInferencer) responseFormat(s *JSONSchema) openai.ChatCompletionNewParamsResponseFormatUnion {
	if o.provider != OpenAI {
		return openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   s.Name,
		Schema: s.Schema,
		Strict: openai.Bool(false),
	}
	if s.Description != "" {
		p.Description = openai.String(s.Description)
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}
