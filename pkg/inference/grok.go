package inference

import (
	"github.com/openai/openai-go/v3/option"
)

const grokBaseURL = "https://api.x.ai/v1"

// GrokInferencer talks to xAI through its OpenAI-compatible endpoint.
type GrokInferencer struct {
	*OpenAIInferencer
}

// NewGrokInferencer creates a new inferencer instance using OpenAI client.
func NewGrokInferencer(apiKey string, model string) *GrokInferencer {
	return &GrokInferencer{
		OpenAIInferencer: newChatInferencer(XAI, apiKey, model, option.WithBaseURL(grokBaseURL)),
	}
}
