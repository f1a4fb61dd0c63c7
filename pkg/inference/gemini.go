package inference

import (
	"cmp"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"

	"narrator/pkg/metrics"
)

// Backoff retries transient failures with a doubling delay.
type Backoff struct {
	Initial time.Duration
	Retries int
}

// DefaultBackoff waits 5s, 10s then 20s before giving up.
var DefaultBackoff = Backoff{Initial: 5 * time.Second, Retries: 3}

type GeminiInferencer struct {
	client  *genai.Client
	apiKey  string
	model   string
	backoff Backoff
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewGeminiInferencer(apiKey string, model string) (*GeminiInferencer, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, classify(Google, fmt.Errorf("failed to create gemini client: %w", err))
	}
	return &GeminiInferencer{
		client:  client,
		apiKey:  apiKey,
		model:   cmp.Or(model, Google.DefaultModel()),
		backoff: DefaultBackoff,
		sleep:   sleepCtx,
	}, nil
}

func (g *GeminiInferencer) ChangeBaseURL(baseURL string) error {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:      g.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return err
	}
	g.client = client
	return nil
}

func (g *GeminiInferencer) SetBackoff(b Backoff) {
	g.backoff = b
}

// Infer calls GenerateContent, retrying quota and overload errors.
func (g *GeminiInferencer) Infer(ctx context.Context, params *Params, system, user string) (string, error) {
	params = params.orDefault()
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		MaxOutputTokens:   int32(cmp.Or(params.MaxTokens, 4096)),
		Temperature:       genai.Ptr(float32(cmp.Or(params.Temperature, 0.7))),
	}
	if params.JSON != nil {
		config.ResponseMIMEType = "application/json"
	}

	return withBackoff(ctx, Google, g.backoff, g.sleep, func(ctx context.Context) (string, error) {
		result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(user), config)
		if err != nil {
			return "", classify(Google, fmt.Errorf("failed to generate content: %w", err))
		}
		text := strings.TrimSpace(result.Text())
		if text == "" {
			return "", classify(Google, ErrEmptyCompletion)
		}
		return text, nil
	})
}

// withBackoff runs op until it succeeds, fails with a non-retryable error or
// runs out of retries. The last classified error is returned as is.
func withBackoff(ctx context.Context, p Provider, b Backoff, sleep func(context.Context, time.Duration) error, op func(context.Context) (string, error)) (string, error) {
	delay := b.Initial
	for attempt := 0; ; attempt++ {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		kind := KindOf(err)
		if attempt >= b.Retries || !kind.Retryable() || ctx.Err() != nil {
			return "", err
		}

		log.Warn("provider busy, retrying", "provider", p, "kind", kind, "attempt", attempt+1, "wait", delay)
		metrics.ProviderRetries.WithLabelValues(string(p), string(kind)).Inc()
		if err := sleep(ctx, delay); err != nil {
			return "", err
		}
		delay *= 2
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
