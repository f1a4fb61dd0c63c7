package inference

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"narrator/pkg/metrics"
)

type throttled struct {
	Inferencer
	provider Provider
	limiter  *rate.Limiter
}

// Throttle makes inf wait on limiter before every call and records the call
// outcome. A nil limiter only records.
func Throttle(p Provider, inf Inferencer, limiter *rate.Limiter) Inferencer {
	return &throttled{Inferencer: inf, provider: p, limiter: limiter}
}

func (t *throttled) Infer(ctx context.Context, params *Params, system, user string) (string, error) {
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	out, err := t.Inferencer.Infer(ctx, params, system, user)
	status := "ok"
	if err != nil {
		status = string(KindOf(err))
	}
	metrics.ProviderCallTotal.WithLabelValues(string(t.provider), status).Inc()
	return out, err
}

// Limiters hands out one shared limiter per provider.
type Limiters map[Provider]*rate.Limiter

// NewLimiters allows rpm calls per minute per provider with a burst of one.
// Zero or negative rpm disables throttling.
func NewLimiters(rpm int) Limiters {
	l := make(Limiters)
	if rpm <= 0 {
		return l
	}
	for _, p := range Providers() {
		l[p] = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
	}
	return l
}

// Factory wraps New so every inferencer it builds shares the provider limiter.
func (l Limiters) Factory(next Factory) Factory {
	if next == nil {
		next = New
	}
	return func(p Provider, apiKey, model string) (Inferencer, error) {
		inf, err := next(p, apiKey, model)
		if err != nil {
			return nil, err
		}
		return Throttle(p, inf, l[p]), nil
	}
}
