// Package generator writes narration scripts, chaining several model calls
// when the target is too long for one response.
package generator

import (
	"cmp"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/segmentio/ksuid"

	"narrator/pkg/catalog"
	"narrator/pkg/cleaner"
	"narrator/pkg/diff"
	"narrator/pkg/inference"
	"narrator/pkg/length"
	"narrator/pkg/metrics"
	"narrator/pkg/prompt"
	"narrator/pkg/schema"
	"narrator/pkg/utils"
)

const (
	DefaultChainThreshold = 5
	DefaultChunkMinutes   = 3
	DefaultContextRunes   = 1500
	DefaultPassDelay      = 2 * time.Second

	repeatOverlap = 0.8
	temperature   = 0.8
)

type Options struct {
	NewInferencer inference.Factory
	Catalog       *catalog.Catalog
	// ChainThreshold is the longest duration, in minutes, written in one pass.
	ChainThreshold int
	ChunkMinutes   int
	ContextRunes   int
	// PassDelay is waited between passes. Negative disables it.
	PassDelay  time.Duration
	Tolerance  length.Tolerance
	TokenStats bool
}

type Generator struct {
	opts  Options
	sleep func(ctx context.Context, d time.Duration) error
}

func New(opts Options) *Generator {
	if opts.NewInferencer == nil {
		opts.NewInferencer = inference.New
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Tolerance == (length.Tolerance{}) {
		opts.Tolerance = length.DefaultTolerance
	}
	opts.ChainThreshold = cmp.Or(opts.ChainThreshold, DefaultChainThreshold)
	opts.ChunkMinutes = cmp.Or(opts.ChunkMinutes, DefaultChunkMinutes)
	opts.ContextRunes = cmp.Or(opts.ContextRunes, DefaultContextRunes)
	opts.PassDelay = cmp.Or(opts.PassDelay, DefaultPassDelay)
	return &Generator{opts: opts, sleep: sleepCtx}
}

// Part is one finished pass, reported through the progress callback.
type Part struct {
	ID      string `json:"id"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Pacing  string `json:"pacing"`
	Context string `json:"-"`
	Raw     string `json:"-"`
	Text    string `json:"text"`
	Target  int    `json:"target"`
}

// Chained reports whether t needs more than one pass.
func (g *Generator) Chained(t length.Target) bool {
	return t.Minutes > g.opts.ChainThreshold
}

// Chunks splits the target into per-pass character budgets that add up to
// exactly t.TargetChars. Single-pass targets yield one chunk.
func (g *Generator) Chunks(t length.Target) []int {
	n := 1
	if g.Chained(t) {
		n = (t.Minutes + g.opts.ChunkMinutes - 1) / g.opts.ChunkMinutes
	}
	base, rem := t.TargetChars/n, t.TargetChars%n
	out := make([]int, n)
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}

// Generate writes the full script for req. onPart, if set, is called after
// every pass. Any failure aborts the whole generation and no partial script
// is returned; the error is a *Error.
func (g *Generator) Generate(ctx context.Context, req *schema.Request, onPart func(Part)) (string, error) {
	id := ksuid.New().String()
	logger := log.With("generation", id, "provider", req.Provider)

	inf, err := g.opts.NewInferencer(req.Provider, req.APIKey(), req.Model)
	if err != nil {
		logger.Warn("generation rejected", "error", err)
		metrics.GenerationTotal.WithLabelValues(string(req.Provider), "none", string(inference.KindOf(err))).Inc()
		return "", wrap(req.Provider, err)
	}

	target := req.Length(g.opts.Tolerance)
	chunks := g.Chunks(target)
	mode := "single"
	if len(chunks) > 1 {
		mode = "chained"
	}
	logger.Info("generating script", "mode", mode, "minutes", target.Minutes, "target", target.TargetChars, "parts", len(chunks))

	metrics.ActiveGenerations.Inc()
	defer metrics.ActiveGenerations.Dec()
	start := time.Now()

	system := prompt.System(req, g.opts.Catalog)
	var script string
	if mode == "single" {
		script, err = g.single(ctx, logger, inf, req, system, target, id, onPart)
	} else {
		script, err = g.chain(ctx, logger, inf, req, system, chunks, id, onPart)
	}
	if err != nil {
		gerr := wrap(req.Provider, err)
		status := string(gerr.Kind)
		if gerr.Canceled {
			status = "canceled"
		}
		logger.Error("generation failed", "error", err, "elapsed", time.Since(start))
		metrics.GenerationTotal.WithLabelValues(string(req.Provider), mode, status).Inc()
		return "", gerr
	}

	chars := len([]rune(script))
	logger.Info("script ready", "chars", chars, "target", target.TargetChars, "min", target.MinChars, "max", target.MaxChars, "elapsed", time.Since(start))
	if chars < target.MinChars || chars > target.MaxChars {
		logger.Warn("script length outside tolerance", "chars", chars, "min", target.MinChars, "max", target.MaxChars)
	}
	metrics.GenerationTotal.WithLabelValues(string(req.Provider), mode, "ok").Inc()
	metrics.GenerationDuration.WithLabelValues(string(req.Provider), mode).Observe(time.Since(start).Seconds())
	metrics.ScriptChars.WithLabelValues(string(req.Provider)).Observe(float64(chars))
	return script, nil
}

func (g *Generator) single(ctx context.Context, logger *log.Logger, inf inference.Inferencer, req *schema.Request, system string, target length.Target, id string, onPart func(Part)) (string, error) {
	raw, err := g.call(ctx, inf, req.Provider, target.TargetChars, system, prompt.SinglePass(req.Input, target))
	if err != nil {
		return "", err
	}
	text := cleaner.Clean(raw)
	if text == "" {
		return "", inference.ErrEmptyCompletion
	}
	part := Part{ID: id, Index: 1, Total: 1, Raw: raw, Text: text, Target: target.TargetChars}
	g.stats(logger, part)
	if onPart != nil {
		onPart(part)
	}
	return text, nil
}

func (g *Generator) chain(ctx context.Context, logger *log.Logger, inf inference.Inferencer, req *schema.Request, system string, chunks []int, id string, onPart func(Part)) (string, error) {
	n := len(chunks)
	var script string
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		part := Part{
			ID:      id,
			Index:   i,
			Total:   n,
			Pacing:  prompt.Pacing(req.Plan, i, n),
			Context: utils.TailRunes(script, g.opts.ContextRunes),
			Target:  chunks[i-1],
		}
		user := prompt.Pass(prompt.Part{
			Index:       i,
			Total:       n,
			TargetChars: part.Target,
			Pacing:      part.Pacing,
			Context:     part.Context,
			Input:       req.Input,
		})

		raw, err := g.call(ctx, inf, req.Provider, part.Target, system, user)
		if err != nil {
			return "", fmt.Errorf("part %d/%d: %w", i, n, err)
		}
		part.Raw = raw
		part.Text = cleaner.Clean(raw)
		if part.Text == "" {
			return "", fmt.Errorf("part %d/%d: %w", i, n, inference.ErrEmptyCompletion)
		}

		if script != "" {
			g.checkContinuity(logger, req.Provider, script, part.Text, i)
			script += " " + part.Text
		} else {
			script = part.Text
		}
		g.stats(logger, part)
		if onPart != nil {
			onPart(part)
		}

		if i < n && g.opts.PassDelay > 0 {
			if err := g.sleep(ctx, g.opts.PassDelay); err != nil {
				return "", err
			}
		}
	}
	return script, nil
}

func (g *Generator) call(ctx context.Context, inf inference.Inferencer, p inference.Provider, chars int, system, user string) (string, error) {
	params := &inference.Params{
		MaxTokens:   int64(min(max(chars*2, 4096), 16384)),
		Temperature: temperature,
	}
	began := time.Now()
	out, err := inf.Infer(ctx, params, system, user)
	metrics.PassDuration.WithLabelValues(string(p)).Observe(time.Since(began).Seconds())
	return out, err
}

// checkContinuity flags a pass that reopens with the sentence the previous
// pass ended on. The text is left as the model wrote it.
func (g *Generator) checkContinuity(logger *log.Logger, p inference.Provider, script, next string, index int) {
	prev := utils.LastSentence(script)
	opening := utils.FirstSentence(next)
	if prev == "" || opening == "" {
		return
	}
	if overlap := diff.Overlap(prev, opening); overlap >= repeatOverlap {
		logger.Warn("part repeats previous ending", "part", index, "overlap", overlap, "sentence", utils.LimitStr(opening, 120))
		metrics.ContinuityRepeats.WithLabelValues(string(p)).Inc()
	}
}

func (g *Generator) stats(logger *log.Logger, part Part) {
	chars := len([]rune(part.Text))
	if !g.opts.TokenStats {
		logger.Debug("part done", "part", part.Index, "of", part.Total, "chars", chars, "target", part.Target, "raw", len([]rune(part.Raw)))
		return
	}
	tokens, err := utils.NumTokens(part.Text)
	if err != nil {
		logger.Debug("part done", "part", part.Index, "of", part.Total, "chars", chars, "target", part.Target)
		return
	}
	logger.Debug("part done", "part", part.Index, "of", part.Total, "chars", chars, "target", part.Target, "tokens", tokens, "ratio", float64(chars)/float64(max(tokens, 1)))
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
