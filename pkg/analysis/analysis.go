// Package analysis produces the plan a user reviews before generating a script.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"narrator/pkg/catalog"
	"narrator/pkg/inference"
	"narrator/pkg/metrics"
	"narrator/pkg/prompt"
	"narrator/pkg/schema"
	"narrator/pkg/utils"
)

var errEmptyOutline = errors.New("plan has no outline")

type Analyzer struct {
	newInferencer inference.Factory
	catalog       *catalog.Catalog
}

func New(factory inference.Factory, cat *catalog.Catalog) *Analyzer {
	if factory == nil {
		factory = inference.New
	}
	if cat == nil {
		cat = catalog.Default()
	}
	return &Analyzer{newInferencer: factory, catalog: cat}
}

// Analyze returns a plan for req. Canonical personas are answered from the
// catalog without a model call. Provider errors are returned; unusable model
// output yields DefaultPlan.
func (a *Analyzer) Analyze(ctx context.Context, req *schema.Request) (schema.Plan, error) {
	dual := req.Template.DualPersona
	if dual && req.Persona.Mode != schema.PersonaCustom {
		if p, ok := a.catalog.Persona(req.PersonaName()); ok {
			log.Debug("persona plan from catalog", "persona", p.ID)
			metrics.AnalysisTotal.WithLabelValues(string(req.Provider), "fixed").Inc()
			return FromPersona(p), nil
		}
	}

	inf, err := a.newInferencer(req.Provider, req.APIKey(), req.Model)
	if err != nil {
		metrics.AnalysisTotal.WithLabelValues(string(req.Provider), "error").Inc()
		return schema.Plan{}, err
	}

	withPersona := dual && req.PersonaName() != ""
	params := &inference.Params{
		MaxTokens:   2048,
		Temperature: 0.4,
		JSON: &inference.JSONSchema{
			Name:        "script_plan",
			Description: "Outline, cast and pacing for a narration script",
			Schema:      schema.PlanSchema,
		},
	}
	out, err := inf.Infer(ctx, params, prompt.AnalysisSystem(req, withPersona), prompt.AnalysisUser(req))
	if err != nil {
		log.Error("analysis failed", "provider", req.Provider, "error", err)
		metrics.AnalysisTotal.WithLabelValues(string(req.Provider), "error").Inc()
		return schema.Plan{}, fmt.Errorf("analysis error: %w", err)
	}

	plan, err := ParsePlan(out)
	if err != nil {
		log.Warn("unusable analysis output, using default plan", "provider", req.Provider, "error", err, "output", utils.LimitStr(out, 200))
		metrics.AnalysisTotal.WithLabelValues(string(req.Provider), "default").Inc()
		return DefaultPlan(), nil
	}
	if !withPersona {
		plan.CharacterProfile = nil
	}
	metrics.AnalysisTotal.WithLabelValues(string(req.Provider), "ok").Inc()
	return plan, nil
}

// ParsePlan reads model output, tolerating code fences and surrounding prose.
func ParsePlan(out string) (schema.Plan, error) {
	var plan schema.Plan
	if err := json.Unmarshal([]byte(utils.CleanJSON(out)), &plan); err != nil {
		return schema.Plan{}, fmt.Errorf("error unmarshalling plan: %w", err)
	}
	plan.Outline = compact(plan.Outline)
	plan.Characters = compact(plan.Characters)
	plan.PacingNote = strings.TrimSpace(plan.PacingNote)
	plan.UsedDefaultPlan = false
	if len(plan.Outline) == 0 {
		return schema.Plan{}, errEmptyOutline
	}
	if p := plan.CharacterProfile; p != nil && strings.TrimSpace(p.Name) == "" {
		plan.CharacterProfile = nil
	}
	return plan, nil
}

// DefaultPlan is the generic seven-stage skeleton used when analysis output
// cannot be parsed.
func DefaultPlan() schema.Plan {
	return schema.Plan{
		Outline: []string{
			"Khởi đầu",
			"Uẩn khúc",
			"Xung đột",
			"Leo thang",
			"Cao trào",
			"Giải quyết",
			"Kết thúc",
		},
		Characters: []string{
			"Nhân vật chính",
			"Nhân vật phụ",
		},
		PacingNote:      "Nhịp độ tăng dần, cao trào ở phần năm, kết thúc trọn vẹn.",
		UsedDefaultPlan: true,
	}
}

// FromPersona builds the canned plan of a canonical persona.
func FromPersona(p catalog.Persona) schema.Plan {
	return schema.Plan{
		Outline:    append([]string(nil), p.Outline...),
		Characters: append([]string(nil), p.Characters...),
		PacingNote: p.PacingNote,
		CharacterProfile: &schema.CharacterProfile{
			Name:           p.Name,
			Archetype:      p.Archetype,
			Style:          p.Style,
			CorePhilosophy: p.CorePhilosophy,
			Keywords:       append([]string(nil), p.Keywords...),
		},
	}
}

func compact(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
