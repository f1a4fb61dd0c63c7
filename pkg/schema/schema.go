package schema

import (
	"github.com/invopop/jsonschema"
)

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

// PlanSchema is the JSON schema models are asked to fill during analysis.
var PlanSchema = generateSchema[plan]()

// CharacterProfile describes the voice of a persona-driven script.
type CharacterProfile struct {
	Name           string   `json:"name" jsonschema_description:"Name of the persona who speaks the script"`
	Archetype      string   `json:"archetype" jsonschema_description:"Short archetype label, e.g. 'The stoic mentor'"`
	Style          string   `json:"style" jsonschema_description:"How the persona speaks: rhythm, vocabulary, tone"`
	CorePhilosophy string   `json:"corePhilosophy" jsonschema_description:"One sentence the persona lives by"`
	Keywords       []string `json:"keywords" jsonschema_description:"Words and images the persona returns to"`
}

// plan is the model-facing shape of Plan.
type plan struct {
	Outline          []string          `json:"outline" jsonschema_description:"Ordered story stages, one short sentence each"`
	Characters       []string          `json:"characters" jsonschema_description:"Fixed cast, formatted 'Name - role'"`
	PacingNote       string            `json:"pacingNote" jsonschema_description:"One sentence on rhythm and tension across the script"`
	CharacterProfile *CharacterProfile `json:"characterProfile,omitempty" jsonschema_description:"Only for persona monologues: the speaking persona"`
}

// Plan is the approved structure a script is generated from.
type Plan struct {
	Outline          []string          `json:"outline"`
	Characters       []string          `json:"characters"`
	PacingNote       string            `json:"pacingNote"`
	CharacterProfile *CharacterProfile `json:"characterProfile,omitempty"`

	// UsedDefaultPlan is set when the model output could not be used and the
	// generic seven-stage plan was substituted.
	UsedDefaultPlan bool `json:"usedDefaultPlan,omitempty"`
}

// Empty reports whether the plan carries no outline.
func (p *Plan) Empty() bool {
	return p == nil || len(p.Outline) == 0
}

// Clone returns a deep copy so callers can hand plans around without sharing slices.
func (p Plan) Clone() Plan {
	out := p
	out.Outline = append([]string(nil), p.Outline...)
	out.Characters = append([]string(nil), p.Characters...)
	if p.CharacterProfile != nil {
		cp := *p.CharacterProfile
		cp.Keywords = append([]string(nil), cp.Keywords...)
		out.CharacterProfile = &cp
	}
	return out
}
