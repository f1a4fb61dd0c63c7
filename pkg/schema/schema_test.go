package schema

import (
	"encoding/json"
	"strings"
	"testing"

	"narrator/pkg/catalog"
	"narrator/pkg/inference"
	"narrator/pkg/length"
)

func TestPlanSchema(t *testing.T) {
	b, err := json.Marshal(PlanSchema)
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	s := string(b)
	for _, field := range []string{"outline", "characters", "pacingNote", "characterProfile", "corePhilosophy"} {
		if !strings.Contains(s, `"`+field+`"`) {
			t.Errorf("schema missing %s: %s", field, s)
		}
	}
	if strings.Contains(s, "usedDefaultPlan") {
		t.Error("the fallback flag must not be asked from the model")
	}
}

func TestPlanCloneIsDeep(t *testing.T) {
	p := Plan{
		Outline:          []string{"a", "b"},
		Characters:       []string{"c"},
		CharacterProfile: &CharacterProfile{Name: "Ông Tư", Keywords: []string{"sông"}},
	}
	cp := p.Clone()
	cp.Outline[0] = "x"
	cp.Characters[0] = "y"
	cp.CharacterProfile.Name = "z"
	cp.CharacterProfile.Keywords[0] = "w"

	if p.Outline[0] != "a" || p.Characters[0] != "c" || p.CharacterProfile.Name != "Ông Tư" || p.CharacterProfile.Keywords[0] != "sông" {
		t.Errorf("clone shares memory with original: %+v", p)
	}

	var nilPlan *Plan
	if !nilPlan.Empty() || !(&Plan{}).Empty() || p.Empty() {
		t.Error("Empty misreports")
	}
}

func TestRequestHelpers(t *testing.T) {
	r := &Request{
		Provider:      inference.XAI,
		Language:      catalog.Language{ID: "jp", Label: "日本語"},
		DurationID:    length.Custom,
		CustomMinutes: 4,
		Keys:          inference.Keys{XAI: " xai-key "},
	}
	if r.APIKey() != "xai-key" {
		t.Errorf("APIKey = %q", r.APIKey())
	}
	if got := r.Length(length.DefaultTolerance); got.Minutes != 4 || got.TargetChars != 1200 || !got.IsCJK {
		t.Errorf("Length = %+v", got)
	}
	if r.LanguageName() != "日本語" {
		t.Errorf("LanguageName = %q", r.LanguageName())
	}

	tests := []struct {
		sel  PersonaSelection
		want string
	}{
		{PersonaSelection{}, ""},
		{PersonaSelection{Mode: PersonaAuto, Name: "Ông Tư"}, ""},
		{PersonaSelection{Mode: PersonaFixed, Name: " Ông Tư "}, "Ông Tư"},
		{PersonaSelection{Mode: PersonaCustom, Name: "Bà Ba"}, "Bà Ba"},
	}
	for _, tt := range tests {
		r.Persona = tt.sel
		if got := r.PersonaName(); got != tt.want {
			t.Errorf("PersonaName(%+v) = %q, want %q", tt.sel, got, tt.want)
		}
	}
}
