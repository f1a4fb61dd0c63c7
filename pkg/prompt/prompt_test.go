package prompt

import (
	"strings"
	"testing"

	"narrator/pkg/catalog"
	"narrator/pkg/length"
	"narrator/pkg/schema"
)

func request(t *testing.T, templateID string) *schema.Request {
	t.Helper()
	cat := catalog.Default()
	tpl, ok := cat.Template(templateID)
	if !ok {
		t.Fatalf("template %s missing", templateID)
	}
	lang, _ := cat.Language("vi")
	return &schema.Request{
		Input:       "Một ngôi làng ven sông và chiếc đò cuối cùng",
		Template:    tpl,
		Language:    lang,
		DurationID:  length.Short,
		Perspective: schema.PerspectiveThird,
	}
}

func order(t *testing.T, text string, markers ...string) {
	t.Helper()
	last := -1
	for _, m := range markers {
		idx := strings.Index(text, m)
		if idx < 0 {
			t.Fatalf("marker %q missing from prompt:\n%s", m, text)
		}
		if idx <= last {
			t.Fatalf("marker %q out of order", m)
		}
		last = idx
	}
}

func TestSystemOrder(t *testing.T) {
	req := request(t, "story")
	req.Plan = &schema.Plan{
		Outline:    []string{"Mở màn", "Cao trào", "Kết"},
		Characters: []string{"Lan - cô lái đò"},
	}
	req.PersonalContext = "Tôi lớn lên ở miền Tây."
	req.LearnedExamples = []string{"Ngày ấy, con sông còn hiền."}

	got := System(req, catalog.Default())
	order(t, got,
		"**Language:**",
		"**Length:**",
		"**Perspective:**",
		"**Approved plan",
		"**Personal context",
		"**Style reference",
		"**Formatting:**",
		"**Template: Kể chuyện**",
	)
	if !strings.Contains(got, "Vietnamese") {
		t.Error("language firewall should name the target language")
	}
	if !strings.Contains(got, "- Lan - cô lái đò") || !strings.Contains(got, "2. Cao trào") {
		t.Error("plan characters and outline must be injected verbatim")
	}
	if strings.Contains(got, "Persona") {
		t.Error("persona block only applies to dual-persona templates")
	}
	if !strings.HasSuffix(got, req.Template.Instructions) {
		t.Error("template instructions must come last")
	}
}

func TestSystemOmitsEmptySections(t *testing.T) {
	got := System(request(t, "story"), nil)
	for _, absent := range []string{"**Approved plan", "**Personal context", "**Style reference"} {
		if strings.Contains(got, absent) {
			t.Errorf("unexpected section %q", absent)
		}
	}
}

func TestPersonaBlock(t *testing.T) {
	cat := catalog.Default()
	canonical, _ := cat.Persona("ong-tu")

	t.Run("canonical profile carries sample", func(t *testing.T) {
		req := request(t, catalog.PersonaTemplateID)
		req.Plan = &schema.Plan{
			Outline: canonical.Outline,
			CharacterProfile: &schema.CharacterProfile{
				Name:      canonical.Name,
				Archetype: canonical.Archetype,
				Keywords:  canonical.Keywords,
			},
		}
		got := System(req, cat)
		order(t, got, "**Approved plan", "**Persona simulation", canonical.Sample, "**Formatting:**")
		if !strings.Contains(got, "mùa nước nổi") {
			t.Error("keywords missing")
		}
	})

	t.Run("custom profile has no sample", func(t *testing.T) {
		req := request(t, catalog.PersonaTemplateID)
		req.Plan = &schema.Plan{
			Outline:          []string{"a"},
			CharacterProfile: &schema.CharacterProfile{Name: "Captain Blue", Style: "gruff"},
		}
		got := System(req, cat)
		if !strings.Contains(got, "You ARE Captain Blue") || strings.Contains(got, canonical.Sample) {
			t.Errorf("unexpected persona block:\n%s", got)
		}
	})

	t.Run("named fallback without profile", func(t *testing.T) {
		req := request(t, catalog.PersonaTemplateID)
		req.Persona = schema.PersonaSelection{Mode: schema.PersonaCustom, Name: "Captain Blue"}
		got := System(req, cat)
		if !strings.Contains(got, "You are Captain Blue.") {
			t.Errorf("named persona instruction missing:\n%s", got)
		}
	})
}

func TestLearnedExamplesTruncated(t *testing.T) {
	long := strings.Repeat("á", learnedExampleRunes+100)
	got := learnedExamples([]string{long, "", "b", "c", "d"})
	if strings.Contains(got, long) {
		t.Error("long example should be truncated")
	}
	if strings.Contains(got, "Example 4") {
		t.Error("at most three examples are kept")
	}
}

func TestPhaseOf(t *testing.T) {
	tests := []struct {
		i, n int
		want Phase
	}{
		{1, 4, Introduction},
		{2, 4, Development},
		{3, 4, Development},
		{4, 4, Conclusion},
		{1, 10, Introduction},
		{2, 10, Introduction},
		{3, 10, Development},
		{8, 10, Development},
		{9, 10, Conclusion},
		{10, 10, Conclusion},
		{1, 2, Introduction},
		{2, 2, Conclusion},
	}
	for _, tt := range tests {
		if got := PhaseOf(tt.i, tt.n); got != tt.want {
			t.Errorf("PhaseOf(%d, %d) = %s, want %s", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestStages(t *testing.T) {
	tests := []struct {
		s, i, n    int
		start, end int
	}{
		{7, 1, 3, 0, 2},
		{7, 2, 3, 2, 4},
		{7, 3, 3, 4, 7},
		{7, 1, 7, 0, 1},
		{2, 1, 4, 0, 1},
		{2, 4, 4, 1, 2},
	}
	for _, tt := range tests {
		start, end := Stages(tt.s, tt.i, tt.n)
		if start != tt.start || end != tt.end {
			t.Errorf("Stages(%d, %d, %d) = [%d, %d), want [%d, %d)", tt.s, tt.i, tt.n, start, end, tt.start, tt.end)
		}
	}
}

func TestPacing(t *testing.T) {
	plan := &schema.Plan{Outline: []string{"A", "B", "C", "D", "E", "F", "G"}}
	got := Pacing(plan, 2, 3)
	if !strings.Contains(got, "3. C") || !strings.Contains(got, "4. D") || strings.Contains(got, "5. E") {
		t.Errorf("unexpected plan pacing:\n%s", got)
	}
	if got := Pacing(nil, 1, 4); !strings.Contains(got, "INTRODUCTION") {
		t.Errorf("heuristic pacing = %q", got)
	}
}

func TestPass(t *testing.T) {
	first := Pass(Part{Index: 1, Total: 3, TargetChars: 1000, Pacing: "P", Context: "ignored", Input: "idea"})
	if !strings.Contains(first, "hook") || strings.Contains(first, "ignored") {
		t.Errorf("first pass prompt:\n%s", first)
	}
	middle := Pass(Part{Index: 2, Total: 3, TargetChars: 1000, Pacing: "P", Context: "tail text", Input: "idea"})
	if !strings.Contains(middle, "tail text") || !strings.Contains(middle, "do not recap") {
		t.Errorf("middle pass prompt:\n%s", middle)
	}
	last := Pass(Part{Index: 3, Total: 3, TargetChars: 1000, Pacing: "P", Context: "tail", Input: "idea"})
	if !strings.Contains(last, "No cliffhanger") {
		t.Errorf("last pass prompt:\n%s", last)
	}
	if !strings.Contains(SinglePass("idea", length.Calculate("vi", length.Short, 0, length.DefaultTolerance)), "3000") {
		t.Error("single pass prompt should state the target")
	}
}

func TestAnalysisPrompts(t *testing.T) {
	req := request(t, catalog.PersonaTemplateID)
	req.Persona = schema.PersonaSelection{Mode: schema.PersonaCustom, Name: "Captain Blue"}
	if !strings.Contains(AnalysisSystem(req, true), "characterProfile") {
		t.Error("persona analysis must ask for a profile")
	}
	if strings.Contains(AnalysisSystem(req, false), "characterProfile") {
		t.Error("plain analysis must not ask for a profile")
	}
	if !strings.Contains(AnalysisUser(req), "Persona: Captain Blue") {
		t.Error("persona name missing from analysis input")
	}
}
