package prompt

import (
	"fmt"
	"strings"

	"narrator/pkg/schema"
)

const analysisPrompt = `You are a story architect preparing a narration script. Your task is to read the idea and return a single JSON object that plans the script. Do not add any commentary or markdown formatting to your response.

The JSON object must have these keys:
  * 'outline': An array of exactly 7 strings, the ordered stages of the story (opening, complication, conflict, escalation, climax, resolution, ending). One short sentence each.
  * 'characters': An array of strings, the fixed cast formatted "Name - role". Two to five entries.
  * 'pacingNote': One sentence on rhythm and tension across the script.

**Rules:**
- Write every value in %[1]s.
- Names chosen here are final; pick names that fit the setting.
- Output only the JSON object.`

const personaAnalysisPrompt = `You are a story architect preparing a first-person persona monologue. Your task is to read the idea and the persona name, then return a single JSON object that plans the script. Do not add any commentary or markdown formatting to your response.

The JSON object must have these keys:
  * 'outline': An array of exactly 7 strings, the ordered stages of the monologue. One short sentence each.
  * 'characters': An array of strings formatted "Name - role". The persona comes first.
  * 'pacingNote': One sentence on rhythm and tension across the monologue.
  * 'characterProfile': An object describing the persona with:
    * 'name': The persona's name.
    * 'archetype': A short archetype label (e.g., "The stoic mentor").
    * 'style': How the persona speaks: rhythm, vocabulary, tone.
    * 'corePhilosophy': One sentence the persona lives by.
    * 'keywords': An array of 4-6 words or images the persona returns to.

**Rules:**
- Write every value in %[1]s.
- The persona must stay recognizable: build on what is publicly known about the name if it belongs to a real or fictional figure.
- Output only the JSON object.`

// AnalysisSystem is the system prompt for the planning call.
func AnalysisSystem(req *schema.Request, withPersona bool) string {
	tpl := analysisPrompt
	if withPersona {
		tpl = personaAnalysisPrompt
	}
	return fmt.Sprintf(tpl, req.LanguageName())
}

// AnalysisUser is the user prompt for the planning call.
func AnalysisUser(req *schema.Request) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Template: %s\n", req.Template.Title)
	if req.Template.Style != "" {
		fmt.Fprintf(&b, "Style: %s\n", req.Template.Style)
	}
	if name := req.PersonaName(); name != "" && req.Template.DualPersona {
		fmt.Fprintf(&b, "Persona: %s\n", name)
	}
	fmt.Fprintf(&b, "Idea:\n\"\"\"\n%s\n\"\"\"", strings.TrimSpace(req.Input))
	return b.String()
}
