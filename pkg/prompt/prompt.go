// Package prompt builds the instructions sent to the model. Everything here
// is pure string assembly.
package prompt

import (
	"fmt"
	"strings"

	"narrator/pkg/catalog"
	"narrator/pkg/schema"
	"narrator/pkg/utils"
)

const (
	maxLearnedExamples  = 3
	learnedExampleRunes = 600
)

const verbosityRule = `**Length:**
- EXPAND, never summarize. Every scene gets concrete sensory detail, inner thoughts and spoken lines.
- Slow down at important moments instead of skipping ahead.
- Reaching the requested length is part of the task; a short answer is a failed answer.`

const formattingRules = `**Formatting:**
- Continuous spoken prose meant to be read aloud by one narrator.
- Short paragraphs separated by a blank line.
- No headings, no lists, no numbering, no markdown, no emojis.
- No bracketed or parenthesized stage directions, sound cues or speaker labels.
- No labels such as "Hook:", "Intro:", "Part 1" or "Chương 1".
- Never greet the audience with channel boilerplate or ask them to subscribe.`

// System assembles the system instruction shared by every pass of a generation.
func System(req *schema.Request, cat *catalog.Catalog) string {
	var sections []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			sections = append(sections, s)
		}
	}

	add(languageFirewall(req))
	add(verbosityRule)
	add(perspective(req.Perspective))
	add(approvedPlan(req.Plan))
	add(persona(req, cat))
	add(personalContext(req.PersonalContext))
	add(learnedExamples(req.LearnedExamples))
	add(formattingRules)
	add(templateBlock(req.Template))

	return strings.Join(sections, "\n\n")
}

func languageFirewall(req *schema.Request) string {
	lang := req.LanguageName()
	code := req.Language.Code
	if code == "" {
		code = req.Language.ID
	}
	return fmt.Sprintf(`**Language:**
- Write EXCLUSIVELY in %[1]s (%[2]s). Every sentence of the output is in %[1]s.
- If the idea or any material below is written in another language, translate it into %[1]s; never copy foreign sentences.
- Names of people and places may stay as they are.`, lang, code)
}

func perspective(p schema.Perspective) string {
	switch p {
	case schema.PerspectiveFirst:
		return "**Perspective:** Narrate in the first person. The narrator is a character inside the story and says \"I\"."
	case schema.PerspectiveThird:
		return "**Perspective:** Narrate in the third person. The narrator stays outside the story and never says \"I\" about themselves."
	}
	return "**Perspective:** Choose the viewpoint that suits the idea best, then keep it fixed for the whole script."
}

func approvedPlan(plan *schema.Plan) string {
	if plan.Empty() {
		return ""
	}
	var b strings.Builder
	b.WriteString("**Approved plan (follow exactly):**\n")
	if len(plan.Characters) > 0 {
		b.WriteString("Characters (use these names only, never rename them):\n")
		for _, c := range plan.Characters {
			fmt.Fprintf(&b, "- %s\n", c)
		}
	}
	b.WriteString("Outline, in order:\n")
	for i, stage := range plan.Outline {
		fmt.Fprintf(&b, "%d. %s\n", i+1, stage)
	}
	if plan.PacingNote != "" {
		fmt.Fprintf(&b, "Pacing: %s\n", plan.PacingNote)
	}
	return b.String()
}

// persona only applies to dual-persona templates.
func persona(req *schema.Request, cat *catalog.Catalog) string {
	if !req.Template.DualPersona {
		return ""
	}

	var profile *schema.CharacterProfile
	if req.Plan != nil {
		profile = req.Plan.CharacterProfile
	}
	if profile == nil {
		name := req.PersonaName()
		if name == "" {
			return `**Persona:** Invent one fitting persona with a name, a life story and a distinctive way of speaking. The whole script is that persona talking in the first person.`
		}
		return fmt.Sprintf(`**Persona:** You are %[1]s. The whole script is %[1]s speaking in the first person, with the knowledge, memories and manner of speaking %[1]s would have. Never step out of character and never describe %[1]s from the outside.`, name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Persona simulation (deep):**\nYou ARE %s. Do not imitate them, think as them.\n", profile.Name)
	if profile.Archetype != "" {
		fmt.Fprintf(&b, "- Archetype: %s\n", profile.Archetype)
	}
	if profile.Style != "" {
		fmt.Fprintf(&b, "- Voice and style: %s\n", profile.Style)
	}
	if profile.CorePhilosophy != "" {
		fmt.Fprintf(&b, "- Core philosophy, expressed through stories rather than stated: %s\n", profile.CorePhilosophy)
	}
	if len(profile.Keywords) > 0 {
		fmt.Fprintf(&b, "- Words and images you return to: %s\n", strings.Join(profile.Keywords, ", "))
	}
	if cat != nil {
		if p, ok := cat.Persona(profile.Name); ok && p.Sample != "" {
			fmt.Fprintf(&b, "\nThis is how you sound. Match the rhythm and tone, never reuse the sentences:\n\"\"\"\n%s\n\"\"\"\n", p.Sample)
		}
	}
	return b.String()
}

func personalContext(ctx string) string {
	ctx = strings.TrimSpace(ctx)
	if ctx == "" {
		return ""
	}
	return fmt.Sprintf(`**Personal context (use implicitly):**
Let the following background shape tone, examples and word choice. Never quote it, mention it or address it directly.
"""
%s
"""`, ctx)
}

func learnedExamples(examples []string) string {
	var kept []string
	for _, e := range examples {
		if e = strings.TrimSpace(e); e != "" {
			kept = append(kept, utils.TruncateRunes(e, learnedExampleRunes))
		}
		if len(kept) == maxLearnedExamples {
			break
		}
	}
	if len(kept) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("**Style reference from earlier scripts the user liked:**\nMatch their voice. Never copy sentences, names or plots from them.\n")
	for i, e := range kept {
		fmt.Fprintf(&b, "Example %d:\n\"\"\"\n%s\n\"\"\"\n", i+1, e)
	}
	return b.String()
}

func templateBlock(t catalog.Template) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Template: %s**\n", t.Title)
	if t.Style != "" {
		fmt.Fprintf(&b, "Style: %s\n", t.Style)
	}
	if t.Instructions != "" {
		b.WriteString(t.Instructions)
	}
	return b.String()
}
