package prompt

import (
	"fmt"
	"strings"

	"narrator/pkg/length"
	"narrator/pkg/schema"
)

// Phase is the coarse position of a pass when no plan is available.
type Phase string

const (
	Introduction Phase = "introduction"
	Development  Phase = "development"
	Conclusion   Phase = "conclusion"
)

// PhaseOf buckets pass i of n: the first 20% introduce, the last 20% conclude.
func PhaseOf(i, n int) Phase {
	if n <= 1 {
		return Introduction
	}
	p := float64(i-1) / float64(n)
	switch {
	case i == 1 || p < 0.2:
		return Introduction
	case i == n || p >= 0.8:
		return Conclusion
	}
	return Development
}

// Stages returns the half-open outline range [start, end) covered by pass i
// of n for an outline of s stages. Every pass gets at least one stage.
func Stages(s, i, n int) (start, end int) {
	if s <= 0 || n <= 0 {
		return 0, 0
	}
	start = (i - 1) * s / n
	end = i * s / n
	if start >= s {
		start = s - 1
	}
	if end <= start {
		end = start + 1
	}
	return start, min(end, s)
}

// Pacing describes what pass i of n must cover.
func Pacing(plan *schema.Plan, i, n int) string {
	if !plan.Empty() {
		start, end := Stages(len(plan.Outline), i, n)
		var b strings.Builder
		b.WriteString("Cover exactly these outline stages in this part, nothing beyond them:\n")
		for k := start; k < end; k++ {
			fmt.Fprintf(&b, "%d. %s\n", k+1, plan.Outline[k])
		}
		return strings.TrimSpace(b.String())
	}

	switch PhaseOf(i, n) {
	case Introduction:
		return "This part is the INTRODUCTION: set the scene, introduce the main characters and plant the central question."
	case Conclusion:
		return "This part is the CONCLUSION: bring the conflict to its climax and resolve it."
	}
	return "This part is the DEVELOPMENT: complicate the situation, raise the stakes and deepen the characters."
}

// SinglePass is the user prompt for a script written in one call.
func SinglePass(input string, target length.Target) string {
	return fmt.Sprintf(`Write the complete script for this idea:
"""
%s
"""

Target length: about %d characters (at least %d, at most %d).
Do not summarize. Tell the full story from the opening hook to the final line.`,
		strings.TrimSpace(input), target.TargetChars, target.MinChars, target.MaxChars)
}

// Part is everything needed to write one pass of a chained script.
type Part struct {
	Index       int
	Total       int
	TargetChars int
	Pacing      string
	Context     string
	Input       string
}

// Pass is the user prompt for one pass of a chained script.
func Pass(p Part) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Idea:\n\"\"\"\n%s\n\"\"\"\n\n", strings.TrimSpace(p.Input))
	fmt.Fprintf(&b, "You are writing part %d of %d of one continuous script.\n", p.Index, p.Total)
	fmt.Fprintf(&b, "Length of this part: about %d characters. Do not summarize.\n\n", p.TargetChars)
	b.WriteString(p.Pacing)
	b.WriteString("\n\n")

	if p.Context != "" && p.Index > 1 {
		fmt.Fprintf(&b, "The script so far ends with:\n\"\"\"\n%s\n\"\"\"\n\n", p.Context)
	}

	switch {
	case p.Index == 1:
		b.WriteString(`**Rules for this part:**
- Open with a strong hook in the very first sentences.
- There is no earlier text; start the story fresh.
- Stop at a natural point; the story continues in the next part.`)
	case p.Index == p.Total:
		b.WriteString(`**Rules for this part:**
- Continue directly from the last sentence above. Do not repeat it and do not recap.
- Keep every established name, place and fact.
- This is the final part: resolve every open thread. No cliffhanger, no teaser for a sequel.`)
	default:
		b.WriteString(`**Rules for this part:**
- Continue directly from the last sentence above. Do not repeat it and do not recap.
- Keep every established name, place and fact.
- Do not restart the story, greet the listener again or conclude; the story continues in the next part.`)
	}
	return b.String()
}
