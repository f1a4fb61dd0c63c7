// Package diff compares plans and text at word level.
package diff

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aryann/difflib"

	"narrator/pkg/schema"
	"narrator/pkg/utils"
)

type ChangeType int

const (
	Unchanged ChangeType = iota
	Added
	Removed
	Modified
)

type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

type WordDelta struct {
	Op   Op
	Text string
}

type StringDiff struct {
	Old    string
	New    string
	Deltas []WordDelta
}

type ListDiff struct {
	Added   []string
	Removed []string
	Edited  []StringDiff
}

func (d ListDiff) Changed() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Edited) > 0
}

// PlanDiff is what a user changed between the analyzed plan and the one
// approved for generation.
type PlanDiff struct {
	Outline    ListDiff
	Characters ListDiff
	Reordered  bool
	Pacing     *StringDiff
}

func (d PlanDiff) Changed() bool {
	return d.Outline.Changed() || d.Characters.Changed() || d.Reordered || d.Pacing != nil
}

func Plans(oldP, newP schema.Plan) PlanDiff {
	d := PlanDiff{
		Outline:    Lists(oldP.Outline, newP.Outline),
		Characters: Lists(oldP.Characters, newP.Characters),
	}
	if !d.Outline.Changed() && !equalStrings(oldP.Outline, newP.Outline) {
		d.Reordered = true
	}
	if oldP.PacingNote != newP.PacingNote {
		sd := Strings(oldP.PacingNote, newP.PacingNote)
		d.Pacing = &sd
	}
	return d
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Lists pairs each old item with its most similar new item. Pairs at least
// 70% similar count as edits, the rest as removals and additions.
func Lists(a, b []string) ListDiff {
	var d ListDiff
	usedB := make([]bool, len(b))
	for _, as := range a {
		bestJ, best := -1, 0.0
		for j, bs := range b {
			if usedB[j] {
				continue
			}
			s := utils.Similarity(as, bs)
			if s > best {
				bestJ, best = j, s
			}
		}
		if bestJ >= 0 && best >= 0.70 {
			if as != b[bestJ] {
				d.Edited = append(d.Edited, Strings(as, b[bestJ]))
			}
			usedB[bestJ] = true
		} else {
			d.Removed = append(d.Removed, as)
		}
	}
	for j, bs := range b {
		if !usedB[j] {
			d.Added = append(d.Added, bs)
		}
	}
	return d
}

// Words diffs the word, space and punctuation tokens of a and b.
func Words(a, b string) []WordDelta {
	recs := difflib.Diff(utils.TokenizeWords(a), utils.TokenizeWords(b))
	deltas := make([]WordDelta, 0, len(recs))
	for _, r := range recs {
		switch r.Delta {
		case difflib.Common:
			deltas = append(deltas, WordDelta{Op: Equal, Text: r.Payload})
		case difflib.LeftOnly:
			deltas = append(deltas, WordDelta{Op: Delete, Text: r.Payload})
		case difflib.RightOnly:
			deltas = append(deltas, WordDelta{Op: Insert, Text: r.Payload})
		}
	}
	return deltas
}

func Strings(a, b string) StringDiff {
	if a == b {
		return StringDiff{Old: a, New: b, Deltas: []WordDelta{{Op: Equal, Text: a}}}
	}
	return StringDiff{Old: a, New: b, Deltas: coalesceSpaces(Words(a, b))}
}

func isWord(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Overlap returns the share of a's words that b keeps in order, from 0 to 1.
// Case is ignored.
func Overlap(a, b string) float64 {
	total, common := 0, 0
	for _, d := range Words(strings.ToLower(a), strings.ToLower(b)) {
		if !isWord(d.Text) || d.Op == Insert {
			continue
		}
		total++
		if d.Op == Equal {
			common++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(common) / float64(total)
}

func coalesceSpaces(in []WordDelta) []WordDelta {
	out := make([]WordDelta, 0, len(in))
	flush := func(op Op, buf *strings.Builder) {
		if buf.Len() == 0 {
			return
		}
		out = append(out, WordDelta{Op: op, Text: buf.String()})
		buf.Reset()
	}
	var curOp Op = -1
	var buf strings.Builder
	for _, d := range in {
		if strings.TrimSpace(d.Text) == "" && d.Op == Equal {
			buf.WriteString(d.Text)
			continue
		}
		if curOp != d.Op && curOp != -1 {
			flush(curOp, &buf)
		}
		curOp = d.Op
		buf.WriteString(d.Text)
	}
	flush(curOp, &buf)
	return out
}

const (
	ansiReset = "\x1b[0m"
	fgGreen   = "\x1b[32m"
	fgRed     = "\x1b[31m"
	fgYellow  = "\x1b[33m"
	fgCyan    = "\x1b[36m"
	uline     = "\x1b[4m"
	strike    = "\x1b[9m"
)

func renderStringDiff(sd StringDiff) string {
	var b strings.Builder
	for _, d := range sd.Deltas {
		switch d.Op {
		case Equal:
			b.WriteString(d.Text)
		case Insert:
			fmt.Fprintf(&b, "%s%s%s%s", fgGreen, uline, d.Text, ansiReset)
		case Delete:
			fmt.Fprintf(&b, "%s%s%s%s", fgRed, strike, d.Text, ansiReset)
		}
	}
	return b.String()
}

func printList(w io.Writer, title string, d ListDiff) {
	if !d.Changed() {
		return
	}
	fmt.Fprintln(w, fgCyan+title+ansiReset)
	for _, s := range d.Removed {
		fmt.Fprintf(w, "  %s[-]%s %s%s%s\n", fgRed, ansiReset, strike, s, ansiReset)
	}
	for _, s := range d.Added {
		fmt.Fprintf(w, "  %s[+]%s %s%s%s\n", fgGreen, ansiReset, uline, s, ansiReset)
	}
	for _, sd := range d.Edited {
		fmt.Fprintf(w, "  %s[~]%s %s\n", fgYellow, ansiReset, renderStringDiff(sd))
	}
}

// Print writes a colored, human-readable diff for terminal logs.
func (d PlanDiff) Print(w io.Writer) {
	printList(w, "Outline", d.Outline)
	if d.Reordered {
		fmt.Fprintln(w, fgCyan+"Outline"+ansiReset+" reordered")
	}
	printList(w, "Characters", d.Characters)
	if d.Pacing != nil {
		fmt.Fprintf(w, "%sPacing%s %s\n", fgCyan, ansiReset, renderStringDiff(*d.Pacing))
	}
}
