// Package cleaner strips formatting artifacts that models emit despite being
// told to write continuous spoken prose.
package cleaner

import (
	"regexp"
	"strings"
)

type rule struct {
	rx   *regexp.Regexp
	repl string
}

// Every rule removes text or shrinks a run of whitespace, never grows it.
var rules = []rule{
	{regexp.MustCompile(`\r+\n`), "\n"},
	// markdown headers
	{regexp.MustCompile(`(?m)^[ \t]*#{1,6}[^\n]*$`), ""},
	// **Part 2**, **Chương 3: ...**
	{regexp.MustCompile(`(?i)\*\*[ \t]*(?:part|chapter|section|phần|chương|đoạn)[ \t]*\d+[^*\n]*\*\*`), ""},
	// lines holding only "Part N:" / "Chương N"
	{regexp.MustCompile(`(?im)^[ \t]*(?:part|chapter|phần|chương)[ \t]+\d+[ \t]*[:.]?[ \t]*$`), ""},
	// leading structural labels
	{regexp.MustCompile(`(?im)^[ \t]*(?:hook|intro|introduction|outro|conclusion|climax|narrator|scene[ \t]*\d*|part[ \t]*\d+|chapter[ \t]*\d+|phần[ \t]*\d+|chương[ \t]*\d+|mở đầu|mở bài|thân bài|kết bài|cao trào|kết thúc|người kể|lời dẫn)[ \t]*:[ \t]*`), ""},
	// stage directions
	{regexp.MustCompile(`\[[^\[\]\n]*\]`), ""},
	{regexp.MustCompile(`\([^()\n]*\)`), ""},
	// boilerplate
	{regexp.MustCompile(`(?i)here(?:'s| is) (?:the |a )?(?:continuation|next part|next section|script|story|rest of the story)[^\n.:!?]*[.:!]?`), ""},
	{regexp.MustCompile(`(?i)before we dive into today'?s story[^\n.!?]*[.!?]?`), ""},
	{regexp.MustCompile(`(?i)now,?[ \t]+settle in[^\n.!?]*[.!?]?`), ""},
	{regexp.MustCompile(`(?i)(?:dưới đây là|sau đây là)[ \t]+(?:phần tiếp theo|kịch bản|câu chuyện|nội dung)[^\n.:!?]*[.:!]?`), ""},
	{regexp.MustCompile(`(?i)[^\n.!?]*(?:subscribe|hit the bell|like and share|đăng ký kênh|nhấn chuông|bấm like)[^\n.!?]*[.!?]?`), ""},
	// whitespace left behind by the removals above
	{regexp.MustCompile(`(?m)[ \t]+$`), ""},
	{regexp.MustCompile(`(?m)^[ \t]+`), ""},
	{regexp.MustCompile(`[ \t]{2,}`), " "},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
}

func cleanOnce(s string) string {
	for _, r := range rules {
		s = r.rx.ReplaceAllString(s, r.repl)
	}
	return strings.TrimSpace(s)
}

// Clean removes markers, stage directions and boilerplate from model output.
// Parenthesized text is removed as well, including legitimate asides.
// Rules are applied until nothing changes, so Clean(Clean(x)) == Clean(x).
func Clean(text string) string {
	s := text
	for {
		next := cleanOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}
