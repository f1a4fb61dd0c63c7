package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenizeWords splits s into runs of word, space and punctuation characters.
func TokenizeWords(s string) []string {
	var out []string
	var cur []rune
	kind := -1 // 0=space,1=word,2=punct
	flush := func() {
		if len(cur) == 0 {
			return
		}
		out = append(out, string(cur))
		cur = cur[:0]
	}
	for _, r := range s {
		k := 2
		switch {
		case unicode.IsSpace(r):
			k = 0
		case unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r) || r == '_' || r == '-' || r == '\'':
			k = 1
		}
		if kind == -1 {
			kind = k
		}
		if k != kind {
			flush()
			kind = k
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

var sentenceEnds = ".!?。！？…"

// LastSentence returns the final sentence of s, terminator included.
func LastSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	body := strings.TrimRight(s, sentenceEnds)
	if i := strings.LastIndexAny(body, sentenceEnds); i >= 0 {
		_, size := utf8.DecodeRuneInString(body[i:])
		return strings.TrimSpace(s[i+size:])
	}
	return s
}

// FirstSentence returns the opening sentence of s, terminator included.
func FirstSentence(s string) string {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, sentenceEnds)
	if i < 0 {
		return s
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return strings.TrimSpace(s[:i+size])
}
