package utils

import (
	"path/filepath"
	"testing"
)

func TestTailAndTruncateRunes(t *testing.T) {
	s := "Ngày xưa có một ngôi làng"
	if got := TailRunes(s, 5); got != " làng" {
		t.Errorf("TailRunes = %q, want %q", got, " làng")
	}
	if got := TruncateRunes(s, 4); got != "Ngày" {
		t.Errorf("TruncateRunes = %q, want %q", got, "Ngày")
	}
	if got := TailRunes(s, 1000); got != s {
		t.Errorf("TailRunes beyond length = %q", got)
	}
	if got := TailRunes(s, 0); got != "" {
		t.Errorf("TailRunes(0) = %q", got)
	}
	if got := LimitStr("abcdef", 3); got != "abc..." {
		t.Errorf("LimitStr = %q", got)
	}
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no lang", "```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"prose around", "Sure! Here it is: {\"a\":1} Hope that helps.", `{"a":1}`},
		{"think block", "<think>hmm {x}</think>\n{\"a\":1}", `{"a":1}`},
		{"no json", "nothing here", "nothing here"},
		{"empty fence", "```\n```", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanJSON(tt.in); got != tt.want {
				t.Errorf("CleanJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSentences(t *testing.T) {
	text := "The lamp went out. Nobody moved! Then the door creaked."
	if got := FirstSentence(text); got != "The lamp went out." {
		t.Errorf("FirstSentence = %q", got)
	}
	if got := LastSentence(text); got != "Then the door creaked." {
		t.Errorf("LastSentence = %q", got)
	}
	if got := LastSentence("no terminator"); got != "no terminator" {
		t.Errorf("LastSentence without terminator = %q", got)
	}
	if got := LastSentence("Trời tối. Gió thổi..."); got != "Gió thổi..." {
		t.Errorf("LastSentence with ellipsis = %q", got)
	}
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("Ông Tư", "ông tư"); got != 1 {
		t.Errorf("case-insensitive similarity = %v", got)
	}
	if got := Similarity("kitten", "sitting"); got < 0.5 || got > 0.6 {
		t.Errorf("Similarity(kitten, sitting) = %v", got)
	}
}

func TestStringContains(t *testing.T) {
	if !StringContains("Error 429: RESOURCE_EXHAUSTED", false, "resource_exhausted") {
		t.Error("expected case-insensitive match")
	}
	if StringContains("fine", false, "", "bad") {
		t.Error("empty needle should not match non-empty text")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	in := map[string][]string{"u1": {"a", "b"}}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists(path) {
		t.Fatalf("file not written")
	}
	out, err := Load[map[string][]string](path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out["u1"]) != 2 || out["u1"][1] != "b" {
		t.Errorf("round trip mismatch: %v", out)
	}
}
