// Package length converts a spoken duration into a character budget for a script.
package length

import (
	"math"
	"strings"
)

// Narration density in characters per spoken minute. CJK scripts carry more
// meaning per glyph, so they need fewer characters for the same airtime.
const (
	LatinCharsPerMinute = 1000
	CJKCharsPerMinute   = 300
)

// Duration ids understood by Minutes.
const (
	Short    = "short"
	Medium   = "medium"
	Long     = "long"
	VeryLong = "very-long"
	Custom   = "custom"
)

var presets = map[string]int{
	Short:    3,
	Medium:   7,
	Long:     10,
	VeryLong: 20,
}

var cjkLanguages = map[string]struct{}{
	"zh": {}, "zh-cn": {}, "zh-tw": {}, "cn": {},
	"ja": {}, "jp": {},
	"ko": {}, "kr": {},
}

// Tolerance is the accepted deviation from the target, as fractions below
// and above it.
type Tolerance struct {
	Under float64 `json:"under"`
	Over  float64 `json:"over"`
}

var (
	// DefaultTolerance accepts 10% short and 20% long.
	DefaultTolerance = Tolerance{Under: 0.10, Over: 0.20}
	// StrictTolerance accepts 5% either way.
	StrictTolerance = Tolerance{Under: 0.05, Over: 0.05}
)

// Target is the character budget derived from a language and a duration.
type Target struct {
	Minutes     int  `json:"minutes"`
	TargetChars int  `json:"targetChars"`
	MinChars    int  `json:"minChars"`
	MaxChars    int  `json:"maxChars"`
	IsCJK       bool `json:"isCJK"`
}

// PresetMinutes reports the minute value of a preset id.
func PresetMinutes(durationID string) (int, bool) {
	m, ok := presets[strings.ToLower(strings.TrimSpace(durationID))]
	return m, ok
}

// Minutes resolves a duration selection. Unknown ids and non-positive custom
// values fall back to the short preset.
func Minutes(durationID string, customMinutes int) int {
	id := strings.ToLower(strings.TrimSpace(durationID))
	if id == Custom && customMinutes > 0 {
		return customMinutes
	}
	if m, ok := presets[id]; ok {
		return m
	}
	return presets[Short]
}

// IsCJK reports whether a language id is Chinese, Japanese or Korean.
func IsCJK(languageID string) bool {
	_, ok := cjkLanguages[strings.ToLower(strings.TrimSpace(languageID))]
	return ok
}

// CharsPerMinute returns the density used for a language id.
func CharsPerMinute(languageID string) int {
	if IsCJK(languageID) {
		return CJKCharsPerMinute
	}
	return LatinCharsPerMinute
}

// Calculate returns the budget for the selection. It never fails.
func Calculate(languageID, durationID string, customMinutes int, tol Tolerance) Target {
	minutes := Minutes(durationID, customMinutes)
	target := minutes * CharsPerMinute(languageID)

	under := math.Min(math.Max(tol.Under, 0), 1)
	over := math.Max(tol.Over, 0)

	return Target{
		Minutes:     minutes,
		TargetChars: target,
		MinChars:    int(math.Round(float64(target) * (1 - under))),
		MaxChars:    int(math.Round(float64(target) * (1 + over))),
		IsCJK:       IsCJK(languageID),
	}
}
