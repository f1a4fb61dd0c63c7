package length

import "testing"

func TestCalculateScenarios(t *testing.T) {
	tests := []struct {
		name     string
		language string
		duration string
		custom   int
		tol      Tolerance
		want     Target
	}{
		{
			name:     "vietnamese short default band",
			language: "vi",
			duration: Short,
			tol:      DefaultTolerance,
			want:     Target{Minutes: 3, TargetChars: 3000, MinChars: 2700, MaxChars: 3600},
		},
		{
			name:     "vietnamese short strict band",
			language: "vi",
			duration: Short,
			tol:      StrictTolerance,
			want:     Target{Minutes: 3, TargetChars: 3000, MinChars: 2850, MaxChars: 3150},
		},
		{
			name:     "japanese medium",
			language: "jp",
			duration: Medium,
			tol:      DefaultTolerance,
			want:     Target{Minutes: 7, TargetChars: 2100, MinChars: 1890, MaxChars: 2520, IsCJK: true},
		},
		{
			name:     "custom minutes",
			language: "en",
			duration: Custom,
			custom:   12,
			tol:      DefaultTolerance,
			want:     Target{Minutes: 12, TargetChars: 12000, MinChars: 10800, MaxChars: 14400},
		},
		{
			name:     "custom zero falls back to short",
			language: "en",
			duration: Custom,
			custom:   0,
			tol:      DefaultTolerance,
			want:     Target{Minutes: 3, TargetChars: 3000, MinChars: 2700, MaxChars: 3600},
		},
		{
			name:     "custom negative falls back to short",
			language: "ko",
			duration: Custom,
			custom:   -4,
			tol:      DefaultTolerance,
			want:     Target{Minutes: 3, TargetChars: 900, MinChars: 810, MaxChars: 1080, IsCJK: true},
		},
		{
			name:     "unknown preset falls back to short",
			language: "fr",
			duration: "epic",
			tol:      DefaultTolerance,
			want:     Target{Minutes: 3, TargetChars: 3000, MinChars: 2700, MaxChars: 3600},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.language, tt.duration, tt.custom, tt.tol)
			if got != tt.want {
				t.Errorf("Calculate(%q, %q, %d) = %+v, want %+v", tt.language, tt.duration, tt.custom, got, tt.want)
			}
		})
	}
}

func TestCalculateInvariants(t *testing.T) {
	languages := []string{"vi", "en", "jp", "ja", "zh", "zh-TW", "ko", "kr", "es", ""}
	durations := []string{Short, Medium, Long, VeryLong, Custom, "bogus", ""}
	customs := []int{-10, 0, 1, 5, 6, 45}
	tolerances := []Tolerance{DefaultTolerance, StrictTolerance, {}, {Under: -1, Over: -1}, {Under: 2, Over: 3}}

	for _, lang := range languages {
		for _, dur := range durations {
			for _, c := range customs {
				for _, tol := range tolerances {
					got := Calculate(lang, dur, c, tol)
					if got.MinChars < 0 || got.TargetChars < 0 || got.MaxChars < 0 {
						t.Fatalf("negative budget for %q/%q/%d/%+v: %+v", lang, dur, c, tol, got)
					}
					if got.MinChars > got.TargetChars || got.TargetChars > got.MaxChars {
						t.Fatalf("min <= target <= max violated for %q/%q/%d/%+v: %+v", lang, dur, c, tol, got)
					}
					if got.Minutes <= 0 {
						t.Fatalf("non-positive minutes for %q/%q/%d: %+v", lang, dur, c, got)
					}
				}
			}
		}
	}
}

func TestDensityAsymmetry(t *testing.T) {
	for _, minutes := range []int{1, 3, 7, 20} {
		cjk := Calculate("zh", Custom, minutes, DefaultTolerance)
		latin := Calculate("vi", Custom, minutes, DefaultTolerance)
		if !cjk.IsCJK || latin.IsCJK {
			t.Fatalf("classification wrong: zh=%v vi=%v", cjk.IsCJK, latin.IsCJK)
		}
		if cjk.TargetChars >= latin.TargetChars {
			t.Errorf("minutes=%d: CJK target %d should be below Latin target %d", minutes, cjk.TargetChars, latin.TargetChars)
		}
	}
}

func TestIsCJKCaseInsensitive(t *testing.T) {
	for _, id := range []string{"JP", " ja ", "Zh-CN", "KO"} {
		if !IsCJK(id) {
			t.Errorf("IsCJK(%q) = false, want true", id)
		}
	}
	for _, id := range []string{"vi", "en", "de", "th"} {
		if IsCJK(id) {
			t.Errorf("IsCJK(%q) = true, want false", id)
		}
	}
}
