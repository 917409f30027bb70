package lang

import "testing"

func TestDetectScript(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Code
	}{
		{"latin", "I have a headache", "en"},
		{"empty", "", "en"},
		{"hindi", "मुझे सिरदर्द है", "hi"},
		{"telugu", "నాకు తలనొప్పి", "te"},
		{"tamil", "எனக்கு தலைவலி", "ta"},
		{"bengali", "আমার মাথা ব্যথা", "bn"},
		{"gujarati", "મને માથાનો દુખાવો", "gu"},
		{"kannada", "ನನಗೆ ತಲೆನೋವು", "kn"},
		{"malayalam", "എനിക്ക് തലവേദന", "ml"},
		{"mixed latin prefix", "pain in जोड़ों", "hi"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectScript(tc.text); got != tc.want {
				t.Fatalf("DetectScript(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestCodeForFallsBackToDefault(t *testing.T) {
	if got := CodeFor("Klingon"); got != Default {
		t.Fatalf("CodeFor(unknown) = %q, want %q", got, Default)
	}
	if got := CodeFor("Telugu"); got != "te" {
		t.Fatalf("CodeFor(Telugu) = %q, want %q", got, "te")
	}
	if got := CodeFor("  Hindi  "); got != "hi" {
		t.Fatalf("CodeFor with padding = %q, want %q", got, "hi")
	}
}
