package service

import (
	"testing"
)

func TestDetectKeywords(t *testing.T) {
	detector := NewKeywordWeaknessDetector()

	tests := []struct {
		name     string
		message  string
		turns    int
		wantTags []string
	}{
		{"direct phrase", "ich weiß nicht", 4, []string{"weiß nicht"}},
		{"case insensitive", "Ich Weiß Nicht, was das soll", 4, []string{"weiß nicht"}},
		{"embedded phrase", "das ist mir alles viel zu schwierig heute", 4, []string{"schwierig"}},
		{"multiple phrases", "keine ahnung, das ist zu schwer", 4, []string{"keine ahnung", "zu schwer"}},
		{"clean message", "Ein Bruch besteht aus Zähler und Nenner", 4, nil},
		{"short late reply", "ok", 3, []string{"kurze antwort"}},
		{"short early reply ignored", "ok", 2, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detector.Detect(tt.message, tt.turns)
			if len(got) != len(tt.wantTags) {
				t.Fatalf("Detect(%q) = %v, want %v", tt.message, got, tt.wantTags)
			}
			for i := range got {
				if got[i] != tt.wantTags[i] {
					t.Errorf("Tag %d = %q, want %q", i, got[i], tt.wantTags[i])
				}
			}
		})
	}
}

func TestDetectShortMessageCombinesWithKeyword(t *testing.T) {
	detector := NewKeywordWeaknessDetector()

	// "hilfe" is both a keyword and under the length threshold
	got := detector.Detect("hilfe", 4)
	if len(got) != 2 {
		t.Fatalf("Detect() = %v, want keyword tag plus short-reply tag", got)
	}
}
