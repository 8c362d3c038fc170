package accesscode

import (
	"strings"
	"testing"
)

func TestClampLength(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero falls back to default", 0, DefaultLength},
		{"negative falls back to default", -3, DefaultLength},
		{"below minimum clamps up", 2, MinLength},
		{"minimum passes through", 4, 4},
		{"default passes through", 6, 6},
		{"maximum passes through", 8, 8},
		{"above maximum clamps down", 20, MaxLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampLength(tt.in); got != tt.want {
				t.Errorf("ClampLength(%d) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateAlphabet(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := Generate(DefaultLength)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if len(code) != DefaultLength {
			t.Fatalf("Generate returned %q with length %d, want %d", code, len(code), DefaultLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(Alphabet, c) {
				t.Errorf("Generate returned code %q containing %q, not in alphabet", code, c)
			}
		}
		// None of the ambiguous glyphs may ever appear.
		if strings.ContainsAny(code, "0O1IL") {
			t.Errorf("Generate returned code %q with ambiguous character", code)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  ab3k9x \n"); got != "AB3K9X" {
		t.Errorf("Normalize = %q, want AB3K9X", got)
	}
}

func TestIsWellFormed(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"AB3K9X", true},
		{"2345", true},
		{"WXYZ2345", true},
		{"ab3k9x", false},  // lowercase not in alphabet
		{"AB0K9X", false},  // ambiguous zero
		{"ABC", false},     // too short
		{"AB3K9XAB3", false}, // too long
		{"", false},
	}

	for _, tt := range tests {
		if got := IsWellFormed(tt.code); got != tt.want {
			t.Errorf("IsWellFormed(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func FuzzGenerate(f *testing.F) {
	for _, l := range []int{-1, 0, 3, 4, 6, 8, 9, 100} {
		f.Add(l)
	}

	f.Fuzz(func(t *testing.T, length int) {
		code, err := Generate(length)
		if err != nil {
			t.Errorf("Generate(%d) returned error: %v", length, err)
			return
		}
		if len(code) != ClampLength(length) {
			t.Errorf("Generate(%d) returned length %d, want %d", length, len(code), ClampLength(length))
		}
		if !IsWellFormed(code) {
			t.Errorf("Generate(%d) returned malformed code %q", length, code)
		}
	})
}
