package id

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzParsePrefixedID tests the ParsePrefixedID function with random inputs
func FuzzParsePrefixedID(f *testing.F) {
	seeds := []string{
		"gc_xK9mP2vL3nQ4",
		"sp_abc123",
		"",
		"nounderscore",
		"_leadingunderscore",
		"trailing_",
		"multiple_under_scores_here",
		"a_b",
		"*_special",
		strings.Repeat("a", 1000) + "_" + strings.Repeat("b", 1000),
	}

	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			return
		}

		prefix, shortID, err := ParsePrefixedID(input)

		if !strings.Contains(input, "_") {
			if err == nil {
				t.Errorf("ParsePrefixedID(%q) should return error for input without underscore", input)
			}
			return
		}

		if err == nil {
			if !strings.HasPrefix(input, prefix+"_") {
				t.Errorf("ParsePrefixedID(%q) returned prefix=%q which doesn't match input", input, prefix)
			}
			parts := strings.SplitN(input, "_", 2)
			if len(parts) == 2 && shortID != parts[1] {
				t.Errorf("ParsePrefixedID(%q) returned shortID=%q, expected %q", input, shortID, parts[1])
			}
		}
	})
}

// FuzzGenerate tests the Generate function
func FuzzGenerate(f *testing.F) {
	lengths := []int{0, 1, 2, 5, 10, 12, 20, 50, 100}
	for _, l := range lengths {
		f.Add(l)
	}

	f.Fuzz(func(t *testing.T, length int) {
		result, err := Generate(length)
		if err != nil {
			t.Errorf("Generate(%d) returned error: %v", length, err)
			return
		}

		expectedLen := length
		if expectedLen <= 0 {
			expectedLen = DefaultLength
		}

		if len(result) != expectedLen {
			t.Errorf("Generate(%d) returned string of length %d, expected %d", length, len(result), expectedLen)
		}

		for _, c := range result {
			if !strings.ContainsRune(alphabet, c) {
				t.Errorf("Generate(%d) returned invalid character %q", length, c)
			}
		}
	})
}

// TestGenerateUniqueness tests that generated IDs are unique
func TestGenerateUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	iterations := 10000

	for i := 0; i < iterations; i++ {
		id, err := Generate(DefaultLength)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}

		if seen[id] {
			t.Errorf("Generate produced duplicate ID: %s", id)
		}
		seen[id] = true
	}
}

// TestCredentialIDRoundTrip tests prefixed credential ID formatting and parsing
func TestCredentialIDRoundTrip(t *testing.T) {
	shortID, err := NewCredentialID()
	if err != nil {
		t.Fatalf("NewCredentialID failed: %v", err)
	}
	if len(shortID) != DefaultLength {
		t.Errorf("short ID length %d doesn't match default %d", len(shortID), DefaultLength)
	}

	prefixed := FormatCredentialID(shortID)
	if !strings.HasPrefix(prefixed, PrefixCredential+"_") {
		t.Errorf("formatted ID %q doesn't have expected prefix %q_", prefixed, PrefixCredential)
	}

	parsed, err := ParseCredentialID(prefixed)
	if err != nil {
		t.Fatalf("ParseCredentialID(%q) failed: %v", prefixed, err)
	}
	if parsed != shortID {
		t.Errorf("round trip mismatch: got %q, want %q", parsed, shortID)
	}

	if _, err := ParseCredentialID(FormatSponsorID(shortID)); err == nil {
		t.Error("ParseCredentialID should reject sponsor-prefixed IDs")
	}
}
