// Package accesscode generates short visitor access codes. Codes are typed at
// gate keypads and read aloud over intercoms, so the alphabet is uppercase
// alphanumerics with ambiguous glyphs (0/O, 1/I/L) removed.
package accesscode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Alphabet excludes 0, O, 1, I and L.
	Alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

	// MinLength and MaxLength bound the configurable code length.
	MinLength = 4
	MaxLength = 8

	// DefaultLength is used when no length is configured.
	DefaultLength = 6
)

// ClampLength forces a configured length into the supported [MinLength,
// MaxLength] range. Zero or negative falls back to DefaultLength.
func ClampLength(length int) int {
	if length <= 0 {
		return DefaultLength
	}
	if length < MinLength {
		return MinLength
	}
	if length > MaxLength {
		return MaxLength
	}
	return length
}

// Generate produces a random access code of the given length (clamped) from a
// cryptographic random source.
func Generate(length int) (string, error) {
	length = ClampLength(length)

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(Alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = Alphabet[num.Int64()]
	}

	return string(result), nil
}

// Normalize uppercases and trims a code as received from a checkpoint so
// lookups are not case sensitive.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsWellFormed reports whether a code could have been produced by Generate.
func IsWellFormed(code string) bool {
	if len(code) < MinLength || len(code) > MaxLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(Alphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
