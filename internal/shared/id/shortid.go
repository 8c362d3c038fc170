package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12
)

// Prefixes for different entity types (Stripe-style)
const (
	PrefixCredential = "gc"
	PrefixSponsor    = "sp"
)

// Generate creates a random short ID with the specified length using Base62 encoding.
// The generated ID is cryptographically random and URL-safe.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// MustGenerate creates a random short ID and panics on error.
func MustGenerate(length int) string {
	id, err := Generate(length)
	if err != nil {
		panic(err)
	}
	return id
}

// GenerateWithPrefix creates a prefixed ID in the format "prefix_randomstring".
func GenerateWithPrefix(prefix string, length int) (string, error) {
	id, err := Generate(length)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", prefix, id), nil
}

// FormatWithPrefix adds a prefix to an existing short ID.
// Example: FormatWithPrefix("gc", "xK9mP2vL3nQ4") returns "gc_xK9mP2vL3nQ4"
func FormatWithPrefix(prefix, shortID string) string {
	if shortID == "" {
		return ""
	}
	return fmt.Sprintf("%s_%s", prefix, shortID)
}

// ParsePrefixedID extracts the prefix and short ID from a prefixed ID string.
func ParsePrefixedID(prefixedID string) (prefix, shortID string, err error) {
	parts := strings.SplitN(prefixedID, "_", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid prefixed ID format: %s", prefixedID)
	}
	return parts[0], parts[1], nil
}

// ExtractShortID extracts the short ID from a prefixed ID, validating the prefix.
func ExtractShortID(prefixedID, expectedPrefix string) (string, error) {
	prefix, shortID, err := ParsePrefixedID(prefixedID)
	if err != nil {
		return "", err
	}
	if prefix != expectedPrefix {
		return "", fmt.Errorf("invalid prefix: expected %s, got %s", expectedPrefix, prefix)
	}
	return shortID, nil
}

// NewCredentialID generates a new guest credential short ID.
func NewCredentialID() (string, error) {
	return Generate(DefaultLength)
}

// FormatCredentialID formats a short ID as a credential prefixed ID.
func FormatCredentialID(shortID string) string {
	return FormatWithPrefix(PrefixCredential, shortID)
}

// ParseCredentialID extracts the short ID from a credential prefixed ID.
func ParseCredentialID(prefixedID string) (string, error) {
	return ExtractShortID(prefixedID, PrefixCredential)
}

// FormatSponsorID formats a short ID as a sponsor prefixed ID.
func FormatSponsorID(shortID string) string {
	return FormatWithPrefix(PrefixSponsor, shortID)
}

// ParseSponsorID extracts the short ID from a sponsor prefixed ID.
func ParseSponsorID(prefixedID string) (string, error) {
	return ExtractShortID(prefixedID, PrefixSponsor)
}
