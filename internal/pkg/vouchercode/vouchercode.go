package vouchercode

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Alphabet for voucher codes. Uppercase without 0/O, 1/I/L so staff can type
// a code read out loud at the point of sale without ambiguity (31 characters).
const alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// DefaultLength is the standard voucher code length.
const DefaultLength = 10

// Generate creates a cryptographically secure random voucher code.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("invalid code length: %d", length)
	}

	// Rejection sampling to avoid modulo bias.
	// 248 is the largest multiple of 31 below 256.
	const maxRandomByte = 248

	code := make([]byte, length)
	buf := make([]byte, length*2)
	written := 0

	for written < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read secure random bytes: %w", err)
		}

		for _, b := range buf {
			if b >= maxRandomByte {
				continue
			}
			code[written] = alphabet[int(b)%len(alphabet)]
			written++
			if written == length {
				break
			}
		}
	}

	return string(code), nil
}

// Normalize maps human input to canonical code form: uppercase with spaces
// and dashes stripped. Staff may enter codes with grouping separators.
func Normalize(input string) string {
	s := strings.ToUpper(strings.TrimSpace(input))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}

// IsValid reports whether the string is a plausible voucher code: non-empty
// and drawn entirely from the code alphabet.
func IsValid(code string) bool {
	if code == "" {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(alphabet, code[i]) == -1 {
			return false
		}
	}
	return true
}
