package tools

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizePhone normalizes a phone number to E.164.
//
// Current heuristic (US):
// - strips everything that is not a digit
// - 10 digits are assumed to be a US number and get a leading 1
// - 11 digits starting with 1 are kept as-is
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty phone")
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	phone := b.String()

	if len(phone) == 10 {
		phone = "1" + phone
	}

	if len(phone) < 11 {
		return "", fmt.Errorf("invalid phone length: %d", len(phone))
	}
	return "+" + phone, nil
}
