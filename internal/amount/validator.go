package amount

import (
	"fmt"
	"strings"
)

// Validator reports whether an in-progress amount string is ready for commit.
// The canonical empty value parses but is not committable, since zero-amount
// transactions are not allowed.
type Validator struct {
	sep rune
}

func NewValidator(sep rune) Validator {
	return Validator{sep: sep}
}

// Valid is true when s parses to a strictly positive amount. A string ending
// in the separator is not yet committable even though the parser would accept
// it; the validator is strictly tighter than the parser, never looser.
func (v Validator) Valid(s string) bool {
	if strings.HasSuffix(s, string(v.sep)) {
		return false
	}
	cents, err := ParseCents(s, v.sep)
	return err == nil && cents > 0
}

// ParseCents converts an amount string to currency base units. It accepts
// optional digits, an optional single separator, and optional fraction digits,
// as long as at least one digit is present and the fraction fits the currency
// precision. Commit uses this same function, so validator and parser agree.
func ParseCents(s string, sep rune) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	intPart, fracPart, hasSep := strings.Cut(s, string(sep))
	if hasSep && strings.ContainsRune(fracPart, sep) {
		return 0, fmt.Errorf("amount %q has more than one separator", s)
	}
	if intPart == "" && fracPart == "" {
		return 0, fmt.Errorf("amount %q has no digits", s)
	}
	if len(intPart) > maxIntegerDigits {
		return 0, fmt.Errorf("amount %q exceeds %d integer digits", s, maxIntegerDigits)
	}
	if len(fracPart) > maxFractionDigits {
		return 0, fmt.Errorf("amount %q exceeds %d fraction digits", s, maxFractionDigits)
	}

	var cents int64
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("amount %q contains %q", s, r)
		}
		cents = cents*10 + int64(r-'0')
	}
	cents *= 100

	scale := int64(10)
	for _, r := range fracPart {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("amount %q contains %q", s, r)
		}
		cents += int64(r-'0') * scale
		scale /= 10
	}
	return cents, nil
}
