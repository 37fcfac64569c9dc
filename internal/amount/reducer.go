// Package amount holds the keypad input reducer and the amount validator the
// enter-amount screen is built on. Both are pure; the same cents parser backs
// validation and commit so the two can never disagree.
package amount

import "strings"

// Empty is the canonical empty amount.
const Empty = "0"

const (
	maxIntegerDigits  = 9
	maxFractionDigits = 2
)

// Action is a keypad button. Enter and Back are routed by the screen, not the
// reducer; they leave the amount string untouched here.
type Action int

const (
	ActionDigit0 Action = iota
	ActionDigit1
	ActionDigit2
	ActionDigit3
	ActionDigit4
	ActionDigit5
	ActionDigit6
	ActionDigit7
	ActionDigit8
	ActionDigit9
	ActionSeparator
	ActionBackspace
	ActionClear
	ActionEnter
	ActionBack
)

// Digit returns the action for digit d. d must be in [0, 9].
func Digit(d int) Action {
	return ActionDigit0 + Action(d)
}

func (a Action) digit() (byte, bool) {
	if a < ActionDigit0 || a > ActionDigit9 {
		return 0, false
	}
	return byte('0' + a - ActionDigit0), true
}

// Reducer folds keypad actions into an in-progress amount string. The decimal
// separator is resolved once, at construction.
type Reducer struct {
	sep rune
}

func NewReducer(sep rune) Reducer {
	return Reducer{sep: sep}
}

func (r Reducer) Separator() rune {
	return r.sep
}

// Reduce returns the amount string after applying a to current. The result
// always contains only digits and at most one separator, stays within the
// digit bounds, and never grows a leading-zero prefix.
func (r Reducer) Reduce(current string, a Action) string {
	switch a {
	case ActionSeparator:
		if strings.ContainsRune(current, r.sep) {
			return current
		}
		return current + string(r.sep)

	case ActionBackspace:
		if current == Empty {
			return current
		}
		runes := []rune(current)
		trimmed := string(runes[:len(runes)-1])
		if trimmed == "" {
			return Empty
		}
		return trimmed

	case ActionClear:
		return Empty

	case ActionEnter, ActionBack:
		return current
	}

	d, ok := a.digit()
	if !ok {
		return current
	}

	intPart, fracPart, hasSep := strings.Cut(current, string(r.sep))
	if hasSep {
		if len(fracPart) >= maxFractionDigits {
			return current
		}
		return current + string(d)
	}
	if intPart == Empty {
		return string(d)
	}
	if len(intPart) >= maxIntegerDigits {
		return current
	}
	return current + string(d)
}
