package amount

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// SeparatorFor resolves the decimal separator for a locale by formatting a
// known fractional number and picking out the non-digit rune. Falls back to
// '.' for locales x/text cannot format.
func SeparatorFor(tag language.Tag) rune {
	formatted := message.NewPrinter(tag).Sprintf("%v", number.Decimal(1.1))
	for _, r := range formatted {
		if r < '0' || r > '9' {
			return r
		}
	}
	return '.'
}
