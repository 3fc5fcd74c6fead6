package domain

import "strings"

// NormalizePhone reduces a phone string to its digits and drops a leading US
// country code from 11-digit numbers. Any other residue is returned as-is.
func NormalizePhone(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		return digits[1:]
	}
	return digits
}
