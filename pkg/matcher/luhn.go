package matcher

import "strings"

// LuhnValid reports whether a digit string passes the Luhn checksum
func LuhnValid(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// MaskCard hides all but the last four digits of a card number
func MaskCard(digits string) string {
	last := digits
	if len(last) > 4 {
		last = last[len(last)-4:]
	}
	return "****-****-****-" + last
}

// LastFour returns the last four digits of a masked card number
func LastFour(masked string) string {
	if len(masked) <= 4 {
		return masked
	}
	return masked[len(masked)-4:]
}

func digitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
