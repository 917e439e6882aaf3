package flip

import "strings"

// DefaultPhone is substituted when a row carries no usable phone number.
const DefaultPhone = "+18888888888"

// FormatPhone maps arbitrary phone-like input to an E.164-ish string. It is
// total and never fails. The 10-digit domestic case is checked before the
// generic missing-plus case; that ordering matters.
func FormatPhone(raw string) string {
	if raw == "" {
		return DefaultPhone
	}

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return DefaultPhone
	}

	// Missing both + and country code
	if digits.Len() == 10 {
		return "+1" + digits.String()
	}

	// Has a country code but no + sign
	if !strings.HasPrefix(raw, "+") {
		return "+" + digits.String()
	}

	// Already properly formatted
	return raw
}
