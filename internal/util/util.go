// Package util holds small shared helpers with no domain dependencies.
package util

import "strings"

// NormalizePhoneNumber strips formatting from a phone number, keeping only
// digits and a leading plus sign. "+886 912-345-678" and "+886912345678"
// normalize to the same handle. An input with no usable characters is
// returned unchanged.
func NormalizePhoneNumber(phone string) string {
	var cleaned strings.Builder
	cleaned.Grow(len(phone))

	for _, r := range phone {
		if r >= '0' && r <= '9' {
			cleaned.WriteRune(r)

			continue
		}
		if r == '+' {
			cleaned.WriteRune(r)
		}
	}

	if cleaned.Len() == 0 {
		return phone
	}

	return cleaned.String()
}

// MaskPhoneNumber hides the middle digits of a phone number for log output.
// Short values are masked entirely.
func MaskPhoneNumber(phone string) string {
	if len(phone) <= 6 {
		return strings.Repeat("*", len(phone))
	}

	return phone[:4] + strings.Repeat("*", len(phone)-6) + phone[len(phone)-2:]
}
