// Package normalize provides stateless value normalization helpers invoked by
// the contact builder: French phone number canonicalization and email shape
// validation.
package normalize

import (
	"regexp"
	"strings"
)

var (
	emailRE    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	nonDialRE  = regexp.MustCompile(`[^\d+]`)
	leadZeroRE = regexp.MustCompile(`^0`)
)

// IsValidEmail reports whether s looks like an email address: local part,
// "@", and a domain ending in a dot-separated label of two or more letters.
func IsValidEmail(s string) bool {
	if s == "" {
		return false
	}
	return emailRE.MatchString(strings.TrimSpace(s))
}

// PhoneFR canonicalizes a French phone number to +33 form. Separators are
// stripped, the international 00 prefix becomes +, and a national leading 0
// is replaced by the country code. Values that fit no known shape are
// returned stripped of separators only.
func PhoneFR(phone string) string {
	if phone == "" {
		return ""
	}
	s := nonDialRE.ReplaceAllString(phone, "")
	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}
	switch {
	case strings.HasPrefix(s, "+33") && (len(s) == 12 || len(s) == 13):
		s = "+33" + leadZeroRE.ReplaceAllString(s[3:], "")
	case strings.HasPrefix(s, "0") && len(s) >= 10:
		s = "+33" + s[1:]
	}
	return s
}
