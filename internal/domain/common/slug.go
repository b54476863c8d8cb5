package common

import (
	"strings"
	"unicode"
)

// Slugify lower-cases s and collapses every run of non-alphanumerics into a single "-".
//
//	"Summer T-Shirt (Blue)" -> "summer-t-shirt-blue"
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
