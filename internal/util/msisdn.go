package util

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`[^\d]+`)

// NormalizeMsisdn strips formatting from an MSISDN party identifier so the
// same subscriber always produces the same correlation path segment.
// "+27 82 123 4567" and "0027821234567" both become "27821234567".
func NormalizeMsisdn(raw string) string {
	s := strings.TrimSpace(raw)
	s = nonDigits.ReplaceAllString(s, "")

	if strings.HasPrefix(s, "00") {
		s = s[2:]
	}

	return s
}
