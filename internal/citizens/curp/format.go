package curp

import (
	"regexp"
	"strings"
)

var pattern = regexp.MustCompile(`^[A-Z]{4}\d{6}[HM][A-Z]{5}[A-Z0-9]\d$`)

// Normalize trims and uppercases a CURP.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Valid reports whether s, once normalized, is a well-formed CURP.
func Valid(s string) bool {
	return pattern.MatchString(Normalize(s))
}
