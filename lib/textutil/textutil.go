package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	return whitespaceRegex.ReplaceAllString(name, " ")
}

// EqualFold reports whether two names are the same after
// normalization. Team names coming out of scraped markup carry
// inconsistent casing and stray whitespace.
func EqualFold(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}
