package utils

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify lowercases and trims name, hyphenates whitespace runs and strips
// everything that is not [a-z0-9-]. "Zahra Fabrics!!" becomes "zahra-fabrics".
// The result is not guaranteed to be unique.
func Slugify(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = whitespaceRun.ReplaceAllString(s, "-")
	return nonSlugChars.ReplaceAllString(s, "")
}
