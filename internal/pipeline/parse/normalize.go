package parse

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops combining marks ("ž" -> "z").
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeHeader canonicalizes a column header for matching: lowercase,
// diacritics stripped and every whitespace character removed.
func NormalizeHeader(header string) string {
	s := stripMarks(strings.ToLower(header))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// NormalizeForSearch is NormalizeHeader for free text: inner spaces are kept.
func NormalizeForSearch(text string) string {
	return strings.TrimSpace(stripMarks(strings.ToLower(text)))
}

var (
	slugInvalid    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slugify derives a URL-safe identifier from a display name. It may return ""
// for names without any latin letters or digits; callers pick a fallback.
func Slugify(name string) string {
	s := stripMarks(strings.ToLower(name))
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
