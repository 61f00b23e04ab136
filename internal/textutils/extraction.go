// Package textutils provides the small regex and string helpers shared by the
// field extractors and the record normalizer.
package textutils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	lineBreak     = regexp.MustCompile(`\r?\n`)
	extension     = regexp.MustCompile(`\.[^/.]+$`)
)

// FirstSubmatch returns capture group 1 of the first pattern that matches s.
// Patterns without a group yield the whole match.
func FirstSubmatch(s string, patterns ...*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(s); m != nil {
			if len(m) > 1 {
				return m[1], true
			}
			return m[0], true
		}
	}
	return "", false
}

// Submatch returns capture group 1 of re in s.
func Submatch(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// CutAt returns the part of s before the first match of re, or s when re
// does not match.
func CutAt(s string, re *regexp.Regexp) string {
	if loc := re.FindStringIndex(s); loc != nil {
		return s[:loc[0]]
	}
	return s
}

// StripPrefix removes the first match of re when it is anchored at the start.
func StripPrefix(s string, re *regexp.Regexp) string {
	if loc := re.FindStringIndex(s); loc != nil && loc[0] == 0 {
		return s[loc[1]:]
	}
	return s
}

// CollapseSpaces replaces every whitespace run with a single space and trims.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// TitleWords lower-cases s and upper-cases the first rune of every
// space-separated word. Hyphenated words keep their inner case
// ("water-based" -> "Water-based").
func TitleWords(s string) string {
	words := strings.Split(strings.ToLower(s), " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Lines splits s on LF or CRLF.
func Lines(s string) []string {
	return lineBreak.Split(s, -1)
}

// FirstLines returns at most n lines of s.
func FirstLines(s string, n int) []string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}

// NonBlankLines returns the lines of s that contain something other than
// whitespace, untrimmed.
func NonBlankLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

// StripExtension removes the last extension from a file name
// ("GLI-AUG25.pdf" -> "GLI-AUG25"). Names without an extension are unchanged.
func StripExtension(name string) string {
	return extension.ReplaceAllString(name, "")
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// ReplaceFirst replaces only the leftmost match of re in s.
func ReplaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}
