// Package textutil holds rune-safe string helpers shared by the corpus and prompt code.
package textutil

import "strings"

// Head returns the first n characters (runes) of s.
// If n is negative, s is returned unchanged.
func Head(s string, n int) string {
	if n < 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Len returns the length of s in characters.
func Len(s string) int {
	return len([]rune(s))
}

// Flatten replaces line breaks with spaces and trims surrounding whitespace.
func Flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
