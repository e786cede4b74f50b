// Package summarizer builds short extractive summaries from the start of a document.
package summarizer

import (
	"strings"
	"unicode"
)

const (
	// DefaultMaxLength is the summary length used when none is configured.
	DefaultMaxLength = 200
	// Ellipsis marks a summary that was cut short.
	Ellipsis = "..."
	// NoContent is returned for empty input.
	NoContent = "[No content available]"
)

// PrefixSummarizer keeps the leading words of a text up to a character budget.
type PrefixSummarizer struct {
	maxLength int
}

// NewPrefixSummarizer creates a summarizer. A non-positive maxLength selects DefaultMaxLength.
func NewPrefixSummarizer(maxLength int) *PrefixSummarizer {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &PrefixSummarizer{maxLength: maxLength}
}

// Summarize implements domain.Summarizer.
func (s *PrefixSummarizer) Summarize(text string) string {
	return Summarize(text, s.maxLength)
}

// Summarize trims text and, when it is longer than maxLength characters, cuts
// it back to the last word boundary at or before maxLength and appends Ellipsis.
func Summarize(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return NoContent
	}
	runes := []rune(trimmed)
	if len(runes) <= maxLength {
		return trimmed
	}
	cut := runes[:maxLength]
	// a word that ends exactly at the cut point is kept whole
	if !unicode.IsSpace(runes[maxLength]) {
		if i := lastSpace(cut); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRightFunc(string(cut), unicode.IsSpace) + Ellipsis
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if unicode.IsSpace(rs[i]) {
			return i
		}
	}
	return -1
}
