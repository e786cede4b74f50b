package summarizer

import (
	"strings"
	"testing"
	"unicode"
)

func TestSummarize_shortTextUnchanged(t *testing.T) {
	tests := []string{
		"A short abstract.",
		strings.Repeat("x", 200),
		"  padded text with spaces  ",
	}
	for _, in := range tests {
		got := Summarize(in, 200)
		if got != strings.TrimSpace(in) {
			t.Errorf("Summarize(%q) = %q", in, got)
		}
		if strings.HasSuffix(got, Ellipsis) && !strings.HasSuffix(strings.TrimSpace(in), Ellipsis) {
			t.Errorf("ellipsis appended to short text %q", in)
		}
	}
}

func TestSummarize_empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\t"} {
		if got := Summarize(in, 200); got != NoContent {
			t.Errorf("Summarize(%q) = %q, want %q", in, got, NoContent)
		}
	}
}

func TestSummarize_longTextCutsAtWordBoundary(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	var b strings.Builder
	for b.Len() < 6000 {
		b.WriteString(words[b.Len()%len(words)])
		b.WriteByte(' ')
	}
	full := b.String()
	input := full[:5000]

	got := Summarize(input, 200)
	if !strings.HasSuffix(got, Ellipsis) {
		t.Fatalf("missing ellipsis: %q", got)
	}
	prefix := strings.TrimSuffix(got, Ellipsis)
	if len([]rune(prefix)) > 200 {
		t.Errorf("prefix length %d exceeds 200", len([]rune(prefix)))
	}
	if !strings.HasPrefix(input, prefix) {
		t.Fatalf("summary is not a prefix of the input")
	}
	next := []rune(input)[len([]rune(prefix))]
	if !unicode.IsSpace(next) {
		t.Errorf("summary splits a word: next char %q", next)
	}
}

func TestSummarize_wordEndingAtCutIsKept(t *testing.T) {
	got := Summarize("abcde fghij klmno", 11)
	if got != "abcde fghij..." {
		t.Errorf("got %q", got)
	}
}

func TestSummarize_noWhitespaceKeepsFullBudget(t *testing.T) {
	got := Summarize(strings.Repeat("z", 300), 200)
	if got != strings.Repeat("z", 200)+Ellipsis {
		t.Errorf("got %q", got)
	}
}

func TestSummarize_countsCharactersNotBytes(t *testing.T) {
	in := strings.Repeat("ü", 150) + " " + strings.Repeat("é", 100)
	got := Summarize(in, 200)
	if got != strings.Repeat("ü", 150)+Ellipsis {
		t.Errorf("got %q", got)
	}
}

func TestPrefixSummarizer_defaultLength(t *testing.T) {
	s := NewPrefixSummarizer(0)
	got := s.Summarize(strings.Repeat("word ", 100))
	if len([]rune(strings.TrimSuffix(got, Ellipsis))) > DefaultMaxLength {
		t.Errorf("default length not applied: %d", len(got))
	}
}
