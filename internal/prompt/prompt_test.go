package prompt

import (
	"errors"
	"strings"
	"testing"

	"docqa/internal/domain"
)

func TestSystemMessage_format(t *testing.T) {
	corpus := domain.Corpus{
		{Title: "A.pdf", Summary: "About A...", Content: "Line one\nLine two\n"},
		{Title: "B.pdf", Summary: "[No content extracted]", Content: ""},
	}
	got := NewAssembler(0, Limits{}).SystemMessage(corpus)
	want := "You are a knowledgeable academic research assistant. You have access to the following PDF documents:\n" +
		"Document 1: A.pdf\n" +
		"Summary: About A...\n\n" +
		"Content sample: Line one Line two...\n\n" +
		"Document 2: B.pdf\n" +
		"Summary: [No content extracted]\n\n" +
		"\n\nHelp users find relevant information based on their interests. " +
		"Identify the most relevant documents from the corpus, and explain why they are relevant. " +
		"Refer to specific content from the documents when possible."
	if got != want {
		t.Errorf("system message mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestSystemMessage_corpusOrder(t *testing.T) {
	corpus := domain.Corpus{
		{Title: "zeta.pdf", Summary: "summary zeta", Content: "z"},
		{Title: "alpha.pdf", Summary: "summary alpha", Content: "a"},
		{Title: "mid.pdf", Summary: "summary mid", Content: "m"},
	}
	msg := NewAssembler(0, Limits{}).SystemMessage(corpus)
	last := -1
	for _, d := range corpus {
		for _, part := range []string{d.Title, d.Summary} {
			idx := strings.Index(msg, part)
			if idx < 0 {
				t.Fatalf("message missing %q", part)
			}
			if idx < last {
				t.Errorf("%q rendered out of corpus order", part)
			}
			last = idx
		}
	}
}

func TestSystemMessage_sampleIsBounded(t *testing.T) {
	content := strings.Repeat("a", 999) + "B" + strings.Repeat("c", 500)
	msg := NewAssembler(1000, Limits{}).SystemMessage(domain.Corpus{{Title: "t", Summary: "s", Content: content}})
	if !strings.Contains(msg, "Content sample: "+strings.Repeat("a", 999)+"B...") {
		t.Errorf("sample should be the first 1000 characters")
	}
	if strings.Contains(msg, "Bc") {
		t.Errorf("sample contains content past 1000 characters")
	}
}

func TestSystemMessage_sampleTrimsWhitespace(t *testing.T) {
	msg := NewAssembler(10, Limits{}).SystemMessage(domain.Corpus{{Title: "t", Summary: "s", Content: "word\nword  \n\n\nrest of it"}})
	if !strings.Contains(msg, "Content sample: word word...") {
		t.Errorf("got %q", msg)
	}
}

func TestUserMessage(t *testing.T) {
	msg := UserMessage("machine learning in agriculture")
	if !strings.HasPrefix(msg, `I'm interested in information related to: "machine learning in agriculture".`) {
		t.Errorf("query not embedded: %q", msg)
	}
	for _, point := range []string{"\n1. ", "\n2. ", "\n3. ", "\n4. ", "\n5. "} {
		if !strings.Contains(msg, point) {
			t.Errorf("missing point %q", point)
		}
	}
	if !strings.Contains(msg, "most relevant document title") {
		t.Error("closing instruction missing")
	}
}

func TestUserMessage_percentInQuery(t *testing.T) {
	msg := UserMessage("growth of 50%d yields")
	if !strings.Contains(msg, `"growth of 50%d yields"`) {
		t.Errorf("query altered: %q", msg)
	}
}

func TestBuild_limits(t *testing.T) {
	corpus := domain.Corpus{
		{Title: "a.pdf", Summary: "a", Content: strings.Repeat("x", 800)},
		{Title: "b.pdf", Summary: "b", Content: strings.Repeat("y", 800)},
	}
	tests := []struct {
		name    string
		limits  Limits
		wantErr error
	}{
		{"unlimited", Limits{}, nil},
		{"documents ok", Limits{MaxDocuments: 2}, nil},
		{"too many documents", Limits{MaxDocuments: 1}, ErrTooManyDocuments},
		{"too large", Limits{MaxChars: 1000}, ErrPromptTooLarge},
		{"fits", Limits{MaxChars: 100000}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewAssembler(0, tt.limits).Build(corpus, "query")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (req.System == "" || req.User == "") {
				t.Error("empty request")
			}
		})
	}
}
