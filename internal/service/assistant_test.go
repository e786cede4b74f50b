package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docqa/internal/domain"
	"docqa/internal/prompt"
)

type stubCompleter struct {
	calls  int
	last   domain.CompletionRequest
	answer string
	err    error
}

func (s *stubCompleter) Complete(_ context.Context, req domain.CompletionRequest) (string, error) {
	s.calls++
	s.last = req
	return s.answer, s.err
}

func TestAnswer_emptyCorpusSkipsCompletion(t *testing.T) {
	c := &stubCompleter{answer: "unused"}
	a := NewAssistant(c, nil, nil)
	got, err := a.Answer(context.Background(), "anything", nil)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got != NoDocumentsMessage {
		t.Errorf("got %q", got)
	}
	if c.calls != 0 {
		t.Errorf("completion calls = %d, want 0", c.calls)
	}
}

func TestAnswer_singleCallWithCorpusInOrder(t *testing.T) {
	c := &stubCompleter{answer: "  verbatim answer\n"}
	a := NewAssistant(c, nil, nil)
	corpus := domain.Corpus{
		{Title: "second.pdf", Summary: "crop yields in drought", Content: "text"},
		{Title: "first.pdf", Summary: "neural networks overview", Content: "text"},
	}
	got, err := a.Answer(context.Background(), "machine learning", corpus)
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got != "  verbatim answer\n" {
		t.Errorf("answer altered: %q", got)
	}
	if c.calls != 1 {
		t.Fatalf("completion calls = %d, want 1", c.calls)
	}
	sys := c.last.System
	i1 := strings.Index(sys, "second.pdf")
	i2 := strings.Index(sys, "crop yields in drought")
	i3 := strings.Index(sys, "first.pdf")
	i4 := strings.Index(sys, "neural networks overview")
	if i1 < 0 || i2 < i1 || i3 < i2 || i4 < i3 {
		t.Errorf("titles and summaries not in corpus order: %q", sys)
	}
	if !strings.Contains(c.last.User, `"machine learning"`) {
		t.Errorf("query missing from user message: %q", c.last.User)
	}
}

func TestAnswer_propagatesCompletionError(t *testing.T) {
	boom := errors.New("rate limited")
	c := &stubCompleter{err: boom}
	a := NewAssistant(c, nil, nil)
	_, err := a.Answer(context.Background(), "q", domain.Corpus{{Title: "a.pdf", Summary: "s"}})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
}

func TestAnswer_promptGate(t *testing.T) {
	c := &stubCompleter{answer: "x"}
	a := NewAssistant(c, prompt.NewAssembler(0, prompt.Limits{MaxDocuments: 1}), nil)
	corpus := domain.Corpus{{Title: "a.pdf"}, {Title: "b.pdf"}}
	_, err := a.Answer(context.Background(), "q", corpus)
	if !errors.Is(err, prompt.ErrTooManyDocuments) {
		t.Fatalf("err = %v", err)
	}
	if c.calls != 0 {
		t.Errorf("completion calls = %d, want 0", c.calls)
	}
}
