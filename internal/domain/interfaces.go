package domain

import "context"

// Document is one ingested PDF.
type Document struct {
	Title   string
	Path    string
	Content string
	Summary string
	// Pages is the page count reported by the PDF, zero when extraction failed.
	Pages     int
	Truncated bool
	// Err is set when extraction failed; Content then holds the error placeholder.
	Err error
}

// Failed reports whether extraction of this document failed.
func (d Document) Failed() bool { return d.Err != nil }

// Corpus is the ordered set of documents for one session. Order is ingestion
// order and carries no relevance ranking.
type Corpus []Document

// Titles returns the document titles in corpus order.
func (c Corpus) Titles() []string {
	out := make([]string, len(c))
	for i, d := range c {
		out[i] = d.Title
	}
	return out
}

// Failures counts documents whose extraction failed.
func (c Corpus) Failures() int {
	n := 0
	for _, d := range c {
		if d.Failed() {
			n++
		}
	}
	return n
}

// Source resolves to a PDF on disk and the title it is displayed under.
type Source struct {
	Path  string
	Title string
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry of the chat transcript.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Extraction is the outcome of reading text out of a PDF.
type Extraction struct {
	Text      string
	Pages     int
	Truncated bool
	Err       error
}

// OK reports whether extraction succeeded.
func (e Extraction) OK() bool { return e.Err == nil }

// PDFExtractor pulls page text out of a PDF file.
type PDFExtractor interface {
	Extract(path string) Extraction
}

// Summarizer produces a short summary of the provided text.
type Summarizer interface {
	Summarize(text string) string
}

// CompletionRequest is the two-part prompt sent to the completion endpoint.
type CompletionRequest struct {
	System string
	User   string
}

// Completer issues a single chat completion and returns its text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
