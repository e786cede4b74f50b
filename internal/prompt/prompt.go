// Package prompt renders the system and user messages sent to the completion endpoint.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/textutil"
)

// DefaultSampleChars is the length of the content excerpt shown per document.
const DefaultSampleChars = 1000

var (
	ErrTooManyDocuments = errors.New("too many documents for one prompt")
	ErrPromptTooLarge   = errors.New("prompt too large")
)

const systemPreamble = "You are a knowledgeable academic research assistant. " +
	"You have access to the following PDF documents:\n"

const systemInstructions = "\n\nHelp users find relevant information based on their interests. " +
	"Identify the most relevant documents from the corpus, and explain why they are relevant. " +
	"Refer to specific content from the documents when possible."

const userTemplate = `I'm interested in information related to: "%s".
Please help me find the most relevant information from the PDF documents, and explain:
1. Which documents are most relevant to my interest and why (2 sentences in new line)
2. How the content of these documents relates to my query
3. Specific insights or findings from these documents that address my query (one sentence in new line)
4. Any connections between different documents that might be valuable (one sentence in new line)
5. Finally, add one simple sentence that tells user the most relevant document title you found (one sentence in new line)
`

// Limits bounds the size of a rendered prompt. Zero disables a limit.
type Limits struct {
	MaxDocuments int
	MaxChars     int
}

// Assembler renders prompts for a corpus.
type Assembler struct {
	sampleChars int
	limits      Limits
}

// NewAssembler creates an assembler. A non-positive sampleChars selects DefaultSampleChars.
func NewAssembler(sampleChars int, limits Limits) *Assembler {
	if sampleChars <= 0 {
		sampleChars = DefaultSampleChars
	}
	return &Assembler{sampleChars: sampleChars, limits: limits}
}

// SystemMessage lists every document's index, title, summary and content sample in corpus order.
func (a *Assembler) SystemMessage(corpus domain.Corpus) string {
	var sb strings.Builder
	sb.WriteString(systemPreamble)
	for i, doc := range corpus {
		fmt.Fprintf(&sb, "Document %d: %s\n", i+1, doc.Title)
		fmt.Fprintf(&sb, "Summary: %s\n\n", doc.Summary)
		if doc.Content != "" {
			sample := textutil.Flatten(textutil.Head(doc.Content, a.sampleChars))
			fmt.Fprintf(&sb, "Content sample: %s...\n\n", sample)
		}
	}
	sb.WriteString(systemInstructions)
	return sb.String()
}

// UserMessage embeds query in the fixed five-point instruction template.
func UserMessage(query string) string {
	return fmt.Sprintf(userTemplate, query)
}

// Build renders both messages and enforces the configured limits.
func (a *Assembler) Build(corpus domain.Corpus, query string) (domain.CompletionRequest, error) {
	if max := a.limits.MaxDocuments; max > 0 && len(corpus) > max {
		return domain.CompletionRequest{}, fmt.Errorf("%w: %d documents, limit %d", ErrTooManyDocuments, len(corpus), max)
	}
	req := domain.CompletionRequest{
		System: a.SystemMessage(corpus),
		User:   UserMessage(query),
	}
	if max := a.limits.MaxChars; max > 0 {
		if size := textutil.Len(req.System) + textutil.Len(req.User); size > max {
			return domain.CompletionRequest{}, fmt.Errorf("%w: %d characters, limit %d", ErrPromptTooLarge, size, max)
		}
	}
	return req, nil
}
