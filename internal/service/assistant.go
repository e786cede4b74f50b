package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"docqa/internal/domain"
	"docqa/internal/prompt"
)

// NoDocumentsMessage is the answer given when nothing has been ingested yet.
const NoDocumentsMessage = "No PDF documents were processed. Please upload or load PDF documents before asking questions."

// Assistant answers questions about a corpus with one completion call per question.
type Assistant struct {
	completer domain.Completer
	prompts   *prompt.Assembler
	logger    *zap.Logger
}

// NewAssistant wires the completion collaborator and the prompt assembler.
func NewAssistant(completer domain.Completer, prompts *prompt.Assembler, logger *zap.Logger) *Assistant {
	if prompts == nil {
		prompts = prompt.NewAssembler(prompt.DefaultSampleChars, prompt.Limits{})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assistant{completer: completer, prompts: prompts, logger: logger}
}

// Answer returns the completion text for query over corpus. An empty corpus
// gets NoDocumentsMessage without contacting the endpoint.
func (a *Assistant) Answer(ctx context.Context, query string, corpus domain.Corpus) (string, error) {
	if len(corpus) == 0 {
		return NoDocumentsMessage, nil
	}
	req, err := a.prompts.Build(corpus, query)
	if err != nil {
		return "", err
	}
	a.logger.Debug("asking",
		zap.Int("documents", len(corpus)),
		zap.Int("system_len", len(req.System)),
	)
	answer, err := a.completer.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("answer: %w", err)
	}
	return answer, nil
}
