package tui

import (
	"context"

	"docqa/internal/domain"
	"docqa/internal/service"
	"docqa/internal/session"
)

// ChatPort is the TUI-facing view of one chat session.
type ChatPort interface {
	Ask(ctx context.Context, query string) (string, error)
	// Load rebuilds the corpus from every PDF in dir and returns its size.
	Load(dir string) (int, error)
	Corpus() domain.Corpus
	History() []domain.Turn
}

type sessionPort struct {
	sess      *session.Session
	assistant session.Answerer
	library   *service.Library
}

// Connect exposes a session to the TUI.
func Connect(sess *session.Session, assistant session.Answerer, library *service.Library) ChatPort {
	return &sessionPort{sess: sess, assistant: assistant, library: library}
}

func (p *sessionPort) Ask(ctx context.Context, query string) (string, error) {
	return p.sess.Ask(ctx, p.assistant, query)
}

func (p *sessionPort) Load(dir string) (int, error) {
	batch, err := p.library.Scan(dir)
	if err != nil {
		return 0, err
	}
	if err := p.sess.ReplaceCorpus(batch.Corpus, batch.StagingDir); err != nil {
		return 0, err
	}
	return len(batch.Corpus), nil
}

func (p *sessionPort) Corpus() domain.Corpus { return p.sess.Corpus() }

func (p *sessionPort) History() []domain.Turn { return p.sess.History() }
