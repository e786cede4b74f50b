// Package session holds the per-conversation state: the active corpus, the
// chat transcript and any staged uploads.
package session

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"docqa/internal/domain"
)

// ErrClosed is returned when a closed session is given a new corpus.
var ErrClosed = errors.New("session closed")

// Answerer answers a question over a corpus.
type Answerer interface {
	Answer(ctx context.Context, query string, corpus domain.Corpus) (string, error)
}

// Session is one conversation. Its corpus is replaced wholesale on every
// ingestion and its history only grows.
type Session struct {
	id      string
	created time.Time

	// ask serializes questions so turns stay paired.
	ask sync.Mutex

	mu         sync.RWMutex
	corpus     domain.Corpus
	history    []domain.Turn
	stagingDir string
	closed     bool
}

// New creates an empty session with a random id.
func New() *Session {
	return &Session{id: uuid.NewString(), created: time.Now()}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Created() time.Time { return s.created }

// Corpus returns the active corpus.
func (s *Session) Corpus() domain.Corpus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(domain.Corpus(nil), s.corpus...)
}

// History returns a copy of the transcript.
func (s *Session) History() []domain.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Turn(nil), s.history...)
}

// ReplaceCorpus swaps in a freshly built corpus. stagingDir, if set, is the
// directory holding the corpus files; the previous one is removed. A closed
// session rejects the corpus and removes stagingDir.
func (s *Session) ReplaceCorpus(c domain.Corpus, stagingDir string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if stagingDir != "" {
			_ = os.RemoveAll(stagingDir)
		}
		return ErrClosed
	}
	old := s.stagingDir
	s.corpus = c
	s.stagingDir = stagingDir
	s.mu.Unlock()
	if old != "" && old != stagingDir {
		return os.RemoveAll(old)
	}
	return nil
}

// Ask records the question, asks a, and records the reply. When a fails no
// reply is recorded and the error is returned.
func (s *Session) Ask(ctx context.Context, a Answerer, query string) (string, error) {
	s.ask.Lock()
	defer s.ask.Unlock()

	s.mu.Lock()
	s.history = append(s.history, domain.Turn{Role: domain.RoleUser, Text: query})
	corpus := s.corpus
	s.mu.Unlock()

	answer, err := a.Answer(ctx, query, corpus)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.history = append(s.history, domain.Turn{Role: domain.RoleAssistant, Text: answer})
	s.mu.Unlock()
	return answer, nil
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Close drops the corpus and removes staged uploads. It is safe to call twice.
func (s *Session) Close() error {
	s.mu.Lock()
	dir := s.stagingDir
	s.stagingDir = ""
	s.corpus = nil
	s.closed = true
	s.mu.Unlock()
	if dir == "" {
		return nil
	}
	return os.RemoveAll(dir)
}
