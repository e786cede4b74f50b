// Package service orchestrates ingestion and question answering.
package service

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"docqa/internal/corpus"
	"docqa/internal/domain"
)

// ProcessedMessage reports the outcome of an ingestion batch.
func ProcessedMessage(n int) string {
	return fmt.Sprintf("Processed %d PDF documents!", n)
}

// Batch is the result of one ingestion. StagingDir is set for uploads and is
// owned by whoever keeps the corpus.
type Batch struct {
	Corpus     domain.Corpus
	StagingDir string
}

// Library builds corpora from a directory, explicit files or uploaded blobs.
type Library struct {
	builder     *corpus.Builder
	stagingRoot string
	logger      *zap.Logger
}

// NewLibrary creates a library. Uploads are staged under stagingRoot (the
// system temp dir when empty).
func NewLibrary(builder *corpus.Builder, stagingRoot string, logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Library{builder: builder, stagingRoot: stagingRoot, logger: logger}
}

// Scan builds a corpus from every PDF in dir.
func (l *Library) Scan(dir string) (Batch, error) {
	c, err := l.builder.Scan(dir)
	if err != nil {
		return Batch{}, err
	}
	return Batch{Corpus: c}, nil
}

// Files builds a corpus from explicit paths, keeping their order.
func (l *Library) Files(paths []string) (Batch, error) {
	if len(paths) == 0 {
		return Batch{}, corpus.ErrNoPDFs
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return Batch{}, fmt.Errorf("open %s: %w", p, err)
		}
	}
	return Batch{Corpus: l.builder.Build(corpus.SourcesFromPaths(paths))}, nil
}

// Upload stages uploads into a fresh directory and builds a corpus titled by
// the uploaded file names.
func (l *Library) Upload(uploads []corpus.Upload) (Batch, error) {
	if len(uploads) == 0 {
		return Batch{}, corpus.ErrNoPDFs
	}
	dir, sources, err := corpus.Stage(l.stagingRoot, uploads)
	if err != nil {
		return Batch{}, err
	}
	l.logger.Debug("uploads staged", zap.String("dir", dir), zap.Int("count", len(sources)))
	return Batch{Corpus: l.builder.Build(sources), StagingDir: dir}, nil
}
