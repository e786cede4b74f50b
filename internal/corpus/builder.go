// Package corpus assembles ingested PDFs into an ordered, summarized Corpus.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"docqa/internal/domain"
	"docqa/internal/textutil"
)

const (
	// DefaultSummaryInput is how many leading characters are handed to the summarizer.
	DefaultSummaryInput = 5000
	// NoContentExtracted is the summary of a document that yielded no text.
	NoContentExtracted = "[No content extracted]"
)

// ErrNoPDFs is returned when a directory scan finds nothing to ingest.
var ErrNoPDFs = errors.New("no PDF files found")

// Builder turns sources into documents one at a time, in input order.
type Builder struct {
	extractor    domain.PDFExtractor
	summarizer   domain.Summarizer
	summaryInput int
	logger       *zap.Logger
}

// NewBuilder wires the extraction and summarization collaborators.
func NewBuilder(extractor domain.PDFExtractor, summarizer domain.Summarizer, summaryInput int, logger *zap.Logger) *Builder {
	if summaryInput <= 0 {
		summaryInput = DefaultSummaryInput
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		extractor:    extractor,
		summarizer:   summarizer,
		summaryInput: summaryInput,
		logger:       logger,
	}
}

// Build extracts and summarizes every source. A source that fails to extract
// still yields a document (with the error placeholder); later sources are unaffected.
func (b *Builder) Build(sources []domain.Source) domain.Corpus {
	corpus := make(domain.Corpus, 0, len(sources))
	for _, src := range sources {
		corpus = append(corpus, b.document(src))
	}
	b.logger.Info("corpus built",
		zap.Int("documents", len(corpus)),
		zap.Int("failures", corpus.Failures()),
	)
	return corpus
}

// Scan builds a corpus from every PDF directly inside dir.
func (b *Builder) Scan(dir string) (domain.Corpus, error) {
	paths, err := ListPDFPaths(dir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoPDFs, dir)
	}
	b.logger.Info("found PDF files", zap.String("dir", dir), zap.Int("count", len(paths)))
	return b.Build(SourcesFromPaths(paths)), nil
}

func (b *Builder) document(src domain.Source) domain.Document {
	title := src.Title
	if title == "" {
		title = filepath.Base(src.Path)
	}
	b.logger.Debug("processing document", zap.String("title", title), zap.String("path", src.Path))

	res := b.extractor.Extract(src.Path)
	doc := domain.Document{
		Title:     title,
		Path:      src.Path,
		Content:   res.Text,
		Pages:     res.Pages,
		Truncated: res.Truncated,
		Err:       res.Err,
	}
	if strings.TrimSpace(res.Text) == "" {
		doc.Summary = NoContentExtracted
	} else {
		doc.Summary = b.summarizer.Summarize(textutil.Head(res.Text, b.summaryInput))
	}
	return doc
}

// ListPDFPaths returns the *.pdf files (case-insensitive) directly inside dir.
// Callers must not rely on the order.
func ListPDFPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !isPDFName(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

// SourcesFromPaths titles each path with its base name.
func SourcesFromPaths(paths []string) []domain.Source {
	out := make([]domain.Source, len(paths))
	for i, p := range paths {
		out[i] = domain.Source{Path: p, Title: filepath.Base(p)}
	}
	return out
}

func isPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}
