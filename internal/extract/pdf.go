// Package extract provides fail-soft text extraction from PDF files.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"docqa/internal/domain"
)

// DefaultMaxPages is the number of leading pages read from each PDF.
const DefaultMaxPages = 10

// PDFExtractor reads at most maxPages pages of text from a PDF.
type PDFExtractor struct {
	maxPages int
	logger   *zap.Logger
}

// NewPDFExtractor creates an extractor. A non-positive maxPages selects DefaultMaxPages.
func NewPDFExtractor(maxPages int, logger *zap.Logger) *PDFExtractor {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFExtractor{maxPages: maxPages, logger: logger}
}

// Extract returns the page text of the PDF at path. It never fails: on any
// error the result carries Err and Text holds ErrorPlaceholder(path).
func (e *PDFExtractor) Extract(path string) domain.Extraction {
	res, err := e.read(path)
	if err != nil {
		e.logger.Warn("pdf extraction failed", zap.String("path", path), zap.Error(err))
		return domain.Extraction{Text: ErrorPlaceholder(path), Err: err}
	}
	e.logger.Debug("pdf extracted",
		zap.String("path", path),
		zap.Int("pages", res.Pages),
		zap.Bool("truncated", res.Truncated),
		zap.Int("chars", len(res.Text)),
	)
	return res
}

// ErrorPlaceholder is the text stored for a document that could not be read.
func ErrorPlaceholder(path string) string {
	return fmt.Sprintf("[Error processing %s]", filepath.Base(path))
}

// TruncationNote is appended when a document has more than maxPages pages.
func TruncationNote(maxPages int) string {
	return fmt.Sprintf("\n[Note: Only the first %d pages were processed for brevity]", maxPages)
}

func (e *PDFExtractor) read(path string) (res domain.Extraction, err error) {
	// the pdf package panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			res = domain.Extraction{}
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return res, fmt.Errorf("open PDF: %w", err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	limit := numPages
	if limit > e.maxPages {
		limit = e.maxPages
	}
	var buf strings.Builder
	for i := 1; i <= limit; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return domain.Extraction{}, fmt.Errorf("extract page %d: %w", i, err)
		}
		buf.WriteString(text)
		buf.WriteByte('\n')
	}
	res.Pages = numPages
	if numPages > limit {
		res.Truncated = true
		buf.WriteString(TruncationNote(limit))
	}
	res.Text = buf.String()
	return res, nil
}
