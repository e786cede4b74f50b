// Package testutil generates PDF fixtures for tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// PDFBytes renders one page per entry of pages, each holding that entry as a single line.
func PDFBytes(t testing.TB, pages ...string) []byte {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 12)
	for _, text := range pages {
		doc.AddPage()
		doc.Cell(0, 10, text)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	return buf.Bytes()
}

// WritePDF writes a PDF with the given page texts to path.
func WritePDF(t testing.TB, path string, pages ...string) {
	t.Helper()
	if err := os.WriteFile(path, PDFBytes(t, pages...), 0o600); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
}

// MarkerPages returns n page texts "MarkerNN <suffix>".
func MarkerPages(n int, suffix string) []string {
	pages := make([]string, n)
	for i := range pages {
		pages[i] = fmt.Sprintf("Marker%02d %s", i+1, suffix)
	}
	return pages
}
