package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"docqa/internal/domain"
)

// ErrNotPDF is returned for an upload whose name does not end in .pdf.
var ErrNotPDF = errors.New("upload is not a PDF")

// Upload is an uploaded file blob.
type Upload struct {
	Name string
	Data io.Reader
}

// Stage writes uploads into a new temporary directory under parent (os.TempDir
// when empty) and returns that directory with one source per upload, in order.
// The caller owns the directory and must remove it.
func Stage(parent string, uploads []Upload) (string, []domain.Source, error) {
	for _, up := range uploads {
		if !isPDFName(up.Name) {
			return "", nil, fmt.Errorf("%w: %q", ErrNotPDF, up.Name)
		}
	}
	dir, err := os.MkdirTemp(parent, "docqa-upload-")
	if err != nil {
		return "", nil, fmt.Errorf("create staging dir: %w", err)
	}
	sources := make([]domain.Source, 0, len(uploads))
	for i, up := range uploads {
		title := filepath.Base(up.Name)
		path, err := freePath(dir, title, i)
		if err != nil {
			_ = os.RemoveAll(dir)
			return "", nil, fmt.Errorf("stage %s: %w", title, err)
		}
		if err := writeFile(path, up.Data); err != nil {
			_ = os.RemoveAll(dir)
			return "", nil, fmt.Errorf("stage %s: %w", title, err)
		}
		sources = append(sources, domain.Source{Path: path, Title: title})
	}
	return dir, sources, nil
}

// freePath returns dir/name, or a numbered variant when an earlier upload in
// the batch already took that name.
func freePath(dir, name string, i int) (string, error) {
	path := filepath.Join(dir, name)
	for n := 0; ; n++ {
		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return path, nil
		}
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, fmt.Sprintf("%d-%s", i+n, name))
	}
}

func writeFile(path string, r io.Reader) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
