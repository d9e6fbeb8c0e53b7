// Package pdf wraps document parsing for line-sheet extraction: opening
// uploaded PDF bytes, plain-text recovery, page rasterization and embedded
// raster object recovery.
package pdf

import (
	"errors"
	"fmt"
	"os"

	"github.com/gen2brain/go-fitz"
)

var (
	// ErrInvalidInput marks input too short to be a PDF. Callers treat this
	// as "nothing to extract", not as a hard failure.
	ErrInvalidInput = errors.New("pdf: input empty or too short")

	// ErrDocumentOpen marks input the engine could not parse.
	ErrDocumentOpen = errors.New("pdf: cannot open document")
)

// MinInputBytes is the smallest input accepted; anything shorter cannot hold
// a PDF header.
const MinInputBytes = 100

// CheckInput validates raw upload bytes before any parsing work.
func CheckInput(data []byte) error {
	if len(data) < MinInputBytes {
		return fmt.Errorf("%w: %d bytes", ErrInvalidInput, len(data))
	}
	return nil
}

// Document is an open PDF backed by a temporary scratch file. The scratch
// file lives for exactly one extraction call and is removed by Close on every
// exit path.
type Document struct {
	doc     *fitz.Document
	tmpPath string
}

// OpenBytes writes data to a scratch file and opens it. Opening through the
// filesystem is more robust than in-memory streams for malformed uploads.
func OpenBytes(data []byte) (*Document, error) {
	tmp, err := os.CreateTemp("", "linesheet-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("pdf: scratch file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("pdf: write scratch file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("pdf: close scratch file: %w", err)
	}

	doc, err := fitz.New(tmpPath)
	if err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("%w: %v", ErrDocumentOpen, err)
	}

	return &Document{doc: doc, tmpPath: tmpPath}, nil
}

// Close releases the document and removes the scratch file.
func (d *Document) Close() error {
	var errs []error

	if d.doc != nil {
		if err := d.doc.Close(); err != nil {
			errs = append(errs, err)
		}
		d.doc = nil
	}

	if d.tmpPath != "" {
		if err := os.Remove(d.tmpPath); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
		d.tmpPath = ""
	}

	return errors.Join(errs...)
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.doc.NumPage()
}

// PageText returns the plain text of a zero-based page.
func (d *Document) PageText(page int) (string, error) {
	text, err := d.doc.Text(page)
	if err != nil {
		return "", fmt.Errorf("pdf: text of page %d: %w", page+1, err)
	}
	return text, nil
}
