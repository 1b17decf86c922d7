// Package source provides the page and text layer the outline pipeline reads
// from.
//
// A [Document] yields, per page, the positioned lines of text with their
// span-level font data, the raw page text and the page size. Two
// implementations are provided: [PDF], which reads PDF files through
// github.com/ledongthuc/pdf, and [Memory], an in-memory document used for
// tests and pre-extracted layout fixtures.
package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tsawler/outline/model"
)

// Sentinel errors returned by document sources. Callers compare with
// errors.Is; the returned errors wrap these with detail.
var (
	ErrCorrupt   = errors.New("corrupt or unreadable document")
	ErrEncrypted = errors.New("document is encrypted")
	ErrPageRange = errors.New("page index out of range")
)

// Document is a paginated document. Page indexes are 0-based.
type Document interface {
	PageCount() int
	Lines(page int) ([]model.Line, error)
	PageText(page int) (string, error)
	PageSize(page int) (width, height float64, err error)
	Close() error
}

// Opener opens a document from a path.
type Opener interface {
	Open(ctx context.Context, path string) (Document, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(ctx context.Context, path string) (Document, error)

// Open calls f(ctx, path).
func (f OpenerFunc) Open(ctx context.Context, path string) (Document, error) {
	return f(ctx, path)
}

// FileOpener opens documents by file extension: .json, .yaml and .yml files
// are loaded as layout fixtures, everything else is read as PDF.
type FileOpener struct {
	PDF PDFConfig
}

// NewFileOpener returns a FileOpener with the default PDF configuration.
func NewFileOpener() *FileOpener {
	return &FileOpener{PDF: DefaultPDFConfig()}
}

// Open implements Opener.
func (o *FileOpener) Open(ctx context.Context, path string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if IsFixture(path) {
		doc, err := LoadFixture(path)
		if err != nil {
			return nil, err
		}
		return doc, nil
	}
	doc, err := OpenPDFWithConfig(path, o.PDF)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// IsFixture reports whether path names a layout fixture file.
func IsFixture(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// IsSupported reports whether the opener can read the file at path.
func IsSupported(path string) bool {
	return IsFixture(path) || strings.EqualFold(filepath.Ext(path), ".pdf")
}

func checkPage(page, count int) error {
	if page < 0 || page >= count {
		return fmt.Errorf("%w: page %d of %d", ErrPageRange, page, count)
	}
	return nil
}

// joinLines returns the line texts separated by newlines.
func joinLines(lines []model.Line) string {
	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.Text())
	}
	return sb.String()
}
