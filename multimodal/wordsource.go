package multimodal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/tsawler/outline/ocr"
	"github.com/tsawler/outline/source"
)

// WordSource produces the classifier words of a page. img is the rendered
// page, or nil when no renderer is configured.
type WordSource interface {
	Words(ctx context.Context, doc source.Document, page int, img image.Image) ([]Word, error)
}

// TextLayer takes words from the document text layer.
type TextLayer struct {
	Scale int
}

func (s TextLayer) Words(_ context.Context, doc source.Document, page int, _ image.Image) ([]Word, error) {
	lines, err := doc.Lines(page)
	if err != nil {
		return nil, err
	}
	w, h, err := doc.PageSize(page)
	if err != nil {
		return nil, err
	}
	return WordsFromLines(lines, w, h, s.Scale), nil
}

// ErrNoImage is returned by image based word sources when the page was not
// rendered.
var ErrNoImage = errors.New("multimodal: page image not available")

// OCRWords recognises words in the rendered page image. Calls are
// serialised because the underlying Tesseract client is not safe for
// concurrent use.
type OCRWords struct {
	mu     sync.Mutex
	client *ocr.Client
	scale  int
}

// NewOCRWords creates an OCR word source. It fails when the binary was
// built without the ocr tag.
func NewOCRWords(language string, scale int) (*OCRWords, error) {
	client, err := ocr.New()
	if err != nil {
		return nil, err
	}
	if err := client.SetLanguage(language); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting OCR language %q: %w", language, err)
	}
	if err := client.SetPageSegMode(ocr.PSMSparseText); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting OCR page segmentation: %w", err)
	}
	return &OCRWords{client: client, scale: scale}, nil
}

// Close releases the OCR client.
func (s *OCRWords) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client.Close()
}

func (s *OCRWords) Words(ctx context.Context, _ source.Document, _ int, img image.Image) ([]Word, error) {
	if img == nil {
		return nil, ErrNoImage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding page image: %w", err)
	}

	s.mu.Lock()
	recognised, err := s.client.RecognizeWords(buf.Bytes())
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	words := make([]Word, len(recognised))
	for i, r := range recognised {
		box := r.Box.Sub(b.Min)
		words[i] = Word{
			Text: r.Text,
			Box: [4]int{
				normalize(float64(box.Min.X), w, s.scale),
				normalize(float64(box.Min.Y), h, s.scale),
				normalize(float64(box.Max.X), w, s.scale),
				normalize(float64(box.Max.Y), h, s.scale),
			},
		}
	}
	return words, nil
}
