package source

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/outline/model"
)

// Default page size in points (US Letter).
const (
	DefaultPageWidth  = 612.0
	DefaultPageHeight = 792.0
)

// MemoryPage is a single page of an in-memory document.
type MemoryPage struct {
	Width  float64
	Height float64
	Lines  []model.Line

	// Text is the raw page text. When empty, the line texts joined by
	// newlines are used.
	Text string
}

// Memory is a Document held entirely in memory.
type Memory struct {
	pages []MemoryPage
}

// NewMemory creates an in-memory document from pages. Pages without a size
// get the default page size.
func NewMemory(pages ...MemoryPage) *Memory {
	m := &Memory{pages: make([]MemoryPage, len(pages))}
	for i, p := range pages {
		if p.Width <= 0 {
			p.Width = DefaultPageWidth
		}
		if p.Height <= 0 {
			p.Height = DefaultPageHeight
		}
		m.pages[i] = p
	}
	return m
}

// PageCount returns the number of pages.
func (m *Memory) PageCount() int {
	return len(m.pages)
}

// Lines returns the lines of a page.
func (m *Memory) Lines(page int) ([]model.Line, error) {
	if err := checkPage(page, len(m.pages)); err != nil {
		return nil, err
	}
	return m.pages[page].Lines, nil
}

// PageText returns the raw text of a page.
func (m *Memory) PageText(page int) (string, error) {
	if err := checkPage(page, len(m.pages)); err != nil {
		return "", err
	}
	p := m.pages[page]
	if p.Text != "" {
		return p.Text, nil
	}
	return joinLines(p.Lines), nil
}

// PageSize returns the page size in points.
func (m *Memory) PageSize(page int) (float64, float64, error) {
	if err := checkPage(page, len(m.pages)); err != nil {
		return 0, 0, err
	}
	return m.pages[page].Width, m.pages[page].Height, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// TextLine builds a single-span line. The box is given as origin and size in
// top-left page coordinates.
func TextLine(text string, size float64, bold bool, x, y, width float64) model.Line {
	span := model.Span{
		Text:     text,
		FontName: "Helvetica",
		FontSize: size,
		BBox:     model.NewBBox(x, y, width, size),
	}
	if bold {
		span.FontName = "Helvetica-Bold"
		span.Flags = model.FlagBold
	}
	return model.Line{Spans: []model.Span{span}}
}

// Fixture file layout. YAML is a superset of JSON, so one decoder reads
// both formats.
type fixture struct {
	Pages []fixturePage `yaml:"pages"`
}

type fixturePage struct {
	Width  float64       `yaml:"width"`
	Height float64       `yaml:"height"`
	Text   string        `yaml:"text"`
	Lines  []fixtureLine `yaml:"lines"`
}

type fixtureLine struct {
	Spans []fixtureSpan `yaml:"spans"`
}

type fixtureSpan struct {
	Text  string     `yaml:"text"`
	Font  string     `yaml:"font"`
	Size  float64    `yaml:"size"`
	Flags int        `yaml:"flags"`
	Bold  bool       `yaml:"bold"`
	BBox  [4]float64 `yaml:"bbox"`
}

// LoadFixture reads a layout fixture file (JSON or YAML) into a Memory
// document.
func LoadFixture(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes a layout fixture.
//
// The format is a list of pages, each with an optional size and raw text
// and a list of lines made of spans:
//
//	pages:
//	  - width: 612
//	    height: 792
//	    lines:
//	      - spans:
//	          - {text: "1. Introduction", font: Helvetica-Bold, size: 16, bbox: [72, 72, 200, 88]}
func ParseFixture(data []byte) (*Memory, error) {
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("%w: decode fixture: %v", ErrCorrupt, err)
	}

	pages := make([]MemoryPage, 0, len(fx.Pages))
	for _, fp := range fx.Pages {
		page := MemoryPage{Width: fp.Width, Height: fp.Height, Text: fp.Text}
		for _, fl := range fp.Lines {
			var line model.Line
			for _, fs := range fl.Spans {
				flags := fs.Flags
				if fs.Bold {
					flags |= model.FlagBold
				}
				line.Spans = append(line.Spans, model.Span{
					Text:     fs.Text,
					FontName: fs.Font,
					FontSize: fs.Size,
					Flags:    flags,
					BBox:     model.BBox{X0: fs.BBox[0], Y0: fs.BBox[1], X1: fs.BBox[2], Y1: fs.BBox[3]},
				})
			}
			page.Lines = append(page.Lines, line)
		}
		pages = append(pages, page)
	}
	return NewMemory(pages...), nil
}
