package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/outline/model"
)

func TestMemoryDocument(t *testing.T) {
	doc := NewMemory(
		MemoryPage{Lines: []model.Line{
			TextLine("Annual Report", 20, true, 72, 72, 200),
			TextLine("Body text here", 11, false, 72, 110, 300),
		}},
		MemoryPage{Width: 400, Height: 600, Text: "raw text"},
	)

	if got := doc.PageCount(); got != 2 {
		t.Fatalf("PageCount() = %d, want 2", got)
	}

	lines, err := doc.Lines(0)
	if err != nil {
		t.Fatalf("Lines(0) error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("Lines(0) returned %d lines, want 2", len(lines))
	}
	if !lines[0].Bold() {
		t.Error("first line should be bold")
	}

	text, _ := doc.PageText(0)
	if text != "Annual Report\nBody text here" {
		t.Errorf("PageText(0) = %q", text)
	}
	text, _ = doc.PageText(1)
	if text != "raw text" {
		t.Errorf("PageText(1) = %q, want %q", text, "raw text")
	}

	w, h, _ := doc.PageSize(0)
	if w != DefaultPageWidth || h != DefaultPageHeight {
		t.Errorf("PageSize(0) = %v x %v, want default size", w, h)
	}
	w, h, _ = doc.PageSize(1)
	if w != 400 || h != 600 {
		t.Errorf("PageSize(1) = %v x %v, want 400 x 600", w, h)
	}
}

func TestMemoryPageRange(t *testing.T) {
	doc := NewMemory(MemoryPage{})

	for _, page := range []int{-1, 1, 5} {
		if _, err := doc.Lines(page); !errors.Is(err, ErrPageRange) {
			t.Errorf("Lines(%d) error = %v, want ErrPageRange", page, err)
		}
		if _, err := doc.PageText(page); !errors.Is(err, ErrPageRange) {
			t.Errorf("PageText(%d) error = %v, want ErrPageRange", page, err)
		}
	}
}

func TestParseFixture(t *testing.T) {
	data := []byte(`
pages:
  - width: 500
    height: 700
    lines:
      - spans:
          - {text: "1. Introduction", font: Times-Bold, size: 16, bbox: [72, 72, 200, 88]}
      - spans:
          - {text: "Plain", font: Times-Roman, size: 11, bbox: [72, 100, 110, 111]}
          - {text: "words", font: Times-Roman, size: 11, bold: true, bbox: [112, 100, 150, 111]}
`)
	doc, err := ParseFixture(data)
	if err != nil {
		t.Fatalf("ParseFixture() error: %v", err)
	}
	if doc.PageCount() != 1 {
		t.Fatalf("PageCount() = %d, want 1", doc.PageCount())
	}

	lines, _ := doc.Lines(0)
	if got := lines[0].Text(); got != "1. Introduction" {
		t.Errorf("line 0 text = %q", got)
	}
	if !lines[0].Bold() {
		t.Error("line 0 should be bold from its font name")
	}
	if got := lines[1].Text(); got != "Plain words" {
		t.Errorf("line 1 text = %q, want %q", got, "Plain words")
	}
	if lines[1].Spans[1].Flags&model.FlagBold == 0 {
		t.Error("bold: true should set the bold flag")
	}
	if got := lines[0].BBox(); got.Y0 != 72 || got.Y1 != 88 {
		t.Errorf("line 0 bbox = %+v", got)
	}
}

func TestParseFixtureJSON(t *testing.T) {
	data := []byte(`{"pages": [{"lines": [{"spans": [{"text": "Hello world", "size": 12}]}]}]}`)
	doc, err := ParseFixture(data)
	if err != nil {
		t.Fatalf("ParseFixture() error: %v", err)
	}
	text, _ := doc.PageText(0)
	if text != "Hello world" {
		t.Errorf("PageText(0) = %q", text)
	}
}

func TestParseFixtureInvalid(t *testing.T) {
	_, err := ParseFixture([]byte("pages: [unclosed"))
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("error = %v, want ErrCorrupt", err)
	}
}

func TestGroupGlyphs(t *testing.T) {
	// Baselines in PDF space on a 792pt page.
	glyphs := []glyph{
		{Font: "Helvetica", Size: 11, X: 72, Y: 600, W: 20, S: "Body"},
		{Font: "Helvetica-Bold", Size: 16, X: 72, Y: 700, W: 10, S: "1."},
		{Font: "Helvetica-Bold", Size: 16, X: 88, Y: 700.5, W: 80, S: "Introduction"},
		{Font: "Helvetica", Size: 11, X: 95, Y: 600, W: 20, S: "text"},
		{Font: "Helvetica", Size: 11, X: 120, Y: 600, W: 5, S: " "},
	}

	lines := groupGlyphs(glyphs, 792, DefaultPDFConfig())
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	if got := lines[0].Text(); got != "1. Introduction" {
		t.Errorf("line 0 = %q, want %q", got, "1. Introduction")
	}
	if !lines[0].Bold() {
		t.Error("line 0 should be bold")
	}
	if got := lines[0].MaxSize(); got != 16 {
		t.Errorf("line 0 size = %v, want 16", got)
	}
	box := lines[0].BBox()
	if box.Y0 != 792-716 || box.Y1 != 92 {
		t.Errorf("line 0 bbox = %+v, want top-left coordinates", box)
	}

	if got := lines[1].Text(); got != "Body text" {
		t.Errorf("line 1 = %q, want %q", got, "Body text")
	}
	if lines[1].Bold() {
		t.Error("line 1 should not be bold")
	}
}

func TestGroupGlyphsSplitsFontChanges(t *testing.T) {
	glyphs := []glyph{
		{Font: "Times-Bold", Size: 12, X: 72, Y: 500, W: 30, S: "Note"},
		{Font: "Times-Roman", Size: 12, X: 104, Y: 500, W: 60, S: "details"},
	}
	lines := groupGlyphs(glyphs, 792, DefaultPDFConfig())
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if len(lines[0].Spans) != 2 {
		t.Errorf("got %d spans, want 2", len(lines[0].Spans))
	}
	if got := lines[0].Text(); got != "Note details" {
		t.Errorf("text = %q", got)
	}
}

func TestGroupGlyphsEmpty(t *testing.T) {
	if lines := groupGlyphs([]glyph{{S: "  "}}, 792, DefaultPDFConfig()); lines != nil {
		t.Errorf("expected nil lines, got %v", lines)
	}
}

func TestFileOpener(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	content := "pages:\n  - lines:\n      - spans:\n          - {text: Heading, size: 14}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := NewFileOpener().Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer doc.Close()
	if doc.PageCount() != 1 {
		t.Errorf("PageCount() = %d, want 1", doc.PageCount())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFileOpener().Open(ctx, path); !errors.Is(err, context.Canceled) {
		t.Errorf("Open() with cancelled context error = %v, want context.Canceled", err)
	}
}

func TestOpenPDFMissing(t *testing.T) {
	_, err := OpenPDF(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestOpenPDFCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("this is not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := OpenPDF(path)
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("error = %v, want ErrCorrupt", err)
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"a.pdf", true},
		{"a.PDF", true},
		{"a.json", true},
		{"a.yml", true},
		{"a.docx", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsSupported(tt.path); got != tt.want {
			t.Errorf("IsSupported(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
