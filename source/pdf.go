package source

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/outline/model"
)

// PDFConfig controls how positioned glyphs are assembled into lines.
type PDFConfig struct {
	// RowTolerance is the baseline distance, as a fraction of the font
	// size, within which glyphs share a line (default: 0.5)
	RowTolerance float64

	// WordGap is the horizontal gap, as a fraction of the font size, above
	// which a space is inserted between glyphs (default: 0.25)
	WordGap float64

	// SpanGap is the horizontal gap, as a fraction of the font size, above
	// which glyphs start a new span even in the same font (default: 2.0)
	SpanGap float64

	// SkipPreflight disables the pdfcpu page count check on open.
	SkipPreflight bool

	// Logger receives per-page extraction warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultPDFConfig returns the default glyph grouping configuration.
func DefaultPDFConfig() PDFConfig {
	return PDFConfig{
		RowTolerance: 0.5,
		WordGap:      0.25,
		SpanGap:      2.0,
	}
}

// PDF is a Document backed by a PDF file.
type PDF struct {
	file   *os.File
	reader *pdf.Reader
	config PDFConfig
	logger *slog.Logger
}

// OpenPDF opens a PDF file with the default configuration.
func OpenPDF(path string) (*PDF, error) {
	return OpenPDFWithConfig(path, DefaultPDFConfig())
}

// OpenPDFWithConfig opens a PDF file.
func OpenPDFWithConfig(path string, config PDFConfig) (*PDF, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if !config.SkipPreflight {
		if _, err := Preflight(path); err != nil {
			return nil, err
		}
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, fmt.Errorf("%w: %s", ErrEncrypted, path)
		}
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	return &PDF{file: f, reader: r, config: config, logger: logger}, nil
}

// PageCount returns the number of pages.
func (d *PDF) PageCount() int {
	return d.reader.NumPage()
}

// Lines returns the text lines of a page, top to bottom.
func (d *PDF) Lines(page int) ([]model.Line, error) {
	if err := checkPage(page, d.PageCount()); err != nil {
		return nil, err
	}
	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return nil, nil
	}

	texts, err := pageTexts(p)
	if err != nil {
		d.logger.Debug("page content unreadable", "page", page, "error", err)
		return nil, err
	}

	_, height := mediaBox(p)
	glyphs := make([]glyph, 0, len(texts))
	for _, t := range texts {
		glyphs = append(glyphs, glyph{Font: t.Font, Size: t.FontSize, X: t.X, Y: t.Y, W: t.W, S: t.S})
	}
	return groupGlyphs(glyphs, height, d.config), nil
}

// PageText returns the page text, one line per row.
func (d *PDF) PageText(page int) (string, error) {
	lines, err := d.Lines(page)
	if err != nil {
		return "", err
	}
	return joinLines(lines), nil
}

// PageSize returns the MediaBox size of a page in points.
func (d *PDF) PageSize(page int) (float64, float64, error) {
	if err := checkPage(page, d.PageCount()); err != nil {
		return 0, 0, err
	}
	w, h := mediaBox(d.reader.Page(page + 1))
	return w, h, nil
}

// Close releases the underlying file.
func (d *PDF) Close() error {
	if d.file == nil {
		return nil
	}
	return d.file.Close()
}

// pageTexts reads the positioned glyphs of a page. Malformed content
// streams make the reader panic; that is reported as ErrCorrupt.
func pageTexts(p pdf.Page) (texts []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			texts = nil
			err = fmt.Errorf("%w: content stream: %v", ErrCorrupt, r)
		}
	}()
	return p.Content().Text, nil
}

// mediaBox returns the page size, walking up the page tree for inherited
// boxes and falling back to US Letter.
func mediaBox(p pdf.Page) (width, height float64) {
	defer func() {
		if r := recover(); r != nil {
			width, height = DefaultPageWidth, DefaultPageHeight
		}
	}()

	v := p.V
	for i := 0; i < 10 && !v.IsNull(); i++ {
		if w, h, ok := parseBox(v.Key("MediaBox")); ok {
			return w, h
		}
		v = v.Key("Parent")
	}
	return DefaultPageWidth, DefaultPageHeight
}

func parseBox(box pdf.Value) (float64, float64, bool) {
	if box.IsNull() || box.Kind() != pdf.Array || box.Len() < 4 {
		return 0, 0, false
	}
	var c [4]float64
	for i := range c {
		v := box.Index(i)
		switch v.Kind() {
		case pdf.Integer:
			c[i] = float64(v.Int64())
		case pdf.Real:
			c[i] = v.Float64()
		default:
			return 0, 0, false
		}
	}
	w, h := math.Abs(c[2]-c[0]), math.Abs(c[3]-c[1])
	if w == 0 || h == 0 {
		return 0, 0, false
	}
	return w, h, true
}

// glyph is a positioned text run as reported by the PDF reader. X and Y are
// the baseline origin in PDF user space (origin bottom-left).
type glyph struct {
	Font string
	Size float64
	X, Y float64
	W    float64
	S    string
}

// groupGlyphs assembles glyphs into lines of spans in top-left page
// coordinates. Glyphs whose baselines are within RowTolerance of a row's
// first glyph share a line; within a line, consecutive glyphs with the same
// font and size form one span, with spaces inserted at word gaps.
func groupGlyphs(glyphs []glyph, pageHeight float64, config PDFConfig) []model.Line {
	visible := make([]glyph, 0, len(glyphs))
	for _, g := range glyphs {
		if strings.TrimSpace(g.S) != "" {
			visible = append(visible, g)
		}
	}
	if len(visible) == 0 {
		return nil
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Y > visible[j].Y
	})

	var rows [][]glyph
	var row []glyph
	for _, g := range visible {
		if len(row) > 0 {
			tol := math.Max(1, config.RowTolerance*math.Max(row[0].Size, g.Size))
			if math.Abs(g.Y-row[0].Y) > tol {
				rows = append(rows, row)
				row = nil
			}
		}
		row = append(row, g)
	}
	rows = append(rows, row)

	lines := make([]model.Line, 0, len(rows))
	for _, r := range rows {
		sort.SliceStable(r, func(i, j int) bool {
			return r[i].X < r[j].X
		})
		lines = append(lines, model.Line{Spans: buildSpans(r, pageHeight, config)})
	}
	return lines
}

func buildSpans(row []glyph, pageHeight float64, config PDFConfig) []model.Span {
	var spans []model.Span
	var sb strings.Builder
	var cur model.Span
	var prev glyph

	flush := func() {
		if sb.Len() == 0 {
			return
		}
		cur.Text = sb.String()
		if model.IsBoldFontName(cur.FontName) {
			cur.Flags |= model.FlagBold
		}
		spans = append(spans, cur)
		sb.Reset()
	}

	for i, g := range row {
		if i > 0 {
			gap := g.X - (prev.X + prev.W)
			sameStyle := g.Font == prev.Font && math.Abs(g.Size-prev.Size) < 0.5
			if sameStyle && gap <= config.SpanGap*g.Size {
				if gap > config.WordGap*g.Size {
					sb.WriteByte(' ')
				}
				sb.WriteString(g.S)
				cur.BBox.X1 = math.Max(cur.BBox.X1, g.X+g.W)
				prev = g
				continue
			}
			flush()
		}
		cur = model.Span{
			FontName: g.Font,
			FontSize: g.Size,
			BBox: model.BBox{
				X0: g.X,
				Y0: pageHeight - (g.Y + g.Size),
				X1: g.X + g.W,
				Y1: pageHeight - g.Y,
			},
		}
		sb.WriteString(g.S)
		prev = g
	}
	flush()
	return spans
}
