package model

import "strings"

// FlagBold is the span flag bit set for bold text.
const FlagBold = 1 << 4

// Span is a run of text drawn with a single font at a single size.
type Span struct {
	Text     string
	FontName string
	FontSize float64
	Flags    int
	BBox     BBox
}

// Bold reports whether the span is bold, either from its flags or from a
// weight marker in the font name.
func (s Span) Bold() bool {
	if s.Flags&FlagBold != 0 {
		return true
	}
	return IsBoldFontName(s.FontName)
}

// IsBoldFontName checks a font name for bold weight markers such as
// "Helvetica-Bold" or "Inter-SemiBold".
func IsBoldFontName(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "bold") ||
		strings.Contains(lower, "black") ||
		strings.Contains(lower, "heavy") ||
		strings.Contains(lower, "semibold") ||
		strings.Contains(lower, "demibold")
}

// Line is a sequence of spans sharing a baseline.
type Line struct {
	Spans []Span
}

// Text returns the stripped, non-empty span texts joined by single spaces.
func (l Line) Text() string {
	var sb strings.Builder
	for _, s := range l.Spans {
		t := strings.TrimSpace(s.Text)
		if t == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t)
	}
	return sb.String()
}

// MaxSize returns the largest font size among spans with visible text.
func (l Line) MaxSize() float64 {
	var max float64
	for _, s := range l.Spans {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		if s.FontSize > max {
			max = s.FontSize
		}
	}
	return max
}

// Bold reports whether any span with visible text is bold.
func (l Line) Bold() bool {
	for _, s := range l.Spans {
		if strings.TrimSpace(s.Text) != "" && s.Bold() {
			return true
		}
	}
	return false
}

// BBox returns the box of the first span with visible text.
func (l Line) BBox() BBox {
	for _, s := range l.Spans {
		if strings.TrimSpace(s.Text) != "" {
			return s.BBox
		}
	}
	return BBox{}
}

// Fragment is a reconstructed block of text on a single page.
type Fragment struct {
	Text     string
	Page     int // 1-based
	FontSize float64
	Bold     bool
	BBox     BBox
	Length   int // rune count of Text
}

// Y returns the vertical position used for top-to-bottom ordering.
func (f Fragment) Y() float64 {
	return f.BBox.Y0
}
