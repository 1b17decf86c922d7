package title

import (
	"sort"
	"strings"
	"unicode"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/internal/textutil"
	"github.com/tsawler/outline/model"
)

// between reports whether n lies strictly between lo and hi.
func between(n, lo, hi int) bool {
	return n > lo && n < hi
}

// FormTitle picks the first line of a form document that names the form.
type FormTitle struct {
	Config *config.Config
}

func (FormTitle) Name() string { return "form" }

func (s FormTitle) Extract(page Page, profile *model.DocumentProfile) string {
	if profile.DocumentType() != model.DocumentForm {
		return ""
	}
	t := s.Config.Title
	form := s.Config.DocumentTypes.Form
	numbered := s.Config.Patterns().NumberedLine

	for _, line := range page.Lines[:min(t.FormLines, len(page.Lines))] {
		lower := strings.ToLower(line)
		if between(textutil.Len(line), t.FormMinLength, t.FormMaxLength) &&
			textutil.ContainsAny(lower, form.TitleKeywords) &&
			!textutil.ContainsAny(lower, form.AvoidKeywords) &&
			!strings.HasSuffix(line, ":") &&
			!numbered.MatchString(line) {
			return line
		}
	}
	return ""
}

// FontDominance picks the first acceptable run among the largest font
// sizes on the page.
type FontDominance struct {
	Config *config.Config
}

func (FontDominance) Name() string { return "font" }

func (s FontDominance) Extract(page Page, _ *model.DocumentProfile) string {
	t := s.Config.Title
	bySize := make(map[float64][]string)
	var sizes []float64
	for _, span := range page.Spans {
		text := strings.TrimSpace(span.Text)
		if textutil.Len(text) <= 1 {
			continue
		}
		if _, ok := bySize[span.FontSize]; !ok {
			sizes = append(sizes, span.FontSize)
		}
		bySize[span.FontSize] = append(bySize[span.FontSize], text)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))

	for _, size := range sizes[:min(t.FontSizes, len(sizes))] {
		for _, text := range bySize[size] {
			if between(textutil.Len(text), t.FontMinLength, t.FontMaxLength) && s.acceptable(text) {
				return text
			}
		}
	}
	return ""
}

func (s FontDominance) acceptable(text string) bool {
	t := s.Config.Title
	return !textutil.ContainsAny(strings.ToLower(text), s.Config.Filtering.AvoidGeneral) &&
		!s.Config.Patterns().Constant.MatchString(text) &&
		strings.Count(text, "_") <= t.MaxUnderscores &&
		strings.Count(text, "-") <= t.MaxDashes
}

// Generic finds a title-like line and extends it with the continuation
// lines that follow it.
type Generic struct {
	Config *config.Config
}

func (Generic) Name() string { return "generic" }

func (s Generic) Extract(page Page, _ *model.DocumentProfile) string {
	t := s.Config.Title
	lines := page.Lines
	for i := 0; i < min(t.GenericLines, len(lines)); i++ {
		line := lines[i]
		if !between(textutil.Len(line), t.GenericMinLength, t.GenericMaxLength) || !s.titleLike(line) {
			continue
		}

		full := line
		for j := i + 1; j < min(i+1+t.ContinuationLines, len(lines)); j++ {
			next := lines[j]
			if !between(textutil.Len(next), t.ContinuationMin, t.ContinuationMax) || !s.continuation(next) {
				break
			}
			full += " " + next
		}
		if textutil.Len(full) > t.MinCombinedLength {
			return full
		}
	}
	return ""
}

// titleLike requires mixed case, a moderate word count and few dots or
// underscores.
func (s Generic) titleLike(text string) bool {
	t := s.Config.Title
	words := len(strings.Fields(text))
	return textutil.HasUpper(text) && textutil.HasLower(text) &&
		words >= t.MinWords && words <= t.MaxWords &&
		!textutil.HasAnyPrefix(strings.ToLower(text), t.TitleAvoidPrefixes) &&
		strings.Count(text, ".") <= t.MaxDots &&
		strings.Count(text, "_") <= t.MaxUnderscores
}

func (s Generic) continuation(text string) bool {
	t := s.Config.Title
	for _, r := range []rune(textutil.Prefix(text, 3)) {
		if unicode.IsDigit(r) {
			return false
		}
	}
	return !textutil.HasAnyPrefix(strings.ToLower(text), t.ContinuationPrefixes) &&
		strings.Count(text, ".") <= t.ContinuationMaxDots
}

// Fallback picks the first substantial line that is not document metadata
// or a separator.
type Fallback struct {
	Config *config.Config
}

func (Fallback) Name() string { return "fallback" }

func (s Fallback) Extract(page Page, _ *model.DocumentProfile) string {
	t := s.Config.Title
	for _, line := range page.Lines[:min(t.FallbackLines, len(page.Lines))] {
		if between(textutil.Len(line), t.FallbackMinLength, t.FallbackMaxLength) &&
			!textutil.ContainsAny(strings.ToLower(line), s.Config.Filtering.AvoidMetadata) &&
			strings.Count(line, "-") <= t.MaxDashes {
			return line
		}
	}
	return ""
}
