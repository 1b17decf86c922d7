package accuracy

import (
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/tsawler/outline/internal/textutil"
	"github.com/tsawler/outline/model"
)

// DetectLanguage returns the name of the first configured language whose
// script pattern matches the text, or the default language.
func (e *Enhancer) DetectLanguage(text string) string {
	lower := strings.ToLower(text)
	for _, lang := range e.cfg.Patterns().Languages {
		if lang.Detect.MatchString(lower) {
			return lang.Name
		}
	}
	return e.cfg.Multilingual.DefaultLanguage
}

// Localize sets the candidate language and quality boost and normalizes
// its text.
func (e *Enhancer) Localize(c *model.Candidate) {
	m := e.cfg.Multilingual
	c.Language = e.DetectLanguage(c.Text)
	c.QualityBoost = e.boost(c.Text, c.Language)

	text := c.Text
	if m.Normalize {
		text = norm.NFC.String(text)
	}
	c.Text = textutil.NormalizeSpace(text)
	c.Length = textutil.Len(c.Text)
}

// boost adds the keyword and numbering boosts of the detected language.
// Numbering patterns are matched after folding full-width digits.
func (e *Enhancer) boost(text, language string) float64 {
	m := e.cfg.Multilingual
	for _, lang := range e.cfg.Patterns().Languages {
		if lang.Name != language {
			continue
		}

		b := 0.0
		if textutil.ContainsAny(text, lang.SectionKeywords) {
			b += m.KeywordBoost
		}
		folded := text
		if m.FoldWidth {
			folded = width.Fold.String(text)
		}
		for _, re := range lang.NumberingPatterns {
			if re.MatchString(folded) {
				b += m.NumberingBoost
				break
			}
		}
		return b
	}
	return 0
}
