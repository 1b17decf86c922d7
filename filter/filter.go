// Package filter removes noise, duplicates and document-type-inappropriate
// text from the heading candidates.
package filter

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/internal/textutil"
	"github.com/tsawler/outline/model"
)

// Reason names the rule that rejected a candidate.
type Reason string

// Rejection reasons, in evaluation order.
const (
	Keep          Reason = ""
	Duplicate     Reason = "duplicate"
	Noise         Reason = "noise"
	Unlikely      Reason = "unlikely heading"
	TooShort      Reason = "too short"
	Fragmented    Reason = "fragmented words"
	DocumentType  Reason = "document type"
	BadStructure  Reason = "structure"
	Repetitive    Reason = "repetitive"
	NotHeadingish Reason = "not heading-like"
)

// Filter applies the candidate rules.
type Filter struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a filter. A nil logger uses slog.Default().
func New(cfg *config.Config, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Filter{cfg: cfg, logger: logger}
}

// Apply returns the candidates that pass every rule, in input order. Each
// rule sees only the candidates kept so far, so applying the filter to its
// own output returns the same list.
func (f *Filter) Apply(candidates []*model.Candidate, profile *model.DocumentProfile) []*model.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	docType := profile.DocumentType()
	var kept []*model.Candidate
	var seen []string
	seenSet := make(map[string]struct{})

	for _, c := range candidates {
		text := strings.TrimSpace(c.Text)
		reason := f.check(text, docType, seen, seenSet)
		if reason != Keep {
			f.logger.Debug("filter: candidate dropped", "text", text, "page", c.Page, "reason", string(reason))
			continue
		}
		kept = append(kept, c)
		seen = append(seen, text)
		seenSet[text] = struct{}{}
	}
	f.logger.Debug("filter: candidates kept", "in", len(candidates), "out", len(kept))
	return kept
}

// Check returns the reason a standalone text would be rejected for the
// given document type, or Keep.
func (f *Filter) Check(text string, docType model.DocumentType) Reason {
	return f.check(strings.TrimSpace(text), docType, nil, nil)
}

func (f *Filter) check(text string, docType model.DocumentType, seen []string, seenSet map[string]struct{}) Reason {
	if _, dup := seenSet[text]; dup {
		return Duplicate
	}
	if f.isNoise(text) {
		return Noise
	}
	if f.isUnlikely(text) {
		return Unlikely
	}
	if textutil.Len(text) < f.cfg.TextLimits.MinCandidateLength {
		return TooShort
	}
	if f.fragmented(text) {
		return Fragmented
	}
	if !f.passesDocumentType(text, docType) {
		return DocumentType
	}
	if !f.goodStructure(text) {
		return BadStructure
	}
	if f.repetitive(text, seen) {
		return Repetitive
	}
	if !f.likelyHeading(text) {
		return NotHeadingish
	}
	return Keep
}

func (f *Filter) isNoise(text string) bool {
	for _, re := range f.cfg.Patterns().Noise {
		if re.MatchString(text) {
			return true
		}
	}

	fc := f.cfg.Filtering
	n := textutil.Len(text)
	if n < fc.MinUniqueChars {
		return true
	}
	if float64(strings.Count(text, " "))/float64(max(1, n)) > fc.MaxSpaceRatio {
		return true
	}
	return textutil.UniqueRunes(text) < fc.MinUniqueChars
}

func (f *Filter) isUnlikely(text string) bool {
	fc := f.cfg.Filtering
	lower := strings.ToLower(text)
	n := textutil.Len(text)

	if textutil.HasAnyPrefix(lower, fc.SentenceStarters) {
		return true
	}
	if n > fc.LongSentenceLength && strings.Contains(text, ".") {
		return true
	}
	for _, re := range f.cfg.Patterns().Unlikely {
		if re.MatchString(lower) {
			return true
		}
	}
	for _, m := range fc.LegalModals {
		if strings.Count(lower, m.Word) > m.Max {
			return true
		}
	}
	return strings.Count(text, ".") > 1 && n > fc.MultiSentenceLength
}

// fragmented reports whether a multi-word text has a low average word
// length, which usually means a line was split mid-word.
func (f *Filter) fragmented(text string) bool {
	words := strings.Fields(text)
	if len(words) <= 1 {
		return false
	}
	total := 0
	for _, w := range words {
		total += textutil.Len(w)
	}
	return float64(total)/float64(len(words)) < f.cfg.TextLimits.MinWordAvgLength
}

func (f *Filter) passesDocumentType(text string, docType model.DocumentType) bool {
	limits := f.cfg.TextLimits
	types := f.cfg.DocumentTypes
	lower := strings.ToLower(text)
	n := textutil.Len(text)

	if n < limits.MinTextLength {
		return false
	}

	switch docType {
	case model.DocumentForm:
		return n <= limits.MaxFormHeading &&
			!strings.Contains(text, ":") &&
			!textutil.ContainsAny(lower, types.Form.AvoidFields)
	case model.DocumentAcademic:
		return n <= limits.MaxAcademicHeading &&
			strings.Count(text, ".") <= types.Academic.MaxDots
	case model.DocumentTechnical:
		return n <= limits.MaxTechnicalHeading &&
			strings.Count(text, "(") <= types.Technical.MaxParentheses
	default:
		return n <= limits.MaxSimpleHeading &&
			strings.Count(text, "(") <= types.Simple.MaxParentheses &&
			strings.Count(text, "_") <= types.Simple.MaxUnderscores &&
			!textutil.ContainsAny(lower, types.Simple.AvoidPatterns)
	}
}

// goodStructure requires a leading letter or digit, rejects long all-caps
// text and text ending in terminal punctuation.
func (f *Filter) goodStructure(text string) bool {
	first, _ := utf8.DecodeRuneInString(text)
	if !textutil.IsAlnum(first) {
		return false
	}
	if textutil.IsUpper(text) && textutil.Len(text) > f.cfg.FontThresholds.MaxCapsLength {
		return false
	}
	return !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?")
}

func (f *Filter) repetitive(text string, seen []string) bool {
	lower := strings.ToLower(text)
	for _, s := range seen {
		if textutil.Jaccard(lower, strings.ToLower(s)) > f.cfg.Filtering.JaccardThreshold {
			return true
		}
	}
	return false
}

// likelyHeading accepts text matching a heading pattern, or a short phrase
// with no instructional words.
func (f *Filter) likelyHeading(text string) bool {
	fc := f.cfg.Filtering
	lower := strings.ToLower(text)
	for _, re := range f.cfg.Patterns().Heading {
		if re.MatchString(lower) {
			return true
		}
	}

	words := strings.Fields(lower)
	if len(words) > fc.ShortPhraseWords || textutil.Len(text) > fc.ShortPhraseLength {
		return false
	}
	for _, w := range words {
		w = strings.TrimFunc(w, func(r rune) bool { return !textutil.IsAlnum(r) })
		for _, iw := range fc.InstructionalWords {
			if w == iw {
				return false
			}
		}
	}
	return true
}
