// Package hierarchy assigns heading levels to filtered candidates.
//
// Each candidate is run through a chain of signals and the first one that
// produces a level wins:
//
//  1. structural numbering ("1. ", "1.1 ", "A. ", "II. ")
//  2. content keywords (introduction, conclusion, table of contents, ...)
//  3. document position (short text on the first pages)
//  4. a combined typography and text score
package hierarchy

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/internal/textutil"
	"github.com/tsawler/outline/model"
)

// Determiner assigns levels.
type Determiner struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a level determiner. A nil logger uses slog.Default().
func New(cfg *config.Config, logger *slog.Logger) *Determiner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Determiner{cfg: cfg, logger: logger}
}

// Assign orders the candidates by page and vertical position and sets the
// level and level source of each one. The distinct font size ranking used
// by the score fallback is computed once over the whole candidate set.
func (d *Determiner) Assign(candidates []*model.Candidate) []*model.Candidate {
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		return a.Y() < b.Y()
	})

	sizes := DistinctSizes(candidates)
	for _, c := range candidates {
		level, source := d.Level(c, sizes)
		c.SetLevel(level, source)
	}
	return candidates
}

// Level determines the level of a single candidate. sizes are the distinct
// font sizes of the candidate set, largest first.
func (d *Determiner) Level(c *model.Candidate, sizes []float64) (model.Level, model.LevelSource) {
	if level := d.Structural(c.Text); level != model.LevelNone {
		return level, model.SourceStructural
	}
	if level := d.Content(c.Text); level != model.LevelNone {
		return level, model.SourceContent
	}
	if level := d.Position(c.Fragment); level != model.LevelNone {
		return level, model.SourcePosition
	}
	return d.Score(c.Fragment, sizes), model.SourceScore
}

// Structural matches the raw text against the numbering rules in order.
func (d *Determiner) Structural(text string) model.Level {
	for _, rule := range d.cfg.Patterns().Structural {
		if rule.Pattern.MatchString(text) {
			return rule.Level
		}
	}
	return model.LevelNone
}

// Content maps section keywords to H1 and table-of-contents style
// keywords to H2.
func (d *Determiner) Content(text string) model.Level {
	lower := strings.ToLower(text)
	h := d.cfg.Hierarchy
	if textutil.ContainsAny(lower, h.MainSectionKeywords) {
		return model.LevelH1
	}
	if textutil.ContainsAny(lower, h.SecondaryKeywords) {
		return model.LevelH2
	}
	return model.LevelNone
}

// Position treats short text on the first pages as a main section.
func (d *Determiner) Position(f model.Fragment) model.Level {
	h := d.cfg.Hierarchy
	if f.Page <= h.PositionMaxPage && textutil.Len(f.Text) < h.PositionMaxLength {
		return model.LevelH1
	}
	return model.LevelNone
}

// Score computes the fallback level from font size rank, weight, length,
// page and capitalisation.
func (d *Determiner) Score(f model.Fragment, sizes []float64) model.Level {
	h := d.cfg.Hierarchy
	score := 0

	for i, s := range sizes {
		if i >= len(h.TopSizePoints) {
			break
		}
		if f.FontSize == s {
			score += h.TopSizePoints[i]
			break
		}
	}
	if f.Bold {
		score += h.BoldPoints
	}

	n := textutil.Len(f.Text)
	switch {
	case n < h.ShortLength:
		score += h.ShortLengthPoints
	case n < h.MediumLength:
		score += h.MediumLengthPoints
	}
	if f.Page <= h.EarlyPage {
		score += h.EarlyPagePoints
	}
	if textutil.IsTitle(f.Text) || (len(strings.Fields(f.Text)) <= h.ShortCapsWords && textutil.IsUpper(f.Text)) {
		score += h.CasePoints
	}

	switch {
	case score >= h.H1Score:
		return model.LevelH1
	case score >= h.H2Score:
		return model.LevelH2
	default:
		return model.LevelH3
	}
}

// DistinctSizes returns the distinct font sizes of the candidates, largest
// first.
func DistinctSizes(candidates []*model.Candidate) []float64 {
	seen := make(map[float64]struct{}, len(candidates))
	var sizes []float64
	for _, c := range candidates {
		if _, ok := seen[c.FontSize]; ok {
			continue
		}
		seen[c.FontSize] = struct{}{}
		sizes = append(sizes, c.FontSize)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))
	return sizes
}
