// Package accuracy re-examines leveled heading candidates and keeps the
// ones with the highest quality score.
//
// Enhance runs four passes over the candidate set:
//
//   - precision: minimum text quality, per-page density, bold consistency
//     among candidates of a similar size and obvious non-heading phrases
//   - recall: optional recovery strategies over the full fragment pool
//   - multilingual: script detection, keyword and numbering boosts and
//     Unicode normalization of the text
//   - scoring: a weighted quality score per candidate, a dynamic threshold
//     derived from the median score and selection-ratio metrics
//
// The reported metrics are estimates derived from selection counts, not
// from labelled data. They are for diagnostic display only.
package accuracy

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/hierarchy"
	"github.com/tsawler/outline/internal/textutil"
	"github.com/tsawler/outline/model"
)

// Enhancer applies the accuracy passes.
type Enhancer struct {
	cfg        *config.Config
	logger     *slog.Logger
	levels     *hierarchy.Determiner
	strategies []RecoveryStrategy
}

// New creates an enhancer with the default recovery strategies. A nil
// logger uses slog.Default().
func New(cfg *config.Config, logger *slog.Logger) *Enhancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enhancer{
		cfg:        cfg,
		logger:     logger,
		levels:     hierarchy.New(cfg, logger),
		strategies: DefaultStrategies(cfg),
	}
}

// WithStrategies returns a copy of the enhancer using the given recovery
// strategies instead of the defaults.
func (e *Enhancer) WithStrategies(strategies ...RecoveryStrategy) *Enhancer {
	c := *e
	c.strategies = strategies
	return &c
}

// Enhance returns the selected candidates, highest quality first, and the
// selection metrics. pool is the full fragment set of the document, used
// by the recovery strategies. When the enhancer is disabled the candidates
// are returned unchanged with nil metrics.
func (e *Enhancer) Enhance(candidates []*model.Candidate, pool []model.Fragment, profile *model.DocumentProfile) ([]*model.Candidate, *model.Metrics) {
	if !e.cfg.Accuracy.Enabled {
		return candidates, nil
	}

	precise := e.Precision(candidates)
	recalled := e.Recall(precise, pool, profile)
	for _, c := range recalled {
		e.Localize(c)
	}
	selected, metrics := e.Select(recalled)

	e.logger.Debug("accuracy: candidates selected",
		"in", len(candidates),
		"precise", len(precise),
		"recalled", len(recalled),
		"selected", len(selected))
	return selected, &metrics
}

// Precision returns the candidates that pass the precision checks, in input
// order. Context checks compare against the full input set.
func (e *Enhancer) Precision(candidates []*model.Candidate) []*model.Candidate {
	var out []*model.Candidate
	for _, c := range candidates {
		text := strings.TrimSpace(c.Text)
		if !e.meetsMinimumQuality(text) {
			continue
		}
		if !e.fitsPageDensity(c, candidates) {
			continue
		}
		if !e.consistentTypography(c, candidates) {
			continue
		}
		if !e.semanticallyValid(text) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (e *Enhancer) meetsMinimumQuality(text string) bool {
	p := e.cfg.Accuracy.Precision
	n := textutil.Len(text)
	if n < p.MinLength || n > p.MaxLength {
		return false
	}
	if textutil.UniqueRunes(strings.ToLower(text)) < p.MinUniqueChars {
		return false
	}
	if len(strings.Fields(text)) == 0 {
		return false
	}
	return !e.cfg.Patterns().PrecisionNumber.MatchString(text)
}

// fitsPageDensity drops small text on pages with too many candidates.
func (e *Enhancer) fitsPageDensity(c *model.Candidate, all []*model.Candidate) bool {
	p := e.cfg.Accuracy.Precision
	var total float64
	count := 0
	for _, o := range all {
		if o.Page == c.Page {
			total += e.size(o)
			count++
		}
	}
	if count <= p.MaxPerPage {
		return true
	}
	return e.size(c) >= total/float64(count)*p.PageSizeRatio
}

// consistentTypography rejects a bold candidate among mostly regular
// candidates of a similar size, and the reverse.
func (e *Enhancer) consistentTypography(c *model.Candidate, all []*model.Candidate) bool {
	p := e.cfg.Accuracy.Precision
	size := e.size(c)
	similar, bold := 0, 0
	for _, o := range all {
		d := e.size(o) - size
		if d < 0 {
			d = -d
		}
		if d < p.SizeTolerance {
			similar++
			if o.Bold {
				bold++
			}
		}
	}
	if similar < p.MinSimilar {
		return true
	}
	ratio := float64(bold) / float64(similar)
	if c.Bold && ratio < p.LowBoldRatio {
		return false
	}
	return c.Bold || ratio <= p.HighBoldRatio
}

func (e *Enhancer) semanticallyValid(text string) bool {
	lower := strings.ToLower(text)
	for _, re := range e.cfg.Patterns().NonHeading {
		if re.MatchString(lower) {
			return false
		}
	}
	return true
}

// size returns the candidate font size, or the configured default when the
// size is unknown.
func (e *Enhancer) size(c *model.Candidate) float64 {
	if c.FontSize <= 0 {
		return e.cfg.Accuracy.Precision.DefaultSize
	}
	return c.FontSize
}

// Select scores every candidate, keeps those at or above the dynamic
// threshold and estimates the selection metrics. The result is ordered by
// descending score; ties keep their input order.
func (e *Enhancer) Select(candidates []*model.Candidate) ([]*model.Candidate, model.Metrics) {
	if len(candidates) == 0 {
		return nil, Estimate(e.cfg.Accuracy.Metrics, 0, 0)
	}

	maxSize := 0.0
	for _, c := range candidates {
		maxSize = max(maxSize, e.size(c))
	}

	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		c.QualityScore = e.Score(c, maxSize)
		c.Scored = true
		scores[i] = c.QualityScore
	}

	ranked := make([]*model.Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].QualityScore > ranked[j].QualityScore
	})

	threshold := Threshold(e.cfg.Accuracy, scores)
	var selected []*model.Candidate
	for _, c := range ranked {
		if c.QualityScore >= threshold {
			selected = append(selected, c)
		}
	}
	e.logger.Debug("accuracy: threshold", "value", threshold, "candidates", len(candidates))
	return selected, Estimate(e.cfg.Accuracy.Metrics, len(selected), len(candidates))
}
