package accuracy

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/internal/textutil"
	"github.com/tsawler/outline/model"
)

var (
	numberedPrefix   = regexp.MustCompile(`^\d+\.\s+`)
	subsectionPrefix = regexp.MustCompile(`^\d+\.\d+\s+`)
	letteredPrefix   = regexp.MustCompile(`^[A-Z]\.\s+`)
)

// Components are the unweighted quality score parts of a candidate.
type Components struct {
	Structural   float64
	Semantic     float64
	Typography   float64
	Position     float64
	Multilingual float64
}

// Weighted returns the weighted sum, clamped to [0, 1].
func (c Components) Weighted(w config.Weights) float64 {
	total := w.Structural*c.Structural +
		w.Semantic*c.Semantic +
		w.Typography*c.Typography +
		w.Position*c.Position +
		w.Multilingual*c.Multilingual
	return math.Max(0, math.Min(1, total))
}

// Score returns the quality score of a candidate. maxSize is the largest
// font size in the candidate set.
func (e *Enhancer) Score(c *model.Candidate, maxSize float64) float64 {
	return e.Components(c, maxSize).Weighted(e.cfg.Accuracy.Weights)
}

// Components computes the unweighted score parts of a candidate.
func (e *Enhancer) Components(c *model.Candidate, maxSize float64) Components {
	return Components{
		Structural:   e.structuralScore(c.Text),
		Semantic:     e.semanticScore(c.Text),
		Typography:   e.typographyScore(e.size(c), maxSize),
		Position:     e.positionScore(c.Page),
		Multilingual: c.QualityBoost,
	}
}

func (e *Enhancer) structuralScore(text string) float64 {
	s := e.cfg.Accuracy.Scoring
	score := 0.0
	switch {
	case numberedPrefix.MatchString(text):
		score += s.NumberedScore
	case subsectionPrefix.MatchString(text):
		score += s.SubsectionScore
	case letteredPrefix.MatchString(text):
		score += s.LetteredScore
	}

	lower := strings.ToLower(text)
	for _, re := range e.cfg.Patterns().Section {
		if re.MatchString(lower) {
			score += s.SectionScore
			break
		}
	}
	return math.Min(1, score)
}

func (e *Enhancer) semanticScore(text string) float64 {
	s := e.cfg.Accuracy.Scoring
	score := 0.0

	n := textutil.Len(text)
	switch {
	case within(n, s.IdealLength):
		score += s.IdealLengthScore
	case within(n, s.OkLength):
		score += s.OkLengthScore
	default:
		score += s.OtherLengthScore
	}

	words := len(strings.Fields(text))
	switch {
	case within(words, s.IdealWords):
		score += s.IdealWordsScore
	case within(words, s.OkWords):
		score += s.OkWordsScore
	}

	switch {
	case textutil.IsTitle(text):
		score += s.TitleCaseScore
	case textutil.IsUpper(text) && n < s.UpperCaseLength:
		score += s.UpperCaseScore
	}
	return math.Min(1, score)
}

// typographyScore rates the size relative to the largest size in the set.
func (e *Enhancer) typographyScore(size, maxSize float64) float64 {
	s := e.cfg.Accuracy.Scoring
	if maxSize <= 0 {
		return s.TypographyFloor
	}
	ratio := size / maxSize
	for _, t := range s.TypographyTiers {
		if ratio > t.Min {
			return t.Score
		}
	}
	return s.TypographyFloor
}

// positionScore favours early pages. page is 1-based.
func (e *Enhancer) positionScore(page int) float64 {
	s := e.cfg.Accuracy.Scoring
	for _, t := range s.PositionTiers {
		if float64(page) <= t.Min {
			return t.Score
		}
	}
	return s.PositionFloor
}

func within(n int, r [2]int) bool {
	return n >= r[0] && n <= r[1]
}

// Threshold returns the selection threshold for a set of scores: the upper
// median scaled by the threshold factor and clamped to the configured
// range. An empty set uses the default threshold.
func Threshold(cfg config.Accuracy, scores []float64) float64 {
	if len(scores) == 0 {
		return cfg.ThresholdDefault
	}
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]
	return math.Max(cfg.ThresholdMin, math.Min(cfg.ThresholdMax, median*cfg.ThresholdFactor))
}

// Estimate derives precision, recall and F1 from the selection ratio. The
// values are rounded to three decimals.
func Estimate(cfg config.MetricsEstimate, selected, total int) model.Metrics {
	precision := 0.0
	if selected > 0 {
		precision = math.Min(1, cfg.BasePrecision+cfg.PrecisionSpread*(1-float64(selected)/float64(max(1, total))))
	}
	recall := math.Min(1, float64(selected)/math.Max(1, float64(total)*cfg.ExpectedRatio))

	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return model.Metrics{
		Precision:       round3(precision),
		Recall:          round3(recall),
		F1:              round3(f1),
		TotalCandidates: total,
		SelectedCount:   selected,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
