package accuracy

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/hierarchy"
	"github.com/tsawler/outline/internal/textutil"
	"github.com/tsawler/outline/model"
)

// RecoveryStrategy proposes headings missed by the earlier stages.
type RecoveryStrategy interface {
	Name() string
	Recover(candidates []*model.Candidate, pool []model.Fragment, profile *model.DocumentProfile) []*model.Candidate
}

// DefaultStrategies returns relaxed typography, structural recovery and
// cross-page reconstruction, in that order.
func DefaultStrategies(cfg *config.Config) []RecoveryStrategy {
	return []RecoveryStrategy{
		RelaxedTypography{Config: cfg},
		StructuralRecovery{Config: cfg},
		CrossPage{Config: cfg},
	}
}

// Recall unions the candidates with the output of every recovery strategy,
// deduplicated by lowercase trimmed text with earlier entries winning.
// Recovered candidates must pass the text quality checks and are leveled
// against the sizes of the whole union. Nothing is recovered unless
// recall is enabled, but the candidates are always deduplicated.
func (e *Enhancer) Recall(candidates []*model.Candidate, pool []model.Fragment, profile *model.DocumentProfile) []*model.Candidate {
	if !e.cfg.Accuracy.Recall.Enabled || len(pool) == 0 {
		return Deduplicate(candidates)
	}

	all := append([]*model.Candidate(nil), candidates...)
	for _, s := range e.strategies {
		found := s.Recover(candidates, pool, profile)
		e.logger.Debug("accuracy: recovery strategy", "strategy", s.Name(), "found", len(found))
		for _, c := range found {
			text := strings.TrimSpace(c.Text)
			if e.meetsMinimumQuality(text) && e.semanticallyValid(text) {
				all = append(all, c)
			}
		}
	}
	all = Deduplicate(all)

	var sizes []float64
	for _, c := range all {
		if c.HasLevel() {
			continue
		}
		if sizes == nil {
			sizes = hierarchy.DistinctSizes(all)
		}
		c.SetLevel(e.levels.Level(c, sizes))
	}
	return all
}

// Deduplicate keeps the first candidate for each lowercase trimmed text.
func Deduplicate(candidates []*model.Candidate) []*model.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := candidates[:0:0]
	for _, c := range candidates {
		key := strings.ToLower(strings.TrimSpace(c.Text))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

// RelaxedTypography recovers short bold fragments whose size is close to
// the largest candidate size.
type RelaxedTypography struct {
	Config *config.Config
}

func (RelaxedTypography) Name() string { return "relaxed_typography" }

func (s RelaxedTypography) Recover(candidates []*model.Candidate, pool []model.Fragment, _ *model.DocumentProfile) []*model.Candidate {
	r := s.Config.Accuracy.Recall
	maxSize := 0.0
	for _, c := range candidates {
		maxSize = max(maxSize, c.FontSize)
	}
	if maxSize == 0 {
		return nil
	}

	var out []*model.Candidate
	for _, f := range pool {
		if f.Bold && f.FontSize >= maxSize*r.RelaxedSizeRatio && textutil.Len(f.Text) <= r.MaxRelaxedLength {
			out = append(out, model.NewCandidate(f))
		}
	}
	return out
}

// StructuralRecovery recovers short fragments that start with section
// numbering.
type StructuralRecovery struct {
	Config *config.Config
}

func (StructuralRecovery) Name() string { return "structural_recovery" }

func (s StructuralRecovery) Recover(_ []*model.Candidate, pool []model.Fragment, _ *model.DocumentProfile) []*model.Candidate {
	r := s.Config.Accuracy.Recall
	var out []*model.Candidate
	for _, f := range pool {
		if textutil.Len(f.Text) > r.MaxRelaxedLength {
			continue
		}
		for _, re := range s.Config.Patterns().RecallNumber {
			if re.MatchString(f.Text) {
				out = append(out, model.NewCandidate(f))
				break
			}
		}
	}
	return out
}

// CrossPage joins a candidate that ends its page with the first fragment of
// the next page when that fragment continues it: same weight, a size
// within the precision tolerance and a lowercase first letter.
type CrossPage struct {
	Config *config.Config
}

func (CrossPage) Name() string { return "cross_page" }

func (s CrossPage) Recover(candidates []*model.Candidate, pool []model.Fragment, _ *model.DocumentProfile) []*model.Candidate {
	last := make(map[int]model.Fragment)
	first := make(map[int]model.Fragment)
	for _, f := range pool {
		if l, ok := last[f.Page]; !ok || f.Y() > l.Y() {
			last[f.Page] = f
		}
		if fr, ok := first[f.Page]; !ok || f.Y() < fr.Y() {
			first[f.Page] = f
		}
	}

	var out []*model.Candidate
	for _, c := range candidates {
		l, ok := last[c.Page]
		if !ok || l.Text != c.Text || l.Y() != c.Y() {
			continue
		}
		next, ok := first[c.Page+1]
		if !ok || !s.continues(c.Fragment, next) {
			continue
		}
		joined := c.Fragment
		joined.Text = textutil.NormalizeSpace(c.Text + " " + next.Text)
		joined.Length = textutil.Len(joined.Text)
		if joined.Length > s.Config.Accuracy.Recall.MaxJoinedLength {
			continue
		}
		out = append(out, model.NewCandidate(joined))
	}
	return out
}

func (s CrossPage) continues(head, next model.Fragment) bool {
	d := head.FontSize - next.FontSize
	if d < 0 {
		d = -d
	}
	if head.Bold != next.Bold || d >= s.Config.Accuracy.Precision.SizeTolerance {
		return false
	}
	r, _ := utf8.DecodeRuneInString(next.Text)
	return unicode.IsLower(r)
}
