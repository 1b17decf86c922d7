// Package cluster selects heading candidates by clustering fragments over
// layout and text features and keeping the clusters that look like
// headings.
package cluster

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/internal/textutil"
	"github.com/tsawler/outline/model"
)

// FeatureCount is the length of a fragment feature vector.
const FeatureCount = 14

var (
	startsDigit   = regexp.MustCompile(`^\d+`)
	sectionNumber = regexp.MustCompile(`^\d+\.`)
	subsection    = regexp.MustCompile(`^\d+\.\d+`)
)

// Clusterer promotes fragments to candidates.
type Clusterer struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a clusterer. A nil logger uses slog.Default().
func New(cfg *config.Config, logger *slog.Logger) *Clusterer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Clusterer{cfg: cfg, logger: logger}
}

// Features returns the feature vector of a fragment: size, bold, length,
// vertical position, has digit, starts with digit, is short, is title case,
// has colon, word count, page, is early page, has section number, has
// subsection number.
func (c *Clusterer) Features(f model.Fragment) [FeatureCount]float64 {
	cl := c.cfg.Clustering
	return [FeatureCount]float64{
		f.FontSize,
		boolf(f.Bold),
		float64(f.Length),
		f.Y(),
		boolf(textutil.HasDigit(f.Text)),
		boolf(startsDigit.MatchString(f.Text)),
		boolf(f.Length < cl.ShortTextLength),
		boolf(textutil.IsTitle(f.Text)),
		boolf(strings.Contains(f.Text, ":")),
		float64(len(strings.Fields(f.Text))),
		float64(f.Page),
		boolf(f.Page <= cl.EarlyPageLimit),
		boolf(sectionNumber.MatchString(f.Text)),
		boolf(subsection.MatchString(f.Text)),
	}
}

// Candidates clusters the fragments of a document and returns the members
// of every cluster whose score reaches Clustering.ScoreThreshold, in
// document order. With fewer than MinFragments fragments, or when the
// computed cluster count is below MinClusters, every fragment becomes a
// candidate.
func (c *Clusterer) Candidates(fragments []model.Fragment) []*model.Candidate {
	cl := c.cfg.Clustering
	if len(fragments) < cl.MinFragments {
		return model.Candidates(fragments)
	}

	k := min(cl.MaxClusters, len(fragments)/max(cl.ClusterRatio, 1))
	if k < cl.MinClusters {
		return model.Candidates(fragments)
	}

	rows := make([][]float64, len(fragments))
	for i, f := range fragments {
		v := c.Features(f)
		rows[i] = v[:]
	}

	km := KMeans{K: k, NInit: cl.NInit, MaxIterations: cl.MaxIterations, Seed: cl.RandomState}
	labels, _ := km.Fit(Standardize(rows))

	members := make(map[int][]model.Fragment, k)
	for i, label := range labels {
		members[label] = append(members[label], fragments[i])
	}

	keep := make(map[int]bool, k)
	for label, group := range members {
		score := c.Score(group)
		keep[label] = score >= cl.ScoreThreshold
		c.logger.Debug("cluster scored", "cluster", label, "size", len(group), "score", score, "kept", keep[label])
	}

	var out []*model.Candidate
	for i, label := range labels {
		if keep[label] {
			out = append(out, model.NewCandidate(fragments[i]))
		}
	}
	return out
}

// Score computes the integer heading score of a cluster.
func (c *Clusterer) Score(group []model.Fragment) int {
	if len(group) == 0 {
		return 0
	}
	cl := c.cfg.Clustering
	pts := cl.Scores
	fonts := c.cfg.FontThresholds

	var sumSize, sumLen float64
	var bold, early, title int
	numbered, keyword := false, false
	for _, f := range group {
		sumSize += f.FontSize
		sumLen += float64(f.Length)
		if f.Bold {
			bold++
		}
		if f.Page <= cl.EarlyPageLimit {
			early++
		}
		if textutil.IsTitle(f.Text) {
			title++
		}
		if sectionNumber.MatchString(f.Text) {
			numbered = true
		}
		if textutil.ContainsAny(strings.ToLower(f.Text), cl.SectionKeywords) {
			keyword = true
		}
	}
	n := float64(len(group))
	avgSize, avgLen := sumSize/n, sumLen/n

	score := 0
	switch {
	case avgSize > fonts.LargeFontThreshold:
		score += pts.LargeFont
	case avgSize > fonts.MinHeadingSize:
		score += pts.HeadingFont
	}
	switch {
	case avgLen < float64(cl.ShortTextLength):
		score += pts.ShortLength
	case avgLen < float64(c.cfg.TextLimits.MaxSimpleHeading):
		score += pts.MediumLength
	}
	switch ratio := float64(bold) / n; {
	case ratio > pts.HighBoldRatio:
		score += pts.HighBold
	case ratio > pts.MediumBoldRatio:
		score += pts.MediumBold
	}
	if numbered {
		score += pts.Numbered
	}
	if keyword {
		score += pts.Keyword
	}
	if float64(early)/n > pts.EarlyPageRatio {
		score += pts.EarlyPage
	}
	if float64(title)/n > pts.TitleCaseRatio {
		score += pts.TitleCase
	}
	return score
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
