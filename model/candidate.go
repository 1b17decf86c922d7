package model

// Candidate is a fragment hypothesised to be a heading.
//
// The embedded Fragment is fixed once the clusterer promotes it. The
// remaining fields start unset and are filled in by later stages.
type Candidate struct {
	Fragment

	Language     string
	QualityBoost float64
	Level        Level
	LevelSource  LevelSource
	QualityScore float64
	Scored       bool
}

// NewCandidate promotes a fragment to a candidate.
func NewCandidate(f Fragment) *Candidate {
	return &Candidate{Fragment: f}
}

// HasLevel reports whether a level has been assigned.
func (c *Candidate) HasLevel() bool {
	return c.Level != LevelNone
}

// SetLevel assigns a level and records the rule that chose it.
func (c *Candidate) SetLevel(level Level, source LevelSource) {
	c.Level = level
	c.LevelSource = source
}

// Heading converts the candidate to an output heading with a 0-based page.
func (c *Candidate) Heading() Heading {
	return Heading{Level: c.Level, Text: c.Text, Page: c.Page - 1}
}

// Candidates wraps each fragment in a new candidate.
func Candidates(fragments []Fragment) []*Candidate {
	out := make([]*Candidate, len(fragments))
	for i, f := range fragments {
		out[i] = NewCandidate(f)
	}
	return out
}
