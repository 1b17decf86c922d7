// Package multimodal refines heading levels with an external layout-aware
// token classifier.
//
// A Classifier receives a page (an optional rendered image plus words with
// boxes normalised to 0..1000) and returns one labelled prediction per
// word. The Enhancer uses the predictions in two places: it aggregates
// them over the first pages into profile features, and after level
// assignment it overrides the level of candidates whose words the
// classifier labels as a heading with enough confidence.
//
// The pipeline only sees the Classifier interface. Nop is used when no
// classifier is configured or the configured one is unreachable.
package multimodal

import (
	"context"
	"image"
	"strings"

	"github.com/tsawler/outline/model"
)

// Label is a BIO token classification label.
type Label string

// Labels understood by the enhancer.
const (
	LabelOther  Label = "O"
	LabelBH1    Label = "B-H1"
	LabelIH1    Label = "I-H1"
	LabelBH2    Label = "B-H2"
	LabelIH2    Label = "I-H2"
	LabelBH3    Label = "B-H3"
	LabelIH3    Label = "I-H3"
	LabelBTitle Label = "B-TITLE"
	LabelITitle Label = "I-TITLE"
)

// Labels returns every label in classifier output order.
func Labels() []Label {
	return []Label{
		LabelOther, LabelBH1, LabelIH1, LabelBH2, LabelIH2,
		LabelBH3, LabelIH3, LabelBTitle, LabelITitle,
	}
}

// Level maps a label to a heading level, or LevelNone for non-heading
// labels.
func (l Label) Level() model.Level {
	s := string(l)
	switch {
	case strings.Contains(s, "H1"):
		return model.LevelH1
	case strings.Contains(s, "H2"):
		return model.LevelH2
	case strings.Contains(s, "H3"):
		return model.LevelH3
	case strings.Contains(s, "TITLE"):
		return model.LevelTitle
	}
	return model.LevelNone
}

// Word is a word and its box normalised to 0..1000 in page space.
type Word struct {
	Text string `json:"text"`
	Box  [4]int `json:"box"`
}

// Page is the classifier input for one page.
type Page struct {
	Index  int
	Width  float64
	Height float64
	Image  image.Image
	Words  []Word
}

// Prediction is the classifier output for one word.
type Prediction struct {
	Word       string  `json:"word"`
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier labels the words of a page.
type Classifier interface {
	Available() bool
	Classify(ctx context.Context, page Page) ([]Prediction, error)
}

// Nop is the classifier used when none is available.
type Nop struct{}

func (Nop) Available() bool { return false }

func (Nop) Classify(context.Context, Page) ([]Prediction, error) { return nil, nil }
