package accuracy

import (
	"fmt"
	"math"
	"testing"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/model"
)

func newEnhancer(t *testing.T) *Enhancer {
	t.Helper()
	return New(config.NewBuilder().MustBuild(), nil)
}

func makeCandidate(text string, size float64, bold bool, page int, y float64) *model.Candidate {
	return model.NewCandidate(makeFragment(text, size, bold, page, y))
}

func makeFragment(text string, size float64, bold bool, page int, y float64) model.Fragment {
	return model.Fragment{
		Text:     text,
		Page:     page,
		FontSize: size,
		Bold:     bold,
		BBox:     model.NewBBox(72, y, 300, size),
		Length:   len([]rune(text)),
	}
}

func texts(cands []*model.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Text
	}
	return out
}

func contains(cands []*model.Candidate, text string) bool {
	for _, c := range cands {
		if c.Text == text {
			return true
		}
	}
	return false
}

func TestThreshold(t *testing.T) {
	cfg := config.NewBuilder().MustBuild().Accuracy

	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{"median scaled", []float64{0.2, 0.5, 0.9}, 0.4},
		{"unsorted input", []float64{0.9, 0.2, 0.5}, 0.4},
		{"empty uses default", nil, 0.5},
		{"clamped low", []float64{0.1}, 0.3},
		{"clamped high", []float64{1, 1, 1}, 0.8},
		{"upper median", []float64{0.5, 0.75}, 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Threshold(cfg, tt.scores)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Threshold(%v) = %v, want %v", tt.scores, got, tt.want)
			}
		})
	}
}

func TestEstimate(t *testing.T) {
	cfg := config.NewBuilder().MustBuild().Accuracy.Metrics

	got := Estimate(cfg, 3, 10)
	want := model.Metrics{Precision: 0.94, Recall: 0.429, F1: 0.589, TotalCandidates: 10, SelectedCount: 3}
	if got != want {
		t.Errorf("Estimate(3, 10) = %+v, want %+v", got, want)
	}

	got = Estimate(cfg, 0, 0)
	if got != (model.Metrics{}) {
		t.Errorf("Estimate(0, 0) = %+v, want zero metrics", got)
	}
}

func TestScoreBounds(t *testing.T) {
	e := newEnhancer(t)

	cands := []*model.Candidate{
		makeCandidate("1. Introduction", 24, true, 1, 80),
		makeCandidate("INTRODUCTION SUMMARY OVERVIEW", 24, true, 1, 80),
		makeCandidate("x", 1, false, 400, 700),
		makeCandidate("a long line of plain body text that is well over one hundred characters in length for the purpose of this test", 9, false, 40, 500),
		makeCandidate("", 0, false, 0, 0),
	}
	boosted := makeCandidate("第1章 概要", 24, true, 1, 80)
	boosted.QualityBoost = 10
	cands = append(cands, boosted)

	for _, c := range cands {
		for _, maxSize := range []float64{0, 1, 24, 100} {
			got := e.Score(c, maxSize)
			if got < 0 || got > 1 {
				t.Errorf("Score(%q, %v) = %v, want within [0, 1]", c.Text, maxSize, got)
			}
		}
	}
}

func TestComponents(t *testing.T) {
	e := newEnhancer(t)

	got := e.Components(makeCandidate("1. Introduction", 16, true, 1, 80), 16)
	want := Components{Structural: 1, Semantic: 1, Typography: 0.9, Position: 0.9}
	if got != want {
		t.Errorf("Components(numbered heading) = %+v, want %+v", got, want)
	}

	got = e.Components(makeCandidate("misc note text here", 10, false, 12, 300), 16)
	want = Components{Structural: 0, Semantic: 1, Typography: 0.5, Position: 0.5}
	if got != want {
		t.Errorf("Components(body text) = %+v, want %+v", got, want)
	}
}

func TestSelectKeepsHighQuality(t *testing.T) {
	e := newEnhancer(t)
	low := makeCandidate("misc note text here", 10, false, 12, 300)
	high := makeCandidate("1. Introduction", 16, true, 1, 80)

	selected, metrics := e.Select([]*model.Candidate{low, high})

	if len(selected) != 1 || selected[0] != high {
		t.Fatalf("Select() = %q, want only the numbered heading", texts(selected))
	}
	if math.Abs(high.QualityScore-0.915) > 1e-9 || math.Abs(low.QualityScore-0.425) > 1e-9 {
		t.Errorf("scores = %v, %v, want 0.915, 0.425", high.QualityScore, low.QualityScore)
	}
	if !high.Scored || !low.Scored {
		t.Error("every candidate should be marked scored")
	}
	want := model.Metrics{Precision: 0.9, Recall: 0.714, F1: 0.796, TotalCandidates: 2, SelectedCount: 1}
	if metrics != want {
		t.Errorf("metrics = %+v, want %+v", metrics, want)
	}
}

func TestSelectEmpty(t *testing.T) {
	e := newEnhancer(t)
	selected, metrics := e.Select(nil)
	if selected != nil {
		t.Errorf("Select(nil) = %v, want nil", selected)
	}
	if metrics.SelectedCount != 0 || metrics.TotalCandidates != 0 {
		t.Errorf("metrics = %+v, want zero counts", metrics)
	}
}

func TestPrecisionTextQuality(t *testing.T) {
	e := newEnhancer(t)

	tests := []struct {
		text string
		want bool
	}{
		{"Project Overview", true},
		{"ab", false},
		{"aaaa", false},
		{"1.2.3", false},
		{"See page 4", false},
		{"Figure 3 overview", false},
		{"Total: amount due", false},
		{"Continued on next sheet", false},
	}
	for _, tt := range tests {
		got := len(e.Precision([]*model.Candidate{makeCandidate(tt.text, 14, true, 1, 80)})) == 1
		if got != tt.want {
			t.Errorf("Precision keeps %q = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestPrecisionPageDensity(t *testing.T) {
	e := newEnhancer(t)

	var cands []*model.Candidate
	for i := 0; i < 11; i++ {
		cands = append(cands, makeCandidate(fmt.Sprintf("Heading Number %d", i), 14, false, 1, float64(60+i*40)))
	}
	small := makeCandidate("Small Print Heading", 10, false, 1, 700)
	cands = append(cands, small)
	other := makeCandidate("Other Page Heading", 10, false, 2, 80)
	cands = append(cands, other)

	got := e.Precision(cands)
	if contains(got, small.Text) {
		t.Error("small candidate on a crowded page should be dropped")
	}
	if !contains(got, other.Text) {
		t.Error("candidate on an uncrowded page should be kept")
	}
	if len(got) != 12 {
		t.Errorf("kept %d candidates, want 12", len(got))
	}
}

func TestPrecisionBoldConsistency(t *testing.T) {
	e := newEnhancer(t)
	cands := []*model.Candidate{
		makeCandidate("Regular Heading One", 12, false, 1, 80),
		makeCandidate("Regular Heading Two", 12, false, 1, 120),
		makeCandidate("Regular Heading Three", 12.5, false, 1, 160),
		makeCandidate("Lone Bold Heading", 12, true, 1, 200),
		makeCandidate("Bold Section One", 16, true, 2, 80),
		makeCandidate("Bold Section Two", 16, true, 2, 120),
		makeCandidate("Bold Section Three", 16, true, 2, 160),
		makeCandidate("Bold Section Four", 16.5, true, 2, 200),
		makeCandidate("Lone Regular Section", 16, false, 2, 240),
	}

	got := e.Precision(cands)
	if contains(got, "Lone Bold Heading") {
		t.Error("bold candidate among regular ones should be dropped")
	}
	if contains(got, "Lone Regular Section") {
		t.Error("regular candidate among bold ones should be dropped")
	}
	if len(got) != 7 {
		t.Errorf("kept %q, want 7 candidates", texts(got))
	}
}

func TestLocalize(t *testing.T) {
	e := newEnhancer(t)

	tests := []struct {
		name     string
		text     string
		language string
		boost    float64
	}{
		{"japanese keyword and numbering", "第1章 概要", "japanese", 0.5},
		{"full-width digits", "第１章 概要", "japanese", 0.5},
		{"japanese numbering only", "1.2 システム構成", "japanese", 0.3},
		{"korean", "제1장 개요", "korean", 0.5},
		{"arabic keyword", "مقدمة البحث", "arabic", 0.2},
		{"european keyword", "Le résumé du projet", "european", 0.2},
		{"english", "Introduction", "english", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := makeCandidate(tt.text, 14, true, 1, 80)
			e.Localize(c)
			if c.Language != tt.language {
				t.Errorf("Language = %q, want %q", c.Language, tt.language)
			}
			if math.Abs(c.QualityBoost-tt.boost) > 1e-9 {
				t.Errorf("QualityBoost = %v, want %v", c.QualityBoost, tt.boost)
			}
		})
	}
}

func TestLocalizeNormalizesText(t *testing.T) {
	e := newEnhancer(t)
	c := makeCandidate("  Café   Menu  ", 14, true, 1, 80)
	e.Localize(c)
	if c.Text != "Café Menu" {
		t.Errorf("Text = %q, want %q", c.Text, "Café Menu")
	}
	if c.Length != 9 {
		t.Errorf("Length = %d, want 9", c.Length)
	}
}

func TestJapaneseHeadingScoresHigherThanPlain(t *testing.T) {
	e := newEnhancer(t)
	ja := makeCandidate("第1章 概要", 14, true, 3, 80)
	plain := makeCandidate("第1回のメモ", 14, true, 3, 80)
	e.Localize(ja)
	e.Localize(plain)
	if ja.QualityBoost <= plain.QualityBoost {
		t.Fatalf("boosts = %v, %v, want chapter heading boosted more", ja.QualityBoost, plain.QualityBoost)
	}
	if e.Score(ja, 14) <= e.Score(plain, 14) {
		t.Errorf("Score(chapter) = %v, Score(plain) = %v, want chapter higher", e.Score(ja, 14), e.Score(plain, 14))
	}
}

func TestEnhanceDisabled(t *testing.T) {
	cfg := config.NewBuilder().Apply(func(c *config.Config) { c.Accuracy.Enabled = false }).MustBuild()
	e := New(cfg, nil)
	in := []*model.Candidate{makeCandidate("ab", 14, true, 1, 80)}

	got, metrics := e.Enhance(in, nil, nil)
	if len(got) != 1 || got[0] != in[0] {
		t.Errorf("Enhance() = %q, want input unchanged", texts(got))
	}
	if metrics != nil {
		t.Errorf("metrics = %+v, want nil", metrics)
	}
}

func TestEnhance(t *testing.T) {
	e := newEnhancer(t)
	in := []*model.Candidate{
		makeCandidate("1. Introduction", 16, true, 1, 80),
		makeCandidate("2. Related Work", 16, true, 1, 300),
		makeCandidate("See page 4", 16, true, 2, 80),
	}

	got, metrics := e.Enhance(in, nil, &model.DocumentProfile{})
	if metrics == nil {
		t.Fatal("metrics = nil, want estimates")
	}
	if contains(got, "See page 4") {
		t.Error("non-heading phrase should be dropped")
	}
	if !contains(got, "1. Introduction") {
		t.Errorf("Enhance() = %q, want the introduction kept", texts(got))
	}
	if metrics.TotalCandidates != 2 {
		t.Errorf("TotalCandidates = %d, want 2", metrics.TotalCandidates)
	}
}

func TestEnhanceDeduplicatesCaseVariants(t *testing.T) {
	e := newEnhancer(t)
	in := []*model.Candidate{
		makeCandidate("1. Introduction", 16, true, 1, 80),
		makeCandidate("1. INTRODUCTION", 16, true, 2, 80),
		makeCandidate("Background Study", 16, true, 2, 300),
	}

	got, metrics := e.Enhance(in, nil, &model.DocumentProfile{})
	if contains(got, "1. INTRODUCTION") {
		t.Errorf("Enhance() = %q, want the later case variant dropped", texts(got))
	}
	if !contains(got, "1. Introduction") {
		t.Errorf("Enhance() = %q, want the first variant kept", texts(got))
	}
	if metrics == nil || metrics.TotalCandidates != 2 {
		t.Errorf("metrics = %+v, want 2 total candidates", metrics)
	}
}

func TestDeduplicate(t *testing.T) {
	a := makeCandidate("Results", 14, true, 1, 80)
	b := makeCandidate("  results ", 14, true, 2, 80)
	c := makeCandidate("Discussion", 14, true, 2, 200)

	got := Deduplicate([]*model.Candidate{a, b, c})
	if len(got) != 2 || got[0] != a || got[1] != c {
		t.Errorf("Deduplicate() = %q, want [Results Discussion]", texts(got))
	}
}
