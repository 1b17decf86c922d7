package hierarchy

import (
	"testing"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/model"
)

func newDeterminer(t *testing.T) *Determiner {
	t.Helper()
	return New(config.NewBuilder().MustBuild(), nil)
}

func makeCandidate(text string, size float64, bold bool, page int, y float64) *model.Candidate {
	return model.NewCandidate(model.Fragment{
		Text:     text,
		Page:     page,
		FontSize: size,
		Bold:     bold,
		BBox:     model.NewBBox(72, y, 300, size),
		Length:   len([]rune(text)),
	})
}

func TestStructural(t *testing.T) {
	d := newDeterminer(t)

	tests := []struct {
		text string
		want model.Level
	}{
		{"1. Introduction", model.LevelH1},
		{"12. Appendix Tables", model.LevelH1},
		{"1.1 Overview", model.LevelH2},
		{"3.2 Data Sources", model.LevelH2},
		{"1.1.1 Details", model.LevelH3},
		{"A. Scope", model.LevelH2},
		{"II. Methods", model.LevelH1},
		{"XIV. Final Notes", model.LevelH1},
		// A single roman numeral is also a capital letter, so the lettered
		// rule is tried first.
		{"I. Introduction", model.LevelH2},
		{"1. lowercase start", model.LevelNone},
		{"1.Introduction", model.LevelNone},
		{"Introduction", model.LevelNone},
		{"a. Scope", model.LevelNone},
	}
	for _, tt := range tests {
		if got := d.Structural(tt.text); got != tt.want {
			t.Errorf("Structural(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestStructuralIsDeterministic(t *testing.T) {
	d := newDeterminer(t)
	for i := 0; i < 5; i++ {
		if got := d.Structural("2.3.4 Nested Item"); got != model.LevelH3 {
			t.Fatalf("run %d: Structural = %v, want H3", i, got)
		}
	}
}

func TestContent(t *testing.T) {
	d := newDeterminer(t)

	tests := []struct {
		text string
		want model.Level
	}{
		{"Project Background", model.LevelH1},
		{"CONCLUSION", model.LevelH1},
		{"Summary of Findings", model.LevelH1},
		{"References", model.LevelH1},
		{"Table of Contents", model.LevelH2},
		{"Revision History", model.LevelH2},
		{"Pricing Options", model.LevelNone},
	}
	for _, tt := range tests {
		if got := d.Content(tt.text); got != tt.want {
			t.Errorf("Content(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestPosition(t *testing.T) {
	d := newDeterminer(t)

	tests := []struct {
		name string
		frag model.Fragment
		want model.Level
	}{
		{"page one short", model.Fragment{Text: "Pricing Options", Page: 1}, model.LevelH1},
		{"page two short", model.Fragment{Text: "Pricing Options", Page: 2}, model.LevelH1},
		{"page three", model.Fragment{Text: "Pricing Options", Page: 3}, model.LevelNone},
		{"long text", model.Fragment{Text: "A considerably longer descriptive heading line here", Page: 1}, model.LevelNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Position(tt.frag); got != tt.want {
				t.Errorf("Position() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScore(t *testing.T) {
	d := newDeterminer(t)
	sizes := []float64{18, 14, 12}

	tests := []struct {
		name string
		frag model.Fragment
		want model.Level
	}{
		// top size 3, bold 2, short 2, title case 1
		{"largest bold", model.Fragment{Text: "Pricing Options", FontSize: 18, Bold: true, Page: 4}, model.LevelH1},
		// second size 2, medium length 1, title case 1
		{"second size", model.Fragment{Text: "Regional Pricing Options Table", FontSize: 14, Page: 9}, model.LevelH2},
		// fourth size 0, medium length 1
		{"small plain", model.Fragment{Text: "regional pricing options table", FontSize: 10, Page: 9}, model.LevelH3},
		// third size 1, short 2, short all caps 1
		{"short caps", model.Fragment{Text: "FAQ ITEMS", FontSize: 12, Page: 9}, model.LevelH2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Score(tt.frag, sizes); got != tt.want {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignOrdersAndRecordsSource(t *testing.T) {
	d := newDeterminer(t)
	cands := []*model.Candidate{
		makeCandidate("Pricing Tiers Explained", 14, false, 5, 300),
		makeCandidate("1. Introduction", 16, true, 1, 200),
		makeCandidate("Background", 14, true, 1, 100),
		makeCandidate("Short Heading", 12, false, 2, 50),
	}

	got := d.Assign(cands)

	want := []struct {
		text   string
		level  model.Level
		source model.LevelSource
	}{
		{"Background", model.LevelH1, model.SourceContent},
		{"1. Introduction", model.LevelH1, model.SourceStructural},
		{"Short Heading", model.LevelH1, model.SourcePosition},
		{"Pricing Tiers Explained", model.LevelH2, model.SourceScore},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(got), len(want))
	}
	for i, w := range want {
		c := got[i]
		if c.Text != w.text || c.Level != w.level || c.LevelSource != w.source {
			t.Errorf("candidate %d = (%q, %v, %v), want (%q, %v, %v)",
				i, c.Text, c.Level, c.LevelSource, w.text, w.level, w.source)
		}
	}
}

func TestAssignEmpty(t *testing.T) {
	d := newDeterminer(t)
	if got := d.Assign(nil); got != nil {
		t.Errorf("Assign(nil) = %v, want nil", got)
	}
}

func TestDistinctSizes(t *testing.T) {
	cands := []*model.Candidate{
		makeCandidate("a", 12, false, 1, 0),
		makeCandidate("b", 18, false, 1, 0),
		makeCandidate("c", 12, false, 1, 0),
		makeCandidate("d", 14, false, 1, 0),
	}
	got := DistinctSizes(cands)
	if len(got) != 3 || got[0] != 18 || got[1] != 14 || got[2] != 12 {
		t.Errorf("DistinctSizes() = %v, want [18 14 12]", got)
	}
}
