package multimodal

import (
	"context"
	"image"
	"math"
	"testing"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/source"
)

func TestLabelLevel(t *testing.T) {
	tests := []struct {
		label Label
		want  model.Level
	}{
		{LabelOther, model.LevelNone},
		{LabelBH1, model.LevelH1},
		{LabelIH1, model.LevelH1},
		{LabelBH2, model.LevelH2},
		{LabelIH3, model.LevelH3},
		{LabelBTitle, model.LevelTitle},
		{LabelITitle, model.LevelTitle},
		{Label("B-CAPTION"), model.LevelNone},
	}
	for _, tt := range tests {
		if got := tt.label.Level(); got != tt.want {
			t.Errorf("Label(%q).Level() = %v, want %v", tt.label, got, tt.want)
		}
	}
	if n := len(Labels()); n != 9 {
		t.Errorf("len(Labels()) = %d, want 9", n)
	}
}

func TestWordsFromLines(t *testing.T) {
	lines := []model.Line{
		source.TextLine("Hello World", 16, true, 64, 32, 128),
		source.TextLine("   ", 16, false, 64, 100, 128),
		source.TextLine("Edge", 16, false, 500, 32, 100),
	}

	got := WordsFromLines(lines, 512, 512, 1024)
	want := []Word{
		{Text: "Hello", Box: [4]int{128, 64, 256, 96}},
		{Text: "World", Box: [4]int{256, 64, 384, 96}},
		{Text: "Edge", Box: [4]int{1000, 64, 1024, 96}},
	}
	if len(got) != len(want) {
		t.Fatalf("WordsFromLines() returned %d words, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if got := WordsFromLines(lines, 0, 0, 1000); got[0].Box != [4]int{} {
		t.Errorf("zero page size box = %v, want zero box", got[0].Box)
	}
}

func TestMatch(t *testing.T) {
	preds := []Prediction{
		{Word: "1.", Label: LabelBH1, Confidence: 0.9},
		{Word: "Introduction", Label: LabelIH1, Confidence: 0.8},
		{Word: "body", Label: LabelOther, Confidence: 0.99},
		{Word: "Summary", Label: LabelOther, Confidence: 0.7},
		{Word: "Summary", Label: LabelBH2, Confidence: 0.95},
	}

	tests := []struct {
		text  string
		want  Label
		conf  float64
		found bool
	}{
		{"1. Introduction", LabelBH1, 0.9, true},
		{"introduction", LabelIH1, 0.8, true},
		{"Introduction body", "", 0, false},
		{"Summary", LabelBH2, 0.95, true},
		{"missing words", "", 0, false},
		{"", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := Match(tt.text, preds)
			if ok != tt.found {
				t.Fatalf("Match(%q) found = %v, want %v", tt.text, ok, tt.found)
			}
			if ok && (got.Label != tt.want || got.Confidence != tt.conf) {
				t.Errorf("Match(%q) = %+v, want %s at %v", tt.text, got, tt.want, tt.conf)
			}
		})
	}
}

func TestFit(t *testing.T) {
	big := image.NewRGBA(image.Rect(0, 0, 2000, 1000))
	got := Fit(big, 1000).Bounds()
	if got.Dx() != 1000 || got.Dy() != 500 {
		t.Errorf("Fit(2000x1000, 1000) = %dx%d, want 1000x500", got.Dx(), got.Dy())
	}

	small := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if Fit(small, 1000) != image.Image(small) {
		t.Error("Fit() should return images that already fit unchanged")
	}
	if Fit(big, 0) != image.Image(big) {
		t.Error("Fit() with no size should return the image unchanged")
	}
}

type fakeClassifier struct {
	available bool
	preds     map[int][]Prediction
	pages     []int
}

func (f *fakeClassifier) Available() bool { return f.available }

func (f *fakeClassifier) Classify(_ context.Context, page Page) ([]Prediction, error) {
	f.pages = append(f.pages, page.Index)
	return f.preds[page.Index], nil
}

func enabledConfig() *config.Config {
	return config.NewBuilder().Apply(func(c *config.Config) { c.Multimodal.Enabled = true }).MustBuild()
}

func twoPageDoc() *source.Memory {
	return source.NewMemory(
		source.MemoryPage{Lines: []model.Line{
			source.TextLine("Overview", 18, true, 72, 72, 120),
			source.TextLine("Some body text", 11, false, 72, 100, 200),
		}},
		source.MemoryPage{Lines: []model.Line{
			source.TextLine("Details", 14, true, 72, 72, 100),
		}},
	)
}

func newFake() *fakeClassifier {
	return &fakeClassifier{
		available: true,
		preds: map[int][]Prediction{
			0: {
				{Word: "Overview", Label: LabelBH1, Confidence: 0.9},
				{Word: "Some", Label: LabelOther, Confidence: 0.6},
			},
			1: {
				{Word: "Details", Label: LabelBH1, Confidence: 0.6},
			},
		},
	}
}

func TestOverride(t *testing.T) {
	fake := newFake()
	e := New(enabledConfig(), fake, nil)

	overview := model.NewCandidate(model.Fragment{Text: "Overview", Page: 1, FontSize: 18})
	overview.SetLevel(model.LevelH3, model.SourceScore)
	details := model.NewCandidate(model.Fragment{Text: "Details", Page: 2, FontSize: 14})
	details.SetLevel(model.LevelH2, model.SourceScore)

	got := e.Override(context.Background(), Target{Doc: twoPageDoc()}, []*model.Candidate{overview, details})
	if len(got) != 2 {
		t.Fatalf("Override() returned %d candidates, want 2", len(got))
	}
	if overview.Level != model.LevelH1 || overview.LevelSource != model.SourceMultimodal {
		t.Errorf("overview = %v from %v, want H1 from multimodal", overview.Level, overview.LevelSource)
	}
	if details.Level != model.LevelH2 || details.LevelSource != model.SourceScore {
		t.Errorf("details = %v from %v, want unchanged below threshold", details.Level, details.LevelSource)
	}
	if len(fake.pages) != 2 {
		t.Errorf("classified pages %v, want each candidate page once", fake.pages)
	}
}

func TestEnrichProfile(t *testing.T) {
	e := New(enabledConfig(), newFake(), nil)

	got := e.EnrichProfile(context.Background(), Target{Doc: twoPageDoc()}, model.DocumentProfile{PageCount: 2})
	f := got.Multimodal
	if f == nil {
		t.Fatal("Multimodal = nil, want features")
	}
	if f.TotalPredictions != 3 || f.HeadingPredictions != 2 {
		t.Errorf("predictions = %d/%d, want 2/3", f.HeadingPredictions, f.TotalPredictions)
	}
	if math.Abs(f.HeadingRatio-2.0/3.0) > 1e-9 {
		t.Errorf("HeadingRatio = %v, want 0.667", f.HeadingRatio)
	}
	if math.Abs(f.AvgConfidence-0.7) > 1e-9 {
		t.Errorf("AvgConfidence = %v, want 0.7", f.AvgConfidence)
	}
	if f.LevelDistribution[model.LevelH1] != 2 {
		t.Errorf("LevelDistribution = %v, want two H1", f.LevelDistribution)
	}
	if got.PageCount != 2 {
		t.Errorf("PageCount = %d, want the rest of the profile kept", got.PageCount)
	}
}

func TestDisabledEnhancerIsPassThrough(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *config.Config
		classifier Classifier
	}{
		{"nil classifier", enabledConfig(), nil},
		{"unavailable classifier", enabledConfig(), &fakeClassifier{}},
		{"disabled in config", config.NewBuilder().MustBuild(), newFake()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.cfg, tt.classifier, nil)
			if e.Enabled() {
				t.Fatal("Enabled() = true, want false")
			}
			c := model.NewCandidate(model.Fragment{Text: "Overview", Page: 1})
			c.SetLevel(model.LevelH3, model.SourceScore)
			e.Override(context.Background(), Target{Doc: twoPageDoc()}, []*model.Candidate{c})
			if c.Level != model.LevelH3 {
				t.Errorf("Level = %v, want H3", c.Level)
			}
			p := e.EnrichProfile(context.Background(), Target{Doc: twoPageDoc()}, model.DocumentProfile{})
			if p.Multimodal != nil {
				t.Errorf("Multimodal = %+v, want nil", p.Multimodal)
			}
		})
	}
}

type noImageWords struct{}

func (noImageWords) Words(context.Context, source.Document, int, image.Image) ([]Word, error) {
	return nil, ErrNoImage
}

func TestAnalyzeFallsBackToTextLayer(t *testing.T) {
	fake := newFake()
	e := New(enabledConfig(), fake, nil, WithWordSource(noImageWords{}))

	c := model.NewCandidate(model.Fragment{Text: "Overview", Page: 1})
	c.SetLevel(model.LevelH2, model.SourceScore)
	e.Override(context.Background(), Target{Doc: twoPageDoc()}, []*model.Candidate{c})
	if c.Level != model.LevelH1 {
		t.Errorf("Level = %v, want H1 from text layer words", c.Level)
	}
}
