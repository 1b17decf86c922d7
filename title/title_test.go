package title

import (
	"testing"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/source"
)

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	return New(config.NewBuilder().MustBuild(), nil)
}

func formProfile() *model.DocumentProfile {
	return &model.DocumentProfile{Indicators: model.StructureIndicators{IsForm: true}}
}

func TestFormDocumentTitle(t *testing.T) {
	e := newExtractor(t)
	doc := source.NewMemory(source.MemoryPage{
		Lines: []model.Line{
			source.TextLine("Application for Leave Request", 18, true, 72, 72, 320),
			source.TextLine("Name:", 11, false, 72, 120, 40),
			source.TextLine("Date:", 11, false, 72, 140, 40),
		},
	})

	got, err := e.Extract(doc, formProfile())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "Application for Leave Request" {
		t.Errorf("Extract() = %q, want %q", got, "Application for Leave Request")
	}
}

func TestFormTitleRules(t *testing.T) {
	s := FormTitle{Config: config.NewBuilder().MustBuild()}

	page := Page{Lines: []string{
		"Microsoft Word - application.docx",
		"1. Application details section",
		"Application Form Instructions:",
		"Short form",
		"Travel Reimbursement Application",
	}}
	if got := s.Extract(page, formProfile()); got != "Travel Reimbursement Application" {
		t.Errorf("Extract() = %q, want %q", got, "Travel Reimbursement Application")
	}
	if got := s.Extract(page, &model.DocumentProfile{}); got != "" {
		t.Errorf("Extract(non-form) = %q, want empty", got)
	}
	if got := s.Extract(page, nil); got != "" {
		t.Errorf("Extract(nil profile) = %q, want empty", got)
	}
}

func TestFontDominance(t *testing.T) {
	s := FontDominance{Config: config.NewBuilder().MustBuild()}

	span := func(text string, size float64) model.Span {
		return model.Span{Text: text, FontName: "Helvetica", FontSize: size}
	}

	tests := []struct {
		name  string
		spans []model.Span
		want  string
	}{
		{
			name: "largest acceptable run",
			spans: []model.Span{
				span("Body text that is long enough to qualify", 11),
				span("Quarterly Results Overview", 20),
			},
			want: "Quarterly Results Overview",
		},
		{
			name: "avoids general phrases",
			spans: []model.Span{
				span("CONFIDENTIAL DRAFT DOCUMENT", 24),
				span("Quarterly Results Overview", 20),
			},
			want: "Quarterly Results Overview",
		},
		{
			name: "avoids constants and separators",
			spans: []model.Span{
				span("PROJECT_NAME_PLACEHOLDER", 24),
				span("------------------------", 22),
				span("Annual Planning Handbook", 20),
			},
			want: "Annual Planning Handbook",
		},
		{
			name: "only the three largest sizes",
			spans: []model.Span{
				span("Tiny", 28),
				span("Short", 26),
				span("Mini", 24),
				span("Long enough but small text", 10),
			},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Extract(Page{Spans: tt.spans}, nil); got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenericJoinsContinuationLines(t *testing.T) {
	s := Generic{Config: config.NewBuilder().MustBuild()}
	page := Page{Lines: []string{
		"A Study of Regional",
		"transport networks and planning",
		"2023 edition notes for readers",
	}}
	want := "A Study of Regional transport networks and planning"
	if got := s.Extract(page, nil); got != want {
		t.Errorf("Extract() = %q, want %q", got, want)
	}
}

func TestGenericNeedsCombinedLength(t *testing.T) {
	s := Generic{Config: config.NewBuilder().MustBuild()}
	page := Page{Lines: []string{"Short Title Here Now", "1 body"}}
	if got := s.Extract(page, nil); got != "" {
		t.Errorf("Extract() = %q, want empty", got)
	}
}

func TestFallback(t *testing.T) {
	s := Fallback{Config: config.NewBuilder().MustBuild()}
	page := Page{Lines: []string{
		"tiny",
		"Author: J. Smith",
		"--------------------",
		"Welcome to the annual gathering",
	}}
	if got := s.Extract(page, nil); got != "Welcome to the annual gathering" {
		t.Errorf("Extract() = %q, want %q", got, "Welcome to the annual gathering")
	}
}

func TestStrategyOrder(t *testing.T) {
	e := newExtractor(t)
	page := Page{Lines: []string{"Short Title Here Now", "1 body"}}
	if got := e.FromPage(page, nil); got != "Short Title Here Now" {
		t.Errorf("FromPage() = %q, want the fallback line", got)
	}
}

func TestEventDocumentHasNoTitle(t *testing.T) {
	e := newExtractor(t)
	page := Page{Lines: []string{"Join Us For The Summer Celebration"}}

	profile := &model.DocumentProfile{TextSample: "Join us for the summer PARTY at the park"}
	if got := e.FromPage(page, profile); got != "" {
		t.Errorf("FromPage(event) = %q, want empty", got)
	}

	profile = &model.DocumentProfile{TextSample: "Join us for the summer celebration"}
	if got := e.FromPage(page, profile); got != "Join Us For The Summer Celebration" {
		t.Errorf("FromPage() = %q, want the title", got)
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	e := newExtractor(t)
	got, err := e.Extract(source.NewMemory(), nil)
	if err != nil || got != "" {
		t.Errorf("Extract(empty) = %q, %v, want empty and no error", got, err)
	}
}

func TestReadPage(t *testing.T) {
	doc := source.NewMemory(source.MemoryPage{
		Lines: []model.Line{
			source.TextLine("First line", 12, false, 72, 72, 200),
			source.TextLine("Second line", 12, false, 72, 90, 200),
		},
	})
	page, err := ReadPage(doc, 0)
	if err != nil {
		t.Fatalf("ReadPage() error = %v", err)
	}
	if len(page.Lines) != 2 || page.Lines[1] != "Second line" {
		t.Errorf("Lines = %q, want two lines", page.Lines)
	}
	if len(page.Spans) != 2 {
		t.Errorf("got %d spans, want 2", len(page.Spans))
	}
}
