package filter

import (
	"strings"
	"testing"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/model"
)

func newFilter(t *testing.T) *Filter {
	t.Helper()
	return New(config.NewBuilder().MustBuild(), nil)
}

func candidates(texts ...string) []*model.Candidate {
	out := make([]*model.Candidate, len(texts))
	for i, text := range texts {
		out[i] = model.NewCandidate(model.Fragment{
			Text:     text,
			Page:     1,
			FontSize: 14,
			Bold:     true,
			BBox:     model.NewBBox(72, float64(80+i*30), 300, 14),
			Length:   len([]rune(text)),
		})
	}
	return out
}

func texts(cands []*model.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Text
	}
	return out
}

func TestCheck(t *testing.T) {
	f := newFilter(t)

	tests := []struct {
		text string
		want Reason
	}{
		{"1. Introduction", Keep},
		{"Project Overview", Keep},
		{"Chapter 3 Design Notes", Keep},
		{"42", Noise},
		{"-----", Noise},
		{"Page 12", Noise},
		{"3 / 10", Noise},
		{"aaaaaaaa", Noise},
		{"However the results were clear", Unlikely},
		{"Release version notes", Unlikely},
		{"Budget for 2023 onwards", Unlikely},
		{"See page 4 for details", Unlikely},
		{"The tenant shall pay rent", Unlikely},
		{"First sentence here. Second sentence follows. Third one", Unlikely},
		{"Summary", TooShort},
		{"a b c d e f g h", Fragmented},
		{"Terms (see (a) and (b) and (c))", DocumentType},
		{"Copyright notice for readers", DocumentType},
		{"Under_score_heavy_title", DocumentType},
		{"(Optional) extras", BadStructure},
		{"Results were strong.", BadStructure},
		{"ANOTHER VERY LONG ALL CAPS HEADING TEXT", BadStructure},
		{"You should always back up data first", NotHeadingish},
		{"This line is a very long sentence with many many words in it", Unlikely},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := f.Check(tt.text, model.DocumentSimple); got != tt.want {
				t.Errorf("Check(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestCheckDocumentTypes(t *testing.T) {
	f := newFilter(t)

	tests := []struct {
		name    string
		text    string
		docType model.DocumentType
		want    Reason
	}{
		{"form colon", "Section A: Details", model.DocumentForm, DocumentType},
		{"form avoid field", "Employee Details Section", model.DocumentForm, DocumentType},
		{"form ok", "Leave Request Details", model.DocumentForm, Keep},
		{"form too long", strings.Repeat("Long ", 11) + "Title", model.DocumentForm, DocumentType},
		{"academic dots", "Ref a.b.c.d.e list", model.DocumentAcademic, DocumentType},
		{"academic ok", "Course Learning Outcomes", model.DocumentAcademic, Keep},
		{"technical parentheses", "Setup (a) (b) (c) (d)", model.DocumentTechnical, DocumentType},
		{"technical allows three", "Setup (a) (b) (c) steps", model.DocumentTechnical, Keep},
		{"simple parentheses", "Setup (a) (b) (c) steps", model.DocumentSimple, DocumentType},
		{"business uses simple rules", "Copyright and licensing", model.DocumentBusiness, DocumentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Check(tt.text, tt.docType); got != tt.want {
				t.Errorf("Check(%q, %v) = %q, want %q", tt.text, tt.docType, got, tt.want)
			}
		})
	}
}

func TestApplyRemovesDuplicatesAndNearDuplicates(t *testing.T) {
	f := newFilter(t)
	in := candidates(
		"Project Overview",
		"Project Overview",
		"project overview",
		"Background Material",
		"Background Material Notes",
	)

	got := texts(f.Apply(in, &model.DocumentProfile{}))
	want := []string{"Project Overview", "Background Material", "Background Material Notes"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Apply() = %q, want %q", got, want)
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	f := newFilter(t)
	in := candidates(
		"1. Introduction",
		"1. Introduction",
		"42",
		"However this is body text",
		"Project Overview",
		"Project Overview Notes",
		"Project Overview Notes Extra",
		"2. Related Work",
		"Results were strong.",
		"Appendix A Data Tables",
	)
	profile := &model.DocumentProfile{}

	once := f.Apply(in, profile)
	twice := f.Apply(once, profile)

	if strings.Join(texts(once), "|") != strings.Join(texts(twice), "|") {
		t.Errorf("Apply not idempotent:\n once  = %q\n twice = %q", texts(once), texts(twice))
	}
	if len(once) == 0 {
		t.Fatal("expected some candidates to survive")
	}
}

func TestApplyFormDocumentDropsFieldLabels(t *testing.T) {
	f := newFilter(t)
	profile := &model.DocumentProfile{Indicators: model.StructureIndicators{IsForm: true}}
	in := candidates("Name:", "Employee Name: John", "Leave Request Details")

	got := texts(f.Apply(in, profile))
	if len(got) != 1 || got[0] != "Leave Request Details" {
		t.Errorf("Apply() = %q, want only the non-field heading", got)
	}
	if r := f.Check("Name:", model.DocumentForm); r == Keep {
		t.Error("Name: should be rejected in a form document")
	}
}

func TestApplyEmpty(t *testing.T) {
	f := newFilter(t)
	if got := f.Apply(nil, nil); got != nil {
		t.Errorf("Apply(nil) = %v, want nil", got)
	}
}

func TestNonLatinTextIsNotNoise(t *testing.T) {
	f := newFilter(t)

	for _, text := range []string{"第1章 概要", "제1장 개요", "مقدمة البحث"} {
		if f.isNoise(text) {
			t.Errorf("isNoise(%q) = true, want false", text)
		}
	}
	if got := f.Check("第1章 システム概要の説明", model.DocumentSimple); got != Keep {
		t.Errorf("Check(Japanese heading) = %q, want keep", got)
	}
}
