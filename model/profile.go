package model

// DocumentType is the coarse document category derived from the profile.
type DocumentType int

const (
	DocumentSimple DocumentType = iota
	DocumentForm
	DocumentAcademic
	DocumentTechnical
	DocumentBusiness
)

// String returns the lowercase name of the document type.
func (t DocumentType) String() string {
	switch t {
	case DocumentForm:
		return "form"
	case DocumentAcademic:
		return "academic"
	case DocumentTechnical:
		return "technical"
	case DocumentBusiness:
		return "business"
	default:
		return "simple"
	}
}

// StructureIndicators are the boolean signals computed by the profiler.
type StructureIndicators struct {
	IsForm              bool `json:"is_form" yaml:"is_form"`
	IsAcademic          bool `json:"is_academic" yaml:"is_academic"`
	IsTechnical         bool `json:"is_technical" yaml:"is_technical"`
	IsBusiness          bool `json:"is_business" yaml:"is_business"`
	HasTOC              bool `json:"has_toc" yaml:"has_toc"`
	HasNumberedSections bool `json:"has_numbered_sections" yaml:"has_numbered_sections"`
}

// MultimodalFeatures aggregates classifier predictions over sampled pages.
type MultimodalFeatures struct {
	TotalPredictions   int           `json:"total_predictions" yaml:"total_predictions"`
	HeadingPredictions int           `json:"heading_predictions" yaml:"heading_predictions"`
	HeadingRatio       float64       `json:"heading_ratio" yaml:"heading_ratio"`
	AvgConfidence      float64       `json:"avg_confidence" yaml:"avg_confidence"`
	LevelDistribution  map[Level]int `json:"level_distribution" yaml:"level_distribution"`
}

// DocumentProfile summarises the early pages of a document. It is built
// once by the profiler and only read afterwards.
type DocumentProfile struct {
	Indicators     StructureIndicators `json:"structure" yaml:"structure"`
	FontStats      map[string]int      `json:"font_stats" yaml:"font_stats"`
	FontVariety    int                 `json:"font_variety" yaml:"font_variety"`
	AvgTextPerPage float64             `json:"avg_text_per_page" yaml:"avg_text_per_page"`
	PageCount      int                 `json:"page_count" yaml:"page_count"`
	TextSample     string              `json:"text_sample" yaml:"text_sample"`
	Multimodal     *MultimodalFeatures `json:"multimodal_features,omitempty" yaml:"multimodal_features,omitempty"`
}

// DocumentType resolves the indicators to a single type. Forms take
// precedence, then academic, technical and business documents.
func (p *DocumentProfile) DocumentType() DocumentType {
	if p == nil {
		return DocumentSimple
	}
	switch {
	case p.Indicators.IsForm:
		return DocumentForm
	case p.Indicators.IsAcademic:
		return DocumentAcademic
	case p.Indicators.IsTechnical:
		return DocumentTechnical
	case p.Indicators.IsBusiness:
		return DocumentBusiness
	default:
		return DocumentSimple
	}
}

// WithMultimodal returns a copy of the profile carrying the given features.
func (p DocumentProfile) WithMultimodal(f *MultimodalFeatures) DocumentProfile {
	p.Multimodal = f
	return p
}
