package model

// Heading is a single outline entry. Page is 0-based.
type Heading struct {
	Level Level  `json:"level" yaml:"level"`
	Text  string `json:"text" yaml:"text"`
	Page  int    `json:"page" yaml:"page"`
}

// Metrics are selection-ratio estimates reported by the accuracy scorer.
// They are not measured against labelled data.
type Metrics struct {
	Precision       float64 `json:"precision_score" yaml:"precision_score"`
	Recall          float64 `json:"recall_score" yaml:"recall_score"`
	F1              float64 `json:"f1_score" yaml:"f1_score"`
	TotalCandidates int     `json:"total_candidates" yaml:"total_candidates"`
	SelectedCount   int     `json:"selected_count" yaml:"selected_count"`
}

// Result is the output of a single document extraction.
type Result struct {
	Title   string    `json:"title" yaml:"title"`
	Outline []Heading `json:"outline" yaml:"outline"`
	Metrics *Metrics  `json:"_accuracy_metrics,omitempty" yaml:"_accuracy_metrics,omitempty"`
}

// EmptyResult returns {title: "", outline: []}.
func EmptyResult() Result {
	return Result{Outline: []Heading{}}
}

// Persistable returns a copy of the result without the diagnostic metrics
// block.
func (r Result) Persistable() Result {
	out := Result{Title: r.Title, Outline: r.Outline}
	if out.Outline == nil {
		out.Outline = []Heading{}
	}
	return out
}
