package config

import (
	"time"

	"github.com/tsawler/outline/model"
)

// Config is the complete pipeline configuration. Values are read-only after
// Build returns.
type Config struct {
	Clustering     Clustering     `yaml:"clustering"`
	FontThresholds FontThresholds `yaml:"font_thresholds"`
	Distance       Distance       `yaml:"distance"`
	TextLimits     TextLimits     `yaml:"text_limits"`
	DocumentTypes  DocumentTypes  `yaml:"document_types"`
	Filtering      Filtering      `yaml:"filtering"`
	Hierarchy      Hierarchy      `yaml:"hierarchy"`
	Accuracy       Accuracy       `yaml:"accuracy"`
	Multilingual   Multilingual   `yaml:"multilingual"`
	Title          Title          `yaml:"title"`
	Profile        Profile        `yaml:"profile"`
	Multimodal     Multimodal     `yaml:"multimodal"`
	Performance    Performance    `yaml:"performance"`

	// Preset is the name of the preset the configuration was built from.
	Preset string `yaml:"preset"`

	patterns *Patterns
}

// Clustering controls candidate clustering and cluster scoring.
type Clustering struct {
	MinClusters   int   `yaml:"min_clusters"`
	MaxClusters   int   `yaml:"max_clusters"`
	ClusterRatio  int   `yaml:"cluster_ratio"`
	RandomState   int64 `yaml:"random_state"`
	NInit         int   `yaml:"n_init"`
	MaxIterations int   `yaml:"max_iterations"`

	// MinFragments is the fragment count below which clustering is skipped
	// and every fragment becomes a candidate.
	MinFragments int `yaml:"min_fragments"`

	// ScoreThreshold is the minimum cluster score for its members to become
	// candidates.
	ScoreThreshold int `yaml:"score_threshold"`

	ShortTextLength int `yaml:"short_text_length"`
	EarlyPageLimit  int `yaml:"early_page_limit"`

	SectionKeywords []string      `yaml:"section_keywords"`
	Scores          ClusterScores `yaml:"scores"`
}

// ClusterScores are the integer points and ratio cut-offs of the cluster
// score.
type ClusterScores struct {
	LargeFont       int     `yaml:"large_font"`
	HeadingFont     int     `yaml:"heading_font"`
	ShortLength     int     `yaml:"short_length"`
	MediumLength    int     `yaml:"medium_length"`
	HighBold        int     `yaml:"high_bold"`
	MediumBold      int     `yaml:"medium_bold"`
	Numbered        int     `yaml:"numbered"`
	Keyword         int     `yaml:"keyword"`
	EarlyPage       int     `yaml:"early_page"`
	TitleCase       int     `yaml:"title_case"`
	HighBoldRatio   float64 `yaml:"high_bold_ratio"`
	MediumBoldRatio float64 `yaml:"medium_bold_ratio"`
	EarlyPageRatio  float64 `yaml:"early_page_ratio"`
	TitleCaseRatio  float64 `yaml:"title_case_ratio"`
}

// FontThresholds are font size cut-offs in points.
type FontThresholds struct {
	MinHeadingSize     float64 `yaml:"min_heading_size"`
	LargeFontThreshold float64 `yaml:"large_font_threshold"`
	SmallFontThreshold float64 `yaml:"small_font_threshold"`
	TitleFontThreshold float64 `yaml:"title_font_threshold"`
	MaxCapsLength      int     `yaml:"max_caps_length"`
}

// Distance holds the line merging tolerances used by the reconstructor.
type Distance struct {
	FontSizeTolerance  float64 `yaml:"font_size_tolerance"`
	GroupingDistance   float64 `yaml:"grouping_distance"`
	LargeFontTolerance float64 `yaml:"large_font_tolerance"`
	LargeFontDistance  float64 `yaml:"large_font_distance"`
}

// TextLimits are character-count limits. All lengths count runes.
type TextLimits struct {
	MinTextLength       int     `yaml:"min_text_length"`
	MaxTextLength       int     `yaml:"max_text_length"`
	MinWordAvgLength    float64 `yaml:"min_word_avg_length"`
	MinLineLength       int     `yaml:"min_line_length"`
	MinFragmentLength   int     `yaml:"min_fragment_length"`
	MinCandidateLength  int     `yaml:"min_candidate_length"`
	MaxFormHeading      int     `yaml:"max_form_heading"`
	MaxAcademicHeading  int     `yaml:"max_academic_heading"`
	MaxTechnicalHeading int     `yaml:"max_technical_heading"`
	MaxSimpleHeading    int     `yaml:"max_simple_heading"`
	MaxComplexHeading   int     `yaml:"max_complex_heading"`
}

// DocumentTypes holds the indicator lists and per-type filter limits.
type DocumentTypes struct {
	Form      FormType      `yaml:"form"`
	Academic  AcademicType  `yaml:"academic"`
	Technical TechnicalType `yaml:"technical"`
	Business  BusinessType  `yaml:"business"`
	Simple    SimpleType    `yaml:"simple"`
}

// FormType configures form detection, form titles and form filtering.
type FormType struct {
	Indicators    []string `yaml:"indicators"`
	MinIndicators int      `yaml:"min_indicators"`
	TitleKeywords []string `yaml:"title_keywords"`
	AvoidKeywords []string `yaml:"avoid_keywords"`
	AvoidFields   []string `yaml:"avoid_fields"`
}

// AcademicType configures academic document detection and filtering.
type AcademicType struct {
	Indicators    []string `yaml:"indicators"`
	MinIndicators int      `yaml:"min_indicators"`
	MaxDots       int      `yaml:"max_dots"`
}

// TechnicalType configures technical document detection and filtering.
type TechnicalType struct {
	Indicators     []string `yaml:"indicators"`
	MinIndicators  int      `yaml:"min_indicators"`
	MaxParentheses int      `yaml:"max_parentheses"`
}

// BusinessType configures business document detection.
type BusinessType struct {
	Indicators    []string `yaml:"indicators"`
	MinIndicators int      `yaml:"min_indicators"`
	AvoidFields   []string `yaml:"avoid_fields"`
}

// SimpleType configures filtering for documents of no specific type.
type SimpleType struct {
	MaxUnderscores int      `yaml:"max_underscores"`
	MaxParentheses int      `yaml:"max_parentheses"`
	AvoidPatterns  []string `yaml:"avoid_patterns"`
}

// ModalLimit rejects text in which Word occurs more than Max times.
type ModalLimit struct {
	Word string `yaml:"word"`
	Max  int    `yaml:"max"`
}

// Filtering configures the candidate filter.
type Filtering struct {
	// NoisePatterns are matched case-insensitively against the trimmed text.
	NoisePatterns  []string `yaml:"noise_patterns"`
	AvoidGeneral   []string `yaml:"avoid_general"`
	AvoidMetadata  []string `yaml:"avoid_metadata"`
	MinUniqueChars int      `yaml:"min_unique_chars"`
	MaxSpaceRatio  float64  `yaml:"max_space_ratio"`

	SentenceStarters    []string `yaml:"sentence_starters"`
	LongSentenceLength  int      `yaml:"long_sentence_length"`
	MultiSentenceLength int      `yaml:"multi_sentence_length"`

	// UnlikelyPatterns reject version numbers, dates and page references.
	// They are matched against the lowercase text.
	UnlikelyPatterns []string     `yaml:"unlikely_patterns"`
	LegalModals      []ModalLimit `yaml:"legal_modals"`

	JaccardThreshold float64 `yaml:"jaccard_threshold"`

	// HeadingPatterns mark text as a likely heading. They are matched
	// against the lowercase text.
	HeadingPatterns    []string `yaml:"heading_patterns"`
	ShortPhraseWords   int      `yaml:"short_phrase_words"`
	ShortPhraseLength  int      `yaml:"short_phrase_length"`
	InstructionalWords []string `yaml:"instructional_words"`
}

// StructuralRule maps a numbering pattern to a heading level.
type StructuralRule struct {
	Pattern string      `yaml:"pattern"`
	Level   model.Level `yaml:"level"`
}

// Hierarchy configures the level determiner.
type Hierarchy struct {
	// StructuralRules are tried in order; the first match wins.
	StructuralRules     []StructuralRule `yaml:"structural_rules"`
	MainSectionKeywords []string         `yaml:"main_section_keywords"`
	SecondaryKeywords   []string         `yaml:"secondary_keywords"`

	PositionMaxPage   int `yaml:"position_max_page"`
	PositionMaxLength int `yaml:"position_max_length"`

	// TopSizePoints are awarded for the largest, second and third largest
	// distinct font sizes in the candidate set.
	TopSizePoints      []int `yaml:"top_size_points"`
	BoldPoints         int   `yaml:"bold_points"`
	ShortLength        int   `yaml:"short_length"`
	ShortLengthPoints  int   `yaml:"short_length_points"`
	MediumLength       int   `yaml:"medium_length"`
	MediumLengthPoints int   `yaml:"medium_length_points"`
	EarlyPage          int   `yaml:"early_page"`
	EarlyPagePoints    int   `yaml:"early_page_points"`
	CasePoints         int   `yaml:"case_points"`
	ShortCapsWords     int   `yaml:"short_caps_words"`
	H1Score            int   `yaml:"h1_score"`
	H2Score            int   `yaml:"h2_score"`
}

// Weights are the quality score component weights.
type Weights struct {
	Structural   float64 `yaml:"structural"`
	Semantic     float64 `yaml:"semantic"`
	Typography   float64 `yaml:"typography"`
	Position     float64 `yaml:"position"`
	Multilingual float64 `yaml:"multilingual"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Structural + w.Semantic + w.Typography + w.Position + w.Multilingual
}

// Accuracy configures the accuracy enhancer.
type Accuracy struct {
	Enabled bool    `yaml:"enabled"`
	Weights Weights `yaml:"weights"`

	ThresholdMin    float64 `yaml:"threshold_min"`
	ThresholdMax    float64 `yaml:"threshold_max"`
	ThresholdFactor float64 `yaml:"threshold_factor"`
	// ThresholdDefault is used when there are no scores.
	ThresholdDefault float64 `yaml:"threshold_default"`

	Precision Precision       `yaml:"precision"`
	Recall    Recall          `yaml:"recall"`
	Scoring   Scoring         `yaml:"scoring"`
	Metrics   MetricsEstimate `yaml:"metrics"`
}

// Precision configures the precision pass.
type Precision struct {
	MinLength      int `yaml:"min_length"`
	MaxLength      int `yaml:"max_length"`
	MinUniqueChars int `yaml:"min_unique_chars"`
	// NumericPattern rejects text made only of digits and separators.
	NumericPattern string `yaml:"numeric_pattern"`

	MaxPerPage    int     `yaml:"max_per_page"`
	PageSizeRatio float64 `yaml:"page_size_ratio"`
	SizeTolerance float64 `yaml:"size_tolerance"`
	MinSimilar    int     `yaml:"min_similar"`
	LowBoldRatio  float64 `yaml:"low_bold_ratio"`
	HighBoldRatio float64 `yaml:"high_bold_ratio"`
	DefaultSize   float64 `yaml:"default_size"`

	// NonHeadingPatterns reject obvious non-heading phrases.
	NonHeadingPatterns []string `yaml:"non_heading_patterns"`
}

// Recall configures the recovery strategies.
type Recall struct {
	Enabled          bool     `yaml:"enabled"`
	RelaxedSizeRatio float64  `yaml:"relaxed_size_ratio"`
	MaxRelaxedLength int      `yaml:"max_relaxed_length"`
	NumberPatterns   []string `yaml:"number_patterns"`
	MaxJoinedLength  int      `yaml:"max_joined_length"`
}

// Scoring holds the per-component quality score tiers.
type Scoring struct {
	SectionPatterns []string `yaml:"section_patterns"`
	NumberedScore   float64  `yaml:"numbered_score"`
	SubsectionScore float64  `yaml:"subsection_score"`
	LetteredScore   float64  `yaml:"lettered_score"`
	SectionScore    float64  `yaml:"section_score"`

	IdealLength      [2]int  `yaml:"ideal_length"`
	IdealLengthScore float64 `yaml:"ideal_length_score"`
	OkLength         [2]int  `yaml:"ok_length"`
	OkLengthScore    float64 `yaml:"ok_length_score"`
	OtherLengthScore float64 `yaml:"other_length_score"`
	IdealWords       [2]int  `yaml:"ideal_words"`
	IdealWordsScore  float64 `yaml:"ideal_words_score"`
	OkWords          [2]int  `yaml:"ok_words"`
	OkWordsScore     float64 `yaml:"ok_words_score"`
	TitleCaseScore   float64 `yaml:"title_case_score"`
	UpperCaseScore   float64 `yaml:"upper_case_score"`
	UpperCaseLength  int     `yaml:"upper_case_length"`

	// TypographyTiers map size ratios (to the largest size) to scores,
	// checked in order: a ratio above Min earns Score.
	TypographyTiers []Tier  `yaml:"typography_tiers"`
	TypographyFloor float64 `yaml:"typography_floor"`

	// PositionTiers map a maximum 1-based page to a score, checked in order.
	PositionTiers []Tier  `yaml:"position_tiers"`
	PositionFloor float64 `yaml:"position_floor"`
}

// Tier is a threshold and the score awarded when it is met.
type Tier struct {
	Min   float64 `yaml:"min"`
	Score float64 `yaml:"score"`
}

// MetricsEstimate configures the selection-ratio metric estimates.
type MetricsEstimate struct {
	BasePrecision   float64 `yaml:"base_precision"`
	PrecisionSpread float64 `yaml:"precision_spread"`
	ExpectedRatio   float64 `yaml:"expected_ratio"`
}

// Language is a script family with its detection pattern and heading cues.
type Language struct {
	Name string `yaml:"name"`
	// Detect is matched against the lowercase text.
	Detect            string   `yaml:"detect"`
	SectionKeywords   []string `yaml:"section_keywords"`
	NumberingPatterns []string `yaml:"numbering_patterns"`
}

// Multilingual configures language detection and boosts.
type Multilingual struct {
	// Languages are tried in order; the first detected language wins.
	Languages       []Language `yaml:"languages"`
	DefaultLanguage string     `yaml:"default_language"`
	KeywordBoost    float64    `yaml:"keyword_boost"`
	NumberingBoost  float64    `yaml:"numbering_boost"`
	Normalize       bool       `yaml:"normalize"`
	FoldWidth       bool       `yaml:"fold_width"`
}

// Title configures the title extractor.
type Title struct {
	FormLines     int    `yaml:"form_lines"`
	FormMinLength int    `yaml:"form_min_length"`
	FormMaxLength int    `yaml:"form_max_length"`
	NumberedLine  string `yaml:"numbered_line"`

	FontSizes       int    `yaml:"font_sizes"`
	FontMinLength   int    `yaml:"font_min_length"`
	FontMaxLength   int    `yaml:"font_max_length"`
	ConstantPattern string `yaml:"constant_pattern"`
	MaxUnderscores  int    `yaml:"max_underscores"`
	MaxDashes       int    `yaml:"max_dashes"`

	GenericLines         int      `yaml:"generic_lines"`
	GenericMinLength     int      `yaml:"generic_min_length"`
	GenericMaxLength     int      `yaml:"generic_max_length"`
	MinWords             int      `yaml:"min_words"`
	MaxWords             int      `yaml:"max_words"`
	MaxDots              int      `yaml:"max_dots"`
	TitleAvoidPrefixes   []string `yaml:"title_avoid_prefixes"`
	ContinuationLines    int      `yaml:"continuation_lines"`
	ContinuationMin      int      `yaml:"continuation_min"`
	ContinuationMax      int      `yaml:"continuation_max"`
	ContinuationPrefixes []string `yaml:"continuation_prefixes"`
	ContinuationMaxDots  int      `yaml:"continuation_max_dots"`
	MinCombinedLength    int      `yaml:"min_combined_length"`

	FallbackLines     int `yaml:"fallback_lines"`
	FallbackMinLength int `yaml:"fallback_min_length"`
	FallbackMaxLength int `yaml:"fallback_max_length"`

	// EventIndicators clear the title when found in the profile text sample.
	EventIndicators []string `yaml:"event_indicators"`
}

// Profile configures the document profiler.
type Profile struct {
	SamplePages     int      `yaml:"sample_pages"`
	TextSampleChars int      `yaml:"text_sample_chars"`
	TOCPhrases      []string `yaml:"toc_phrases"`
	NumberedPattern string   `yaml:"numbered_pattern"`
}

// Thresholds are per-level confidence thresholds.
type Thresholds struct {
	Title float64 `yaml:"title"`
	H1    float64 `yaml:"h1"`
	H2    float64 `yaml:"h2"`
	H3    float64 `yaml:"h3"`
}

// For returns the threshold for a level. Unknown levels use 0.5.
func (t Thresholds) For(level model.Level) float64 {
	switch level {
	case model.LevelTitle:
		return t.Title
	case model.LevelH1:
		return t.H1
	case model.LevelH2:
		return t.H2
	case model.LevelH3:
		return t.H3
	}
	return 0.5
}

// Multimodal configures the optional classifier.
type Multimodal struct {
	Enabled              bool          `yaml:"enabled"`
	Endpoint             string        `yaml:"endpoint"`
	APIKey               string        `yaml:"api_key"`
	Timeout              time.Duration `yaml:"timeout"`
	RetryAttempts        uint          `yaml:"retry_attempts"`
	RetryDelay           time.Duration `yaml:"retry_delay"`
	ConfidenceThresholds Thresholds    `yaml:"confidence_thresholds"`
	MaxPagesAnalyze      int           `yaml:"max_pages_analyze"`
	MaxPayloadMB         int           `yaml:"max_payload_mb"`
	UseOCR               bool          `yaml:"use_ocr"`
	OCRLanguage          string        `yaml:"ocr_language"`
	RenderDPI            int           `yaml:"render_dpi"`
	ImageSize            int           `yaml:"image_size"`
	BoxScale             int           `yaml:"box_scale"`
}

// Performance configures the worker pool and the observe-only monitor.
type Performance struct {
	MaxWorkers     int           `yaml:"max_workers"`
	TimeLimit      time.Duration `yaml:"time_limit"`
	MemoryLimitMB  int           `yaml:"memory_limit_mb"`
	MonitorEnabled bool          `yaml:"monitor_enabled"`
}
