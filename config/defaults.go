package config

import (
	"time"

	"github.com/tsawler/outline/model"
)

// Default returns the balanced configuration. Each call returns a fresh
// value that the caller may modify before building.
func Default() Config {
	return Config{
		Preset: PresetBalanced,
		Clustering: Clustering{
			MinClusters:     2,
			MaxClusters:     5,
			ClusterRatio:    3,
			RandomState:     42,
			NInit:           10,
			MaxIterations:   300,
			MinFragments:    5,
			ScoreThreshold:  5,
			ShortTextLength: 30,
			EarlyPageLimit:  3,
			SectionKeywords: []string{
				"introduction", "overview", "conclusion", "summary", "background",
				"methodology", "results", "discussion", "references",
			},
			Scores: ClusterScores{
				LargeFont:       3,
				HeadingFont:     2,
				ShortLength:     3,
				MediumLength:    2,
				HighBold:        3,
				MediumBold:      2,
				Numbered:        4,
				Keyword:         3,
				EarlyPage:       2,
				TitleCase:       2,
				HighBoldRatio:   0.7,
				MediumBoldRatio: 0.3,
				EarlyPageRatio:  0.5,
				TitleCaseRatio:  0.5,
			},
		},
		FontThresholds: FontThresholds{
			MinHeadingSize:     11,
			LargeFontThreshold: 14,
			SmallFontThreshold: 9,
			TitleFontThreshold: 20,
			MaxCapsLength:      30,
		},
		Distance: Distance{
			FontSizeTolerance:  2.0,
			GroupingDistance:   30,
			LargeFontTolerance: 3.0,
			LargeFontDistance:  40,
		},
		TextLimits: TextLimits{
			MinTextLength:       3,
			MaxTextLength:       200,
			MinWordAvgLength:    2,
			MinLineLength:       3,
			MinFragmentLength:   5,
			MinCandidateLength:  8,
			MaxFormHeading:      50,
			MaxAcademicHeading:  150,
			MaxTechnicalHeading: 150,
			MaxSimpleHeading:    100,
			MaxComplexHeading:   150,
		},
		DocumentTypes: DocumentTypes{
			Form: FormType{
				Indicators:    []string{"application", "form", "template", "document", "submission"},
				MinIndicators: 1,
				TitleKeywords: []string{"application", "document", "form", "template", "submission"},
				AvoidKeywords: []string{"microsoft", "word", ".doc", "file", ".pdf"},
				AvoidFields:   []string{"name:", "date:", "signature:", "employee"},
			},
			Academic: AcademicType{
				Indicators:    []string{"syllabus", "curriculum", "course", "university", "college", "academic"},
				MinIndicators: 1,
				MaxDots:       3,
			},
			Technical: TechnicalType{
				Indicators:     []string{"technical", "specification", "manual", "guide", "documentation"},
				MinIndicators:  1,
				MaxParentheses: 3,
			},
			Business: BusinessType{
				Indicators:    []string{"memo", "report", "proposal", "minutes"},
				MinIndicators: 1,
				AvoidFields:   []string{"name:", "date:", "signature:", "employee"},
			},
			Simple: SimpleType{
				MaxUnderscores: 2,
				MaxParentheses: 2,
				AvoidPatterns:  []string{"copyright", "©", "all rights reserved"},
			},
		},
		Filtering: Filtering{
			NoisePatterns: []string{
				`^[\s\-_\.]+$`,
				`^\d+$`,
				`^[^\p{L}\p{N}_\s]*$`,
				`^(page|p\.)\s*\d+`,
				`^\s*\d+\s*/\s*\d+\s*$`,
			},
			AvoidGeneral: []string{
				"copyright", "all rights reserved", "©", "confidential",
				"draft", "preliminary", "internal use",
			},
			AvoidMetadata: []string{
				"filename", "author", "created", "modified",
				"subject", "keywords", "producer",
			},
			MinUniqueChars: 3,
			MaxSpaceRatio:  0.7,
			SentenceStarters: []string{
				"those", "these", "this", "that", "when", "where", "while", "during",
				"after", "before", "since", "until", "although", "however", "therefore",
				"moreover", "furthermore", "in addition", "for example", "such as",
			},
			LongSentenceLength:  120,
			MultiSentenceLength: 50,
			UnlikelyPatterns: []string{
				`\b(version|v\d+|\d{4}|\d+/\d+|\d+-\d+)\b`,
				`\bpage\s+\d+|\bp\.\s*\d+|\bpp\.\s*\d+`,
			},
			LegalModals: []ModalLimit{
				{Word: " be ", Max: 1},
				{Word: " shall ", Max: 0},
				{Word: " must ", Max: 0},
				{Word: " will ", Max: 1},
			},
			JaccardThreshold: 0.8,
			HeadingPatterns: []string{
				`^\d+\.?\s+[a-z]`,
				`^[a-z]+\s+(overview|introduction|summary|conclusion)`,
				`^(overview|introduction|background|summary|conclusion|references)`,
				`^chapter\s+\d+`,
				`^section\s+\d+`,
				`^appendix\s+[a-z]`,
			},
			ShortPhraseWords:   6,
			ShortPhraseLength:  80,
			InstructionalWords: []string{"will", "shall", "must", "should", "can", "may"},
		},
		Hierarchy: Hierarchy{
			StructuralRules: []StructuralRule{
				{Pattern: `^\d+\.\s+[A-Z]`, Level: model.LevelH1},
				{Pattern: `^\d+\.\d+\s+[A-Z]`, Level: model.LevelH2},
				{Pattern: `^\d+\.\d+\.\d+\s+[A-Z]`, Level: model.LevelH3},
				{Pattern: `^[A-Z]\.\s+[A-Z]`, Level: model.LevelH2},
				{Pattern: `^[IVX]+\.\s+[A-Z]`, Level: model.LevelH1},
			},
			MainSectionKeywords: []string{
				"introduction", "overview", "background", "conclusion", "summary",
				"methodology", "results", "discussion", "references", "appendix",
			},
			SecondaryKeywords:  []string{"table of contents", "contents", "revision history", "references"},
			PositionMaxPage:    2,
			PositionMaxLength:  50,
			TopSizePoints:      []int{3, 2, 1},
			BoldPoints:         2,
			ShortLength:        20,
			ShortLengthPoints:  2,
			MediumLength:       40,
			MediumLengthPoints: 1,
			EarlyPage:          3,
			EarlyPagePoints:    1,
			CasePoints:         1,
			ShortCapsWords:     3,
			H1Score:            6,
			H2Score:            4,
		},
		Accuracy: Accuracy{
			Enabled: true,
			Weights: Weights{
				Structural:   0.35,
				Semantic:     0.25,
				Typography:   0.20,
				Position:     0.15,
				Multilingual: 0.05,
			},
			ThresholdMin:     0.3,
			ThresholdMax:     0.8,
			ThresholdFactor:  0.8,
			ThresholdDefault: 0.5,
			Precision: Precision{
				MinLength:      3,
				MaxLength:      200,
				MinUniqueChars: 3,
				NumericPattern: `^[\d\s\-_\.]+$`,
				MaxPerPage:     10,
				PageSizeRatio:  0.8,
				SizeTolerance:  1.0,
				MinSimilar:     2,
				LowBoldRatio:   0.3,
				HighBoldRatio:  0.7,
				DefaultSize:    12.0,
				NonHeadingPatterns: []string{
					`page\s+\d+`, `figure\s+\d+`, `table\s+\d+`,
					`see\s+page`, `continued\s+on`, `end\s+of`,
					`total\s*:`, `sum\s*:`, `amount\s*:`,
				},
			},
			Recall: Recall{
				Enabled:          false,
				RelaxedSizeRatio: 0.9,
				MaxRelaxedLength: 80,
				NumberPatterns: []string{
					`^\d+\.\s+\p{Lu}`,
					`^\d+\.\d+(\.\d+)?\s+\p{Lu}`,
					`^(chapter|section|appendix)\s+\w+`,
				},
				MaxJoinedLength: 150,
			},
			Scoring: Scoring{
				SectionPatterns: []string{
					`introduction`, `conclusion`, `summary`, `overview`,
					`background`, `methodology`, `results`, `discussion`,
					`references`, `appendix`, `chapter\s+\d+`, `section\s+\d+`,
				},
				NumberedScore:    0.9,
				SubsectionScore:  0.8,
				LetteredScore:    0.7,
				SectionScore:     0.6,
				IdealLength:      [2]int{10, 60},
				IdealLengthScore: 0.8,
				OkLength:         [2]int{5, 100},
				OkLengthScore:    0.6,
				OtherLengthScore: 0.3,
				IdealWords:       [2]int{2, 8},
				IdealWordsScore:  0.7,
				OkWords:          [2]int{1, 12},
				OkWordsScore:     0.5,
				TitleCaseScore:   0.5,
				UpperCaseScore:   0.4,
				UpperCaseLength:  50,
				TypographyTiers: []Tier{
					{Min: 0.9, Score: 0.9},
					{Min: 0.7, Score: 0.7},
					{Min: 0.5, Score: 0.5},
				},
				TypographyFloor: 0.3,
				PositionTiers: []Tier{
					{Min: 2, Score: 0.9},
					{Min: 5, Score: 0.7},
					{Min: 10, Score: 0.6},
				},
				PositionFloor: 0.5,
			},
			Metrics: MetricsEstimate{
				BasePrecision:   0.8,
				PrecisionSpread: 0.2,
				ExpectedRatio:   0.7,
			},
		},
		Multilingual: Multilingual{
			Languages:       defaultLanguages(),
			DefaultLanguage: "english",
			KeywordBoost:    0.2,
			NumberingBoost:  0.3,
			Normalize:       true,
			FoldWidth:       true,
		},
		Title: Title{
			FormLines:            20,
			FormMinLength:        20,
			FormMaxLength:        120,
			NumberedLine:         `^\d+[.\s]`,
			FontSizes:            3,
			FontMinLength:        15,
			FontMaxLength:        200,
			ConstantPattern:      `[A-Z]{2,}_[A-Z]{2,}`,
			MaxUnderscores:       2,
			MaxDashes:            5,
			GenericLines:         15,
			GenericMinLength:     15,
			GenericMaxLength:     200,
			MinWords:             2,
			MaxWords:             15,
			MaxDots:              3,
			TitleAvoidPrefixes:   []string{"page", "p.", "section", "chapter"},
			ContinuationLines:    2,
			ContinuationMin:      10,
			ContinuationMax:      100,
			ContinuationPrefixes: []string{"page", "p.", "section"},
			ContinuationMaxDots:  1,
			MinCombinedLength:    30,
			FallbackLines:        10,
			FallbackMinLength:    10,
			FallbackMaxLength:    150,
			EventIndicators:      []string{"party", "jump", "event"},
		},
		Profile: Profile{
			SamplePages:     3,
			TextSampleChars: 1000,
			TOCPhrases:      []string{"table of contents", "contents"},
			NumberedPattern: `\b\d+\.\d+\s+[A-Z]`,
		},
		Multimodal: Multimodal{
			Enabled:       false,
			Timeout:       30 * time.Second,
			RetryAttempts: 3,
			RetryDelay:    500 * time.Millisecond,
			ConfidenceThresholds: Thresholds{
				Title: 0.8,
				H1:    0.7,
				H2:    0.6,
				H3:    0.5,
			},
			MaxPagesAnalyze: 3,
			MaxPayloadMB:    200,
			OCRLanguage:     "eng",
			RenderDPI:       150,
			ImageSize:       1000,
			BoxScale:        1000,
		},
		Performance: Performance{
			MaxWorkers:     6,
			TimeLimit:      3 * time.Second,
			MemoryLimitMB:  200,
			MonitorEnabled: true,
		},
	}
}

func defaultLanguages() []Language {
	return []Language{
		{
			Name:              "japanese",
			Detect:            `[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]`,
			SectionKeywords:   []string{"章", "節", "項", "概要", "背景", "結論", "参考文献", "付録"},
			NumberingPatterns: []string{`第\d+章`, `第\d+節`, `\d+\.\d+`, `[一二三四五六七八九十]+章`},
		},
		{
			Name:              "chinese",
			Detect:            `[\x{4E00}-\x{9FFF}]`,
			SectionKeywords:   []string{"章", "节", "概述", "背景", "结论", "参考文献", "附录"},
			NumberingPatterns: []string{`第\d+章`, `第\d+节`, `\d+\.\d+`},
		},
		{
			Name:              "korean",
			Detect:            `[\x{AC00}-\x{D7AF}]`,
			SectionKeywords:   []string{"장", "절", "개요", "배경", "결론", "참고문헌", "부록"},
			NumberingPatterns: []string{`제\d+장`, `제\d+절`, `\d+\.\d+`},
		},
		{
			Name:              "arabic",
			Detect:            `[\x{0600}-\x{06FF}]`,
			SectionKeywords:   []string{"فصل", "باب", "خلاصة", "مقدمة", "خاتمة", "مراجع"},
			NumberingPatterns: []string{`\d+\.\d+`, `الفصل\s+\d+`},
		},
		{
			Name:              "european",
			Detect:            `[àáâãäåæçèéêëìíîïñòóôõöøùúûüýÿ]`,
			SectionKeywords:   []string{"introducción", "conclusión", "résumé", "einführung", "zusammenfassung"},
			NumberingPatterns: []string{`\d+\.\d+`, `capítulo\s+\d+`, `chapitre\s+\d+`, `kapitel\s+\d+`},
		},
	}
}
