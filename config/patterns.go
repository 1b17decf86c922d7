package config

import (
	"fmt"
	"regexp"

	"github.com/tsawler/outline/model"
)

// CompiledRule is a structural rule with its compiled pattern.
type CompiledRule struct {
	Pattern *regexp.Regexp
	Level   model.Level
}

// CompiledLanguage is a language with compiled detection and numbering
// patterns.
type CompiledLanguage struct {
	Name              string
	Detect            *regexp.Regexp
	SectionKeywords   []string
	NumberingPatterns []*regexp.Regexp
}

// Patterns holds every regular expression in the configuration, compiled
// once by Build. A *regexp.Regexp is safe for concurrent use.
type Patterns struct {
	Noise           []*regexp.Regexp
	Unlikely        []*regexp.Regexp
	Heading         []*regexp.Regexp
	Structural      []CompiledRule
	PrecisionNumber *regexp.Regexp
	NonHeading      []*regexp.Regexp
	RecallNumber    []*regexp.Regexp
	Section         []*regexp.Regexp
	Languages       []CompiledLanguage
	NumberedLine    *regexp.Regexp
	Constant        *regexp.Regexp
	ProfileNumbered *regexp.Regexp
}

// Patterns returns the compiled patterns. It panics if the Config was not
// produced by a Builder.
func (c *Config) Patterns() *Patterns {
	if c.patterns == nil {
		panic("config: Patterns called on a Config that was not built with Builder.Build")
	}
	return c.patterns
}

func compile(c *Config) (*Patterns, error) {
	var err error
	p := &Patterns{}

	if p.Noise, err = compileAll("filtering.noise_patterns", "(?i)", c.Filtering.NoisePatterns); err != nil {
		return nil, err
	}
	if p.Unlikely, err = compileAll("filtering.unlikely_patterns", "", c.Filtering.UnlikelyPatterns); err != nil {
		return nil, err
	}
	if p.Heading, err = compileAll("filtering.heading_patterns", "", c.Filtering.HeadingPatterns); err != nil {
		return nil, err
	}
	if p.NonHeading, err = compileAll("accuracy.precision.non_heading_patterns", "", c.Accuracy.Precision.NonHeadingPatterns); err != nil {
		return nil, err
	}
	if p.RecallNumber, err = compileAll("accuracy.recall.number_patterns", "(?i)", c.Accuracy.Recall.NumberPatterns); err != nil {
		return nil, err
	}
	if p.Section, err = compileAll("accuracy.scoring.section_patterns", "", c.Accuracy.Scoring.SectionPatterns); err != nil {
		return nil, err
	}

	for i, r := range c.Hierarchy.StructuralRules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: hierarchy.structural_rules[%d]: %v", ErrInvalid, i, err)
		}
		p.Structural = append(p.Structural, CompiledRule{Pattern: re, Level: r.Level})
	}

	for i, lang := range c.Multilingual.Languages {
		detect, err := regexp.Compile(lang.Detect)
		if err != nil {
			return nil, fmt.Errorf("%w: multilingual.languages[%d].detect: %v", ErrInvalid, i, err)
		}
		numbering, err := compileAll(fmt.Sprintf("multilingual.languages[%d].numbering_patterns", i), "", lang.NumberingPatterns)
		if err != nil {
			return nil, err
		}
		p.Languages = append(p.Languages, CompiledLanguage{
			Name:              lang.Name,
			Detect:            detect,
			SectionKeywords:   lang.SectionKeywords,
			NumberingPatterns: numbering,
		})
	}

	singles := []struct {
		field   string
		pattern string
		dst     **regexp.Regexp
	}{
		{"accuracy.precision.numeric_pattern", c.Accuracy.Precision.NumericPattern, &p.PrecisionNumber},
		{"title.numbered_line", c.Title.NumberedLine, &p.NumberedLine},
		{"title.constant_pattern", c.Title.ConstantPattern, &p.Constant},
		{"profile.numbered_pattern", c.Profile.NumberedPattern, &p.ProfileNumbered},
	}
	for _, s := range singles {
		re, err := regexp.Compile(s.pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, s.field, err)
		}
		*s.dst = re
	}

	return p, nil
}

func compileAll(field, prefix string, patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for i, pat := range patterns {
		re, err := regexp.Compile(prefix + pat)
		if err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrInvalid, field, i, err)
		}
		out = append(out, re)
	}
	return out, nil
}
