package config

import (
	"errors"
	"sort"
	"time"
)

// Preset names.
const (
	PresetBalanced     = "balanced"
	PresetFast         = "fast"
	PresetHighAccuracy = "high_accuracy"
	PresetCPUOnly      = "cpu_only"
	PresetMultilingual = "multilingual"
	PresetAcademic     = "academic"
)

// ErrUnknownPreset is returned when a preset name is not registered.
var ErrUnknownPreset = errors.New("unknown preset")

// presetFunc adjusts a fresh default configuration in place.
type presetFunc func(*Config)

var presets = map[string]presetFunc{
	PresetBalanced: func(*Config) {},

	PresetFast: func(c *Config) {
		c.Multimodal.ConfidenceThresholds = Thresholds{Title: 0.7, H1: 0.6, H2: 0.5, H3: 0.4}
		c.Multimodal.MaxPagesAnalyze = 1
		c.Clustering.MaxClusters = 3
		c.Clustering.NInit = 3
		c.Clustering.ClusterRatio = 5
		c.TextLimits.MaxSimpleHeading = 80
		c.TextLimits.MaxComplexHeading = 120
		c.TextLimits.MaxFormHeading = 60
		c.Performance.TimeLimit = 2 * time.Second
		c.Performance.MemoryLimitMB = 150
	},

	PresetHighAccuracy: func(c *Config) {
		c.Multimodal.ConfidenceThresholds = Thresholds{Title: 0.9, H1: 0.8, H2: 0.7, H3: 0.6}
		c.Multimodal.MaxPagesAnalyze = 5
		c.Accuracy.Recall.Enabled = true
	},

	PresetCPUOnly: func(c *Config) {
		c.Multimodal.MaxPagesAnalyze = 2
		c.Multimodal.UseOCR = false
	},

	PresetMultilingual: func(c *Config) {
		c.Multimodal.ConfidenceThresholds = Thresholds{Title: 0.75, H1: 0.65, H2: 0.55, H3: 0.45}
		c.Multilingual.Normalize = true
		c.Multilingual.FoldWidth = true
		c.Accuracy.Weights = Weights{
			Structural:   0.30,
			Semantic:     0.25,
			Typography:   0.20,
			Position:     0.15,
			Multilingual: 0.10,
		}
	},

	PresetAcademic: func(c *Config) {
		c.Multimodal.ConfidenceThresholds = Thresholds{Title: 0.95, H1: 0.85, H2: 0.75, H3: 0.65}
		c.Multimodal.MaxPagesAnalyze = 10
		c.DocumentTypes.Academic.Indicators = []string{
			"abstract", "introduction", "methodology", "results", "conclusion",
		}
		c.DocumentTypes.Academic.MinIndicators = 1
	},
}

// Presets returns the registered preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForPreset builds the named preset without user overrides.
func ForPreset(name string) (*Config, error) {
	return NewBuilder().Preset(name).Build()
}
