package outline

import (
	"log/slog"
	"slices"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/multimodal"
)

// ExtractOptions holds the configuration layers of a fluent extraction.
type ExtractOptions struct {
	preset     string
	configFile string
	yaml       []byte
	apply      []func(*config.Config)

	logger     *slog.Logger
	classifier multimodal.Classifier
	renderer   multimodal.Renderer
}

// defaultOptions returns the balanced preset with no overrides.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		preset: config.PresetBalanced,
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	n := o
	if o.yaml != nil {
		n.yaml = append([]byte(nil), o.yaml...)
	}
	n.apply = slices.Clone(o.apply)
	return n
}

// config builds the configuration the options describe. A config file is
// loaded through viper and takes the place of the bare preset.
func (o ExtractOptions) config() (*config.Config, error) {
	b := config.NewBuilder().Preset(o.preset)
	if o.configFile != "" {
		base, err := config.Load(o.configFile, o.preset)
		if err != nil {
			return nil, err
		}
		b = b.Apply(func(c *config.Config) { *c = *base })
	}
	if o.yaml != nil {
		b = b.YAML(o.yaml)
	}
	for _, fn := range o.apply {
		b = b.Apply(fn)
	}
	return b.Build()
}
