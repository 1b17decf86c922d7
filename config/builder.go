package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// layer is a single user override applied on top of the preset.
type layer struct {
	name  string
	data  []byte
	apply func(*Config)
}

// Builder assembles a Config from layered overrides. Each method returns a
// new Builder, so a partially configured builder can be shared and
// extended safely.
type Builder struct {
	preset string
	layers []layer
	err    error
}

// NewBuilder returns a builder for the balanced preset with no overrides.
func NewBuilder() *Builder {
	return &Builder{preset: PresetBalanced}
}

func (b *Builder) clone() *Builder {
	return &Builder{
		preset: b.preset,
		layers: append([]layer(nil), b.layers...),
		err:    b.err,
	}
}

// Preset selects the named preset. An empty name keeps the current one.
func (b *Builder) Preset(name string) *Builder {
	nb := b.clone()
	if name != "" {
		nb.preset = name
	}
	return nb
}

// YAML adds a user layer from a YAML document. Only the keys present in the
// document are overridden; lists replace the preset's lists.
func (b *Builder) YAML(data []byte) *Builder {
	nb := b.clone()
	nb.layers = append(nb.layers, layer{name: fmt.Sprintf("yaml#%d", len(nb.layers)+1), data: data})
	return nb
}

// Map adds a user layer from a nested map whose keys follow the yaml tags,
// such as the settings returned by viper.
func (b *Builder) Map(m map[string]any) *Builder {
	nb := b.clone()
	if len(m) == 0 {
		return nb
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		nb.err = fmt.Errorf("encode override map: %w", err)
		return nb
	}
	nb.layers = append(nb.layers, layer{name: fmt.Sprintf("map#%d", len(nb.layers)+1), data: data})
	return nb
}

// Apply adds a programmatic override. fn receives the configuration under
// construction; it must not retain the pointer.
func (b *Builder) Apply(fn func(*Config)) *Builder {
	nb := b.clone()
	if fn != nil {
		nb.layers = append(nb.layers, layer{name: fmt.Sprintf("func#%d", len(nb.layers)+1), apply: fn})
	}
	return nb
}

// Build applies default, preset and user layers in order, then validates
// and compiles the result.
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	preset, ok := presets[b.preset]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, b.preset)
	}

	c := Default()
	preset(&c)

	for _, l := range b.layers {
		if l.apply != nil {
			l.apply(&c)
			continue
		}
		if err := yaml.Unmarshal(l.data, &c); err != nil {
			return nil, fmt.Errorf("apply config layer %s: %w", l.name, err)
		}
	}
	c.Preset = b.preset

	if err := c.validate(); err != nil {
		return nil, err
	}

	patterns, err := compile(&c)
	if err != nil {
		return nil, err
	}
	c.patterns = patterns
	return &c, nil
}

// MustBuild is like Build but panics on error. It is intended for tests
// and package-level defaults.
func (b *Builder) MustBuild() *Config {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

// YAML renders the effective configuration, for example for the CLI's
// "config" command.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
