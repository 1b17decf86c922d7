package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by Load, for
// example OUTLINE_PERFORMANCE_MAX_WORKERS.
const EnvPrefix = "OUTLINE"

// envKey is a configuration key that may be set from the environment.
type envKey struct {
	key string
	get func(v *viper.Viper, key string) any
}

func getString(v *viper.Viper, key string) any { return v.GetString(key) }
func getInt(v *viper.Viper, key string) any { return v.GetInt(key) }
func getBool(v *viper.Viper, key string) any { return v.GetBool(key) }
func getDuration(v *viper.Viper, key string) any {
	return v.GetDuration(key).String()
}

var envKeys = []envKey{
	{"performance.max_workers", getInt},
	{"performance.time_limit", getDuration},
	{"performance.memory_limit_mb", getInt},
	{"multimodal.enabled", getBool},
	{"multimodal.endpoint", getString},
	{"multimodal.api_key", getString},
	{"multimodal.timeout", getDuration},
	{"multimodal.use_ocr", getBool},
	{"accuracy.enabled", getBool},
}

// Load builds a configuration from the optional YAML file at path and from
// OUTLINE_* environment variables. When path is empty, outline.yaml is
// looked up in the working directory and in $HOME/.outline; a missing file
// is not an error. The preset argument wins over a "preset" key in the file
// or the OUTLINE_PRESET variable.
func Load(path, preset string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	return buildFromViper(v, preset)
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	_ = v.BindEnv("preset")
	for _, e := range envKeys {
		_ = v.BindEnv(e.key)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("outline")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.outline")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}
	return v, nil
}

// settings returns the user layer held by v. Environment-backed keys are
// read through typed getters so that "8" becomes an int before it reaches
// the YAML decoder.
func settings(v *viper.Viper) map[string]any {
	m := v.AllSettings()
	delete(m, "preset")
	for _, e := range envKeys {
		deletePath(m, e.key)
		if v.IsSet(e.key) {
			setPath(m, e.key, e.get(v, e.key))
		}
	}
	return m
}

func buildFromViper(v *viper.Viper, preset string) (*Config, error) {
	if preset == "" {
		preset = v.GetString("preset")
	}
	return NewBuilder().Preset(preset).Map(settings(v)).Build()
}

func setPath(m map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

func deletePath(m map[string]any, path string) {
	parts := strings.Split(path, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			return
		}
		m = next
	}
	delete(m, parts[len(parts)-1])
}

// Watcher keeps the current configuration and rebuilds it when the
// configuration file changes. Each rebuild produces a new immutable
// Config; readers holding the previous value are unaffected.
type Watcher struct {
	v       *viper.Viper
	preset  string
	logger  *slog.Logger
	current atomic.Pointer[Config]

	mu        sync.Mutex
	callbacks []func(*Config)
}

// NewWatcher loads the configuration like Load and returns a Watcher
// holding it. Call Watch to start following file changes.
func NewWatcher(path, preset string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	cfg, err := buildFromViper(v, preset)
	if err != nil {
		return nil, err
	}
	w := &Watcher{v: v, preset: preset, logger: logger}
	w.current.Store(cfg)
	return w, nil
}

// Get returns the current configuration.
func (w *Watcher) Get() *Config {
	return w.current.Load()
}

// OnChange registers a callback invoked with each successfully rebuilt
// configuration.
func (w *Watcher) OnChange(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Watch starts following the configuration file. A change that fails to
// build is logged and the previous configuration stays in effect.
func (w *Watcher) Watch() {
	w.v.OnConfigChange(func(e fsnotify.Event) {
		w.reload(e.Name)
	})
	w.v.WatchConfig()
}

func (w *Watcher) reload(name string) {
	cfg, err := buildFromViper(w.v, w.preset)
	if err != nil {
		w.logger.Warn("config reload failed, keeping previous configuration",
			"file", name, "error", err)
		return
	}
	w.current.Store(cfg)
	w.logger.Info("config reloaded", "file", name, "preset", cfg.Preset)

	w.mu.Lock()
	callbacks := make([]func(*Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}
