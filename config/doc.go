// Package config defines the typed, read-only configuration shared by every
// stage of the outline pipeline.
//
// # Building a Configuration
//
// A [Config] is produced once by a [Builder], which layers overrides on
// top of the balanced defaults:
//
//	cfg, err := config.NewBuilder().
//	    Preset("high_accuracy").
//	    YAML(userFile).
//	    Build()
//
// Layers are applied in the order default, preset, user. User layers are
// YAML documents or maps (for example the settings read by viper) whose
// keys mirror the yaml tags of the structs in this package. Only the keys a
// layer names are overridden.
//
// Build validates the result and compiles every regular expression, so a
// returned *Config is ready to use and is never modified afterwards.
// Components receive it by pointer and must treat it as read-only.
//
// # Presets
//
// [Presets] lists the named presets: balanced, fast, high_accuracy,
// cpu_only, multilingual and academic.
//
// # Loading From Files and the Environment
//
// [Load] reads an optional YAML file and OUTLINE_* environment variables
// with viper. [Watcher] rebuilds the configuration when the file changes and
// publishes the new value atomically.
package config
