package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tsawler/outline"
	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/multimodal"
)

var (
	cfgFile   string
	preset    string
	envFile   string
	logLevel  string
	logFormat string

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "outline",
	Short: "Infer the title and heading outline of PDF documents",
	Long: `Outline reads the visual layout of a PDF (font sizes, weights and
positions) and infers the document title and a three-level heading outline.

Configuration is layered: the balanced defaults, a preset, an optional YAML
file and OUTLINE_* environment variables. A .env file in the working
directory is loaded first, which is a convenient place for the multimodal
classifier endpoint and key.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnv(envFile); err != nil {
			return err
		}
		l, err := newLogger(logLevel, logFormat)
		if err != nil {
			return err
		}
		logger = l
		slog.SetDefault(l)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./outline.yaml or ~/.outline/outline.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&preset, "preset", "p", "", "configuration preset (see 'outline presets')",
	)
	rootCmd.PersistentFlags().StringVar(
		&envFile, "env-file", ".env", "dotenv file to load before reading configuration",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn or error",
	)
	rootCmd.PersistentFlags().StringVar(
		&logFormat, "log-format", "text", "log format: text or json",
	)

	rootCmd.AddCommand(extractCmd, batchCmd, serveCmd, presetsCmd, configCmd, versionCmd)
}

// loadEnv loads a dotenv file. A missing file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", format)
}

func loadConfig() (*config.Config, error) {
	return config.Load(cfgFile, preset)
}

// newPipeline builds a pipeline with the multimodal enhancer configured
// from cfg. The returned function releases the enhancer.
func newPipeline(ctx context.Context, cfg *config.Config) (*outline.Pipeline, func(), error) {
	mm, err := multimodal.FromConfig(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	p := outline.New(cfg, outline.WithLogger(logger), outline.WithMultimodal(mm))
	return p, func() { _ = mm.Close() }, nil
}
