package outline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/multimodal"
	"github.com/tsawler/outline/source"
)

// Extractor provides a fluent interface for extracting the outline of one
// document. Each configuration method returns a new Extractor, so a
// partially configured Extractor can be reused.
type Extractor struct {
	// Source
	path string
	doc  source.Document

	// Configuration
	options ExtractOptions
}

// Open returns an Extractor for the document at path. The file is opened
// by the terminal operation and closed before it returns.
//
// Example:
//
//	result, err := outline.Open("document.pdf").Result(ctx)
func Open(path string) *Extractor {
	return &Extractor{
		path:    path,
		options: defaultOptions(),
	}
}

// FromDocument returns an Extractor for an already open document. The
// caller is responsible for closing it.
func FromDocument(doc source.Document) *Extractor {
	return &Extractor{
		doc:     doc,
		options: defaultOptions(),
	}
}

func (e *Extractor) clone() *Extractor {
	return &Extractor{
		path:    e.path,
		doc:     e.doc,
		options: e.options.clone(),
	}
}

// Preset selects a named configuration preset.
func (e *Extractor) Preset(name string) *Extractor {
	n := e.clone()
	n.options.preset = name
	return n
}

// ConfigFile loads configuration from a YAML file and OUTLINE_* environment
// variables on top of the preset.
func (e *Extractor) ConfigFile(path string) *Extractor {
	n := e.clone()
	n.options.configFile = path
	return n
}

// YAML applies a YAML override document.
func (e *Extractor) YAML(data []byte) *Extractor {
	n := e.clone()
	n.options.yaml = append([]byte(nil), data...)
	return n
}

// Configure applies a programmatic override.
func (e *Extractor) Configure(fn func(*config.Config)) *Extractor {
	n := e.clone()
	if fn != nil {
		n.options.apply = append(n.options.apply, fn)
	}
	return n
}

// WithoutAccuracy disables the accuracy stage and its metrics.
func (e *Extractor) WithoutAccuracy() *Extractor {
	return e.Configure(func(c *config.Config) { c.Accuracy.Enabled = false })
}

// Logger sets the logger.
func (e *Extractor) Logger(l *slog.Logger) *Extractor {
	n := e.clone()
	n.options.logger = l
	return n
}

// Classifier enables the multimodal stages with the given classifier.
func (e *Extractor) Classifier(c multimodal.Classifier) *Extractor {
	n := e.clone()
	n.options.classifier = c
	return n.Configure(func(cfg *config.Config) { cfg.Multimodal.Enabled = true })
}

// Renderer sets the page renderer used with the classifier.
func (e *Extractor) Renderer(r multimodal.Renderer) *Extractor {
	n := e.clone()
	n.options.renderer = r
	return n
}

// Pipeline builds the pipeline the Extractor is configured for.
func (e *Extractor) Pipeline() (*Pipeline, error) {
	cfg, err := e.options.config()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := e.options.logger
	if logger == nil {
		logger = slog.Default()
	}
	opts := []Option{WithLogger(logger)}
	if e.options.classifier != nil {
		var mmOpts []multimodal.Option
		if e.options.renderer != nil {
			mmOpts = append(mmOpts, multimodal.WithRenderer(e.options.renderer))
		}
		opts = append(opts, WithMultimodal(multimodal.New(cfg, e.options.classifier, logger, mmOpts...)))
	}
	return New(cfg, opts...), nil
}

// Result runs the extraction.
func (e *Extractor) Result(ctx context.Context) (model.Result, error) {
	p, err := e.Pipeline()
	if err != nil {
		return model.EmptyResult(), err
	}
	if e.doc != nil {
		return p.ExtractDocument(ctx, e.doc, e.path)
	}
	if e.path == "" {
		return model.EmptyResult(), fmt.Errorf("no document specified")
	}
	return p.Extract(ctx, e.path)
}

// Title runs the extraction and returns only the title.
func (e *Extractor) Title(ctx context.Context) (string, error) {
	r, err := e.Result(ctx)
	return r.Title, err
}

// Outline runs the extraction and returns only the headings.
func (e *Extractor) Outline(ctx context.Context) ([]model.Heading, error) {
	r, err := e.Result(ctx)
	return r.Outline, err
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	result := outline.Must(outline.Open("document.pdf").Result(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
