// Package outline infers the title and heading outline of a paginated
// document from its visual layout.
//
// Basic usage:
//
//	result, err := outline.Open("report.pdf").Result(ctx)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(result.Title)
//	for _, h := range result.Outline {
//	    fmt.Println(h.Level, h.Text, h.Page)
//	}
//
// With options:
//
//	result, err := outline.Open("paper.pdf").
//	    Preset("academic").
//	    Configure(func(c *config.Config) { c.Accuracy.Enabled = false }).
//	    Result(ctx)
//
// For many documents, build a [Pipeline] once and use [Pipeline.Batch] or
// [Pipeline.ProcessDir].
package outline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"time"

	"github.com/tsawler/outline/accuracy"
	"github.com/tsawler/outline/cluster"
	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/filter"
	"github.com/tsawler/outline/hierarchy"
	"github.com/tsawler/outline/layout"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/monitor"
	"github.com/tsawler/outline/multimodal"
	"github.com/tsawler/outline/profile"
	"github.com/tsawler/outline/source"
	"github.com/tsawler/outline/title"
)

// Pipeline runs every stage of outline extraction with one configuration.
// It holds no per-document state and is safe for concurrent use.
type Pipeline struct {
	cfg        *config.Config
	logger     *slog.Logger
	opener     source.Opener
	multimodal *multimodal.Enhancer
	monitor    *monitor.Monitor

	profiler  *profile.Profiler
	layout    *layout.Reconstructor
	clusterer *cluster.Clusterer
	filter    *filter.Filter
	levels    *hierarchy.Determiner
	accuracy  *accuracy.Enhancer
	titles    *title.Extractor
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used by the pipeline and its stages.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithOpener replaces the default file opener.
func WithOpener(o source.Opener) Option {
	return func(p *Pipeline) { p.opener = o }
}

// WithMultimodal sets the multimodal enhancer. Without one the classifier
// stages are skipped.
func WithMultimodal(e *multimodal.Enhancer) Option {
	return func(p *Pipeline) { p.multimodal = e }
}

// WithMonitor sets the performance monitor used by Batch.
func WithMonitor(m *monitor.Monitor) Option {
	return func(p *Pipeline) { p.monitor = m }
}

// New creates a pipeline. A nil cfg uses the balanced preset.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = config.NewBuilder().MustBuild()
	}
	p := &Pipeline{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.opener == nil {
		p.opener = source.NewFileOpener()
	}
	if p.multimodal == nil {
		p.multimodal = multimodal.New(cfg, multimodal.Nop{}, p.logger)
	}
	if p.monitor == nil {
		p.monitor = monitor.New(cfg.Performance, p.logger)
	}

	p.profiler = profile.New(cfg, p.logger)
	p.layout = layout.NewReconstructor(cfg, p.logger)
	p.clusterer = cluster.New(cfg, p.logger)
	p.filter = filter.New(cfg, p.logger)
	p.levels = hierarchy.New(cfg, p.logger)
	p.accuracy = accuracy.New(cfg, p.logger)
	p.titles = title.New(cfg, p.logger)
	return p
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() *config.Config {
	return p.cfg
}

// Monitor returns the performance monitor.
func (p *Pipeline) Monitor() *monitor.Monitor {
	return p.monitor
}

// Extract opens the document at path and extracts its outline. On error
// the returned result is the empty result.
func (p *Pipeline) Extract(ctx context.Context, path string) (model.Result, error) {
	doc, err := p.opener.Open(ctx, path)
	if err != nil {
		return model.EmptyResult(), fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer doc.Close()
	return p.ExtractDocument(ctx, doc, path)
}

// ExtractSafe is Extract for callers that want a result no matter what:
// errors and panics are logged and yield the empty result.
func (p *Pipeline) ExtractSafe(ctx context.Context, path string) (result model.Result) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic during extraction", "path", path, "panic", r, "stack", string(debug.Stack()))
			result = model.EmptyResult()
		}
	}()

	result, err := p.Extract(ctx, path)
	if err != nil {
		p.logger.Error("extraction failed", "path", path, "error", err)
		return model.EmptyResult()
	}
	return result
}

// ExtractDocument extracts the outline of an open document. path is used
// for page rendering by the multimodal enhancer and may be empty.
func (p *Pipeline) ExtractDocument(ctx context.Context, doc source.Document, path string) (model.Result, error) {
	if err := ctx.Err(); err != nil {
		return model.EmptyResult(), err
	}
	start := time.Now()
	if doc.PageCount() == 0 {
		p.logger.Debug("empty document", "path", path)
		return model.EmptyResult(), nil
	}

	target := multimodal.Target{Doc: doc, Path: path}
	prof := p.profiler.Profile(doc)
	prof = p.multimodal.EnrichProfile(ctx, target, prof)

	docTitle, err := p.titles.Extract(doc, &prof)
	if err != nil {
		return model.EmptyResult(), fmt.Errorf("title: %w", err)
	}

	fragments := p.layout.Reconstruct(doc)
	candidates := p.clusterer.Candidates(fragments)
	clustered := len(candidates)
	candidates = p.filter.Apply(candidates, &prof)
	filtered := len(candidates)
	candidates = p.levels.Assign(candidates)
	candidates = p.multimodal.Override(ctx, target, candidates)

	candidates, metrics := p.accuracy.Enhance(candidates, fragments, &prof)
	sortByPosition(candidates)

	result := model.Result{Title: docTitle, Outline: make([]model.Heading, 0, len(candidates)), Metrics: metrics}
	for _, c := range candidates {
		if c.HasLevel() {
			result.Outline = append(result.Outline, c.Heading())
		}
	}

	p.logger.Debug("document processed",
		"path", path,
		"type", prof.DocumentType(),
		"fragments", len(fragments),
		"clustered", clustered,
		"filtered", filtered,
		"headings", len(result.Outline),
		"duration", time.Since(start))
	return result, nil
}

func sortByPosition(cands []*model.Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Page != cands[j].Page {
			return cands[i].Page < cands[j].Page
		}
		return cands[i].Y() < cands[j].Y()
	})
}
