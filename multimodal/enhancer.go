package multimodal

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/source"
)

// Target is the document the enhancer analyses. Path is needed only for
// rendering and may be empty.
type Target struct {
	Doc  source.Document
	Path string
}

// Enhancer applies classifier predictions to the profile and to leveled
// candidates.
type Enhancer struct {
	cfg        *config.Config
	logger     *slog.Logger
	classifier Classifier
	renderer   Renderer
	words      WordSource
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithRenderer sets the page renderer. Without one the classifier gets no
// image.
func WithRenderer(r Renderer) Option {
	return func(e *Enhancer) { e.renderer = r }
}

// WithWordSource replaces the default text layer word source.
func WithWordSource(w WordSource) Option {
	return func(e *Enhancer) { e.words = w }
}

// New creates an enhancer. A nil classifier is replaced by Nop.
func New(cfg *config.Config, classifier Classifier, logger *slog.Logger, opts ...Option) *Enhancer {
	if logger == nil {
		logger = slog.Default()
	}
	if classifier == nil {
		classifier = Nop{}
	}
	e := &Enhancer{
		cfg:        cfg,
		logger:     logger,
		classifier: classifier,
		words:      TextLayer{Scale: cfg.Multimodal.BoxScale},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FromConfig builds an enhancer from cfg.Multimodal: the HTTP classifier,
// the pdftoppm renderer when the binary is installed and, when UseOCR is
// set, Tesseract words. A missing renderer or OCR engine is logged and the
// enhancer falls back to the text layer without images.
func FromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Enhancer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	mm := cfg.Multimodal
	if !mm.Enabled {
		return New(cfg, Nop{}, logger), nil
	}

	classifier, err := NewHTTPClassifier(ctx, mm, logger)
	if err != nil {
		return nil, err
	}

	var opts []Option
	renderer := PdftoppmRenderer{DPI: mm.RenderDPI, Size: mm.ImageSize}
	if renderer.Available() {
		opts = append(opts, WithRenderer(renderer))
	} else {
		logger.Info("multimodal: pdftoppm not found, classifying without page images")
	}
	if mm.UseOCR {
		if words, err := NewOCRWords(mm.OCRLanguage, mm.BoxScale); err != nil {
			logger.Warn("multimodal: OCR unavailable, using text layer", "error", err)
		} else {
			opts = append(opts, WithWordSource(words))
		}
	}
	return New(cfg, classifier, logger, opts...), nil
}

// Enabled reports whether the enhancer is configured on and its classifier
// is available.
func (e *Enhancer) Enabled() bool {
	return e.cfg.Multimodal.Enabled && e.classifier.Available()
}

// Close releases the word source when it holds resources.
func (e *Enhancer) Close() error {
	if c, ok := e.words.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// EnrichProfile classifies the first pages and returns a copy of profile
// carrying the aggregated features. The profile is returned unchanged when
// the enhancer is disabled or no page produced predictions.
func (e *Enhancer) EnrichProfile(ctx context.Context, t Target, profile model.DocumentProfile) model.DocumentProfile {
	if !e.Enabled() || t.Doc == nil {
		return profile
	}

	pages := min(e.cfg.Multimodal.MaxPagesAnalyze, t.Doc.PageCount())
	f := &model.MultimodalFeatures{LevelDistribution: make(map[model.Level]int)}
	var confidence float64
	for page := 0; page < pages; page++ {
		preds, err := e.analyze(ctx, t, page)
		if err != nil {
			e.logger.Warn("multimodal: page analysis failed", "page", page+1, "error", err)
			continue
		}
		for _, p := range preds {
			f.TotalPredictions++
			confidence += p.Confidence
			if level := p.Label.Level(); level != model.LevelNone {
				f.HeadingPredictions++
				f.LevelDistribution[level]++
			}
		}
	}
	if f.TotalPredictions == 0 {
		return profile
	}
	f.HeadingRatio = float64(f.HeadingPredictions) / float64(f.TotalPredictions)
	f.AvgConfidence = confidence / float64(f.TotalPredictions)
	return profile.WithMultimodal(f)
}

// Override replaces the level of every candidate whose text the classifier
// labels as a heading with confidence above the threshold for that level.
// Candidates keep their level when their page cannot be analysed.
func (e *Enhancer) Override(ctx context.Context, t Target, candidates []*model.Candidate) []*model.Candidate {
	if !e.Enabled() || t.Doc == nil || len(candidates) == 0 {
		return candidates
	}

	byPage := make(map[int][]*model.Candidate)
	var order []int
	for _, c := range candidates {
		if _, ok := byPage[c.Page]; !ok {
			order = append(order, c.Page)
		}
		byPage[c.Page] = append(byPage[c.Page], c)
	}

	overridden := 0
	for _, page := range order {
		preds, err := e.analyze(ctx, t, page-1)
		if err != nil {
			e.logger.Warn("multimodal: page analysis failed", "page", page, "error", err)
			continue
		}
		for _, c := range byPage[page] {
			p, ok := Match(c.Text, preds)
			if !ok {
				continue
			}
			level := p.Label.Level()
			if p.Confidence > e.cfg.Multimodal.ConfidenceThresholds.For(level) {
				c.SetLevel(level, model.SourceMultimodal)
				overridden++
			}
		}
	}
	e.logger.Debug("multimodal: override", "candidates", len(candidates), "overridden", overridden)
	return candidates
}

// analyze classifies one 0-based page.
func (e *Enhancer) analyze(ctx context.Context, t Target, page int) ([]Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var img image.Image
	if e.renderer != nil && t.Path != "" {
		var err error
		img, err = e.renderer.Render(ctx, t.Path, page)
		if err != nil {
			e.logger.Debug("multimodal: render failed", "page", page+1, "error", err)
			img = nil
		}
	}

	words, err := e.words.Words(ctx, t.Doc, page, img)
	if err != nil {
		if !errors.Is(err, ErrNoImage) {
			return nil, err
		}
		if words, err = (TextLayer{Scale: e.cfg.Multimodal.BoxScale}).Words(ctx, t.Doc, page, nil); err != nil {
			return nil, err
		}
	}
	if len(words) == 0 {
		return nil, nil
	}

	w, h, err := t.Doc.PageSize(page)
	if err != nil {
		return nil, err
	}
	return e.classifier.Classify(ctx, Page{Index: page, Width: w, Height: h, Image: img, Words: words})
}
