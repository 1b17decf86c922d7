// Package title extracts the document title from the first page.
//
// Strategies run in order and the first non-empty result wins: a form
// heuristic (form documents only), font dominance, multi-line generic
// reconstruction and a first-substantial-line fallback. A document whose
// text sample looks like an event flyer gets an empty title.
package title

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/source"
)

// Page is the first-page view the strategies work on.
type Page struct {
	// Lines are the trimmed, non-empty text lines in reading order.
	Lines []string
	// Spans are the positioned text runs of the page.
	Spans []model.Span
}

// Strategy proposes a title, or returns "" when it has none.
type Strategy interface {
	Name() string
	Extract(page Page, profile *model.DocumentProfile) string
}

// Extractor runs the title strategies.
type Extractor struct {
	cfg        *config.Config
	logger     *slog.Logger
	strategies []Strategy
}

// New creates a title extractor with the default strategy chain. A nil
// logger uses slog.Default().
func New(cfg *config.Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		cfg:    cfg,
		logger: logger,
		strategies: []Strategy{
			FormTitle{Config: cfg},
			FontDominance{Config: cfg},
			Generic{Config: cfg},
			Fallback{Config: cfg},
		},
	}
}

// Extract reads the first page of doc and returns its title.
func (e *Extractor) Extract(doc source.Document, profile *model.DocumentProfile) (string, error) {
	if doc == nil || doc.PageCount() == 0 {
		return "", nil
	}
	page, err := ReadPage(doc, 0)
	if err != nil {
		return "", fmt.Errorf("reading first page: %w", err)
	}
	return e.FromPage(page, profile), nil
}

// FromPage runs the strategy chain over an already loaded page.
func (e *Extractor) FromPage(page Page, profile *model.DocumentProfile) string {
	for _, s := range e.strategies {
		t := s.Extract(page, profile)
		if t == "" {
			continue
		}
		if e.isEvent(profile) {
			e.logger.Debug("title: event document, title cleared", "strategy", s.Name(), "title", t)
			return ""
		}
		e.logger.Debug("title: found", "strategy", s.Name(), "title", t)
		return t
	}
	return ""
}

func (e *Extractor) isEvent(profile *model.DocumentProfile) bool {
	if profile == nil {
		return false
	}
	sample := strings.ToLower(profile.TextSample)
	for _, ind := range e.cfg.Title.EventIndicators {
		if strings.Contains(sample, ind) {
			return true
		}
	}
	return false
}

// ReadPage loads the lines and spans of a page.
func ReadPage(doc source.Document, page int) (Page, error) {
	text, err := doc.PageText(page)
	if err != nil {
		return Page{}, err
	}
	lines, err := doc.Lines(page)
	if err != nil {
		return Page{}, err
	}

	var p Page
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			p.Lines = append(p.Lines, l)
		}
	}
	for _, l := range lines {
		p.Spans = append(p.Spans, l.Spans...)
	}
	return p, nil
}
