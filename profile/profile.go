// Package profile builds the document profile: font usage statistics,
// document-type indicators and a text sample taken from the first pages.
package profile

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/internal/textutil"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/source"
)

// Profiler computes document profiles.
type Profiler struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a profiler. A nil logger uses slog.Default().
func New(cfg *config.Config, logger *slog.Logger) *Profiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Profiler{cfg: cfg, logger: logger}
}

// Profile scans up to Profile.SamplePages pages of doc. It never fails:
// unreadable pages are skipped and an empty document yields a profile with
// every indicator false.
func (p *Profiler) Profile(doc source.Document) model.DocumentProfile {
	prof := model.DocumentProfile{FontStats: map[string]int{}}
	if doc == nil {
		return prof
	}
	prof.PageCount = doc.PageCount()
	if prof.PageCount == 0 {
		return prof
	}

	sampled := min(p.cfg.Profile.SamplePages, prof.PageCount)

	var sb strings.Builder
	for page := 0; page < sampled; page++ {
		lines, err := doc.Lines(page)
		if err != nil {
			p.logger.Debug("profile: skipping page", "page", page, "error", err)
			continue
		}
		for _, line := range lines {
			for _, span := range line.Spans {
				text := strings.TrimSpace(span.Text)
				if text == "" {
					continue
				}
				key := fmt.Sprintf("%s_%.1f", span.FontName, span.FontSize)
				prof.FontStats[key] += textutil.Len(text)
			}
			if text := line.Text(); text != "" {
				sb.WriteString(text)
				sb.WriteByte('\n')
			}
		}
	}

	text := sb.String()
	prof.FontVariety = len(prof.FontStats)
	prof.AvgTextPerPage = float64(textutil.Len(text)) / float64(max(1, sampled))
	prof.TextSample = textutil.Prefix(text, p.cfg.Profile.TextSampleChars)
	prof.Indicators = p.indicators(text)
	return prof
}

func (p *Profiler) indicators(text string) model.StructureIndicators {
	lower := strings.ToLower(text)
	types := p.cfg.DocumentTypes
	return model.StructureIndicators{
		IsForm:              fires(lower, types.Form.Indicators, types.Form.MinIndicators),
		IsAcademic:          fires(lower, types.Academic.Indicators, types.Academic.MinIndicators),
		IsTechnical:         fires(lower, types.Technical.Indicators, types.Technical.MinIndicators),
		IsBusiness:          fires(lower, types.Business.Indicators, types.Business.MinIndicators),
		HasTOC:              textutil.ContainsAny(lower, p.cfg.Profile.TOCPhrases),
		HasNumberedSections: p.cfg.Patterns().ProfileNumbered.MatchString(text),
	}
}

// fires reports whether at least threshold of the keywords occur in text.
func fires(text string, keywords []string, threshold int) bool {
	if len(keywords) == 0 {
		return false
	}
	count := 0
	for _, k := range keywords {
		if strings.Contains(text, k) {
			count++
		}
	}
	return count >= threshold
}
