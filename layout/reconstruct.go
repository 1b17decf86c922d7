package layout

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/tsawler/outline/config"
	"github.com/tsawler/outline/internal/textutil"
	"github.com/tsawler/outline/model"
	"github.com/tsawler/outline/source"
)

// Reconstructor merges consecutive layout lines into fragments.
type Reconstructor struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewReconstructor creates a reconstructor. A nil logger uses slog.Default().
func NewReconstructor(cfg *config.Config, logger *slog.Logger) *Reconstructor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconstructor{cfg: cfg, logger: logger}
}

// lineInfo is the per-line summary used for merging.
type lineInfo struct {
	text string
	size float64
	bold bool
	bbox model.BBox
}

// Reconstruct returns the fragments of every page in document order.
// Unreadable pages are skipped.
func (r *Reconstructor) Reconstruct(doc source.Document) []model.Fragment {
	var fragments []model.Fragment
	for page := 0; page < doc.PageCount(); page++ {
		lines, err := doc.Lines(page)
		if err != nil {
			r.logger.Debug("reconstruct: skipping page", "page", page, "error", err)
			continue
		}
		fragments = append(fragments, r.ReconstructPage(lines, page+1)...)
	}
	r.logger.Debug("reconstructed fragments", "count", len(fragments))
	return fragments
}

// ReconstructPage merges the lines of one page. page is 1-based.
//
// Lines are sorted by their top edge and each line is compared with the
// previous line of the current group: it joins the group when the size
// difference is below FontSizeTolerance, the vertical distance is below
// GroupingDistance and the bold state matches. When both lines are larger
// than TitleFontThreshold the LargeFontTolerance and LargeFontDistance
// limits apply instead.
func (r *Reconstructor) ReconstructPage(lines []model.Line, page int) []model.Fragment {
	infos := make([]lineInfo, 0, len(lines))
	for _, l := range lines {
		text := l.Text()
		if textutil.Len(text) <= r.cfg.TextLimits.MinLineLength {
			continue
		}
		infos = append(infos, lineInfo{text: text, size: l.MaxSize(), bold: l.Bold(), bbox: l.BBox()})
	}
	if len(infos) == 0 {
		return nil
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].bbox.Y0 < infos[j].bbox.Y0
	})

	var fragments []model.Fragment
	group := []lineInfo{infos[0]}
	for _, cur := range infos[1:] {
		if r.mergeable(group[len(group)-1], cur) {
			group = append(group, cur)
			continue
		}
		if f, ok := r.fragment(group, page); ok {
			fragments = append(fragments, f)
		}
		group = []lineInfo{cur}
	}
	if f, ok := r.fragment(group, page); ok {
		fragments = append(fragments, f)
	}
	return fragments
}

func (r *Reconstructor) mergeable(prev, cur lineInfo) bool {
	tolerance := r.cfg.Distance.FontSizeTolerance
	distance := r.cfg.Distance.GroupingDistance
	large := r.cfg.FontThresholds.TitleFontThreshold
	if prev.size > large && cur.size > large {
		tolerance = r.cfg.Distance.LargeFontTolerance
		distance = r.cfg.Distance.LargeFontDistance
	}

	return math.Abs(cur.size-prev.size) < tolerance &&
		math.Abs(cur.bbox.Y0-prev.bbox.Y0) < distance &&
		cur.bold == prev.bold
}

// fragment builds a fragment from a group of lines. The size is the mean
// line size; bold state comes from the first line.
func (r *Reconstructor) fragment(group []lineInfo, page int) (model.Fragment, bool) {
	texts := make([]string, len(group))
	var sum float64
	var box model.BBox
	for i, l := range group {
		texts[i] = l.text
		sum += l.size
		box = box.Union(l.bbox)
	}

	text := textutil.NormalizeSpace(strings.Join(texts, " "))
	n := textutil.Len(text)
	if n <= r.cfg.TextLimits.MinFragmentLength {
		return model.Fragment{}, false
	}

	return model.Fragment{
		Text:     text,
		Page:     page,
		FontSize: sum / float64(len(group)),
		Bold:     group[0].bold,
		BBox:     box,
		Length:   n,
	}, true
}
