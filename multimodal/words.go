package multimodal

import (
	"strings"

	"github.com/tsawler/outline/model"
)

// WordsFromLines splits every span into words and gives each word an equal
// share of the span box. Boxes are normalised to 0..scale by the page size.
func WordsFromLines(lines []model.Line, width, height float64, scale int) []Word {
	var words []Word
	for _, l := range lines {
		for _, s := range l.Spans {
			parts := strings.Fields(s.Text)
			if len(parts) == 0 {
				continue
			}
			w := s.BBox.Width() / float64(len(parts))
			for i, p := range parts {
				x0 := s.BBox.X0 + float64(i)*w
				words = append(words, Word{
					Text: p,
					Box: [4]int{
						normalize(x0, width, scale),
						normalize(s.BBox.Y0, height, scale),
						normalize(x0+w, width, scale),
						normalize(s.BBox.Y1, height, scale),
					},
				})
			}
		}
	}
	return words
}

func normalize(v, size float64, scale int) int {
	if size <= 0 {
		return 0
	}
	n := int(v / size * float64(scale))
	return max(0, min(scale, n))
}
