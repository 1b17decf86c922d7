package multimodal

import (
	"strings"

	"github.com/tsawler/outline/model"
)

// Match finds the words of text as a contiguous run in the predictions. For
// each matching window the most confident prediction represents the window;
// the best window whose representative is a heading label wins.
func Match(text string, predictions []Prediction) (Prediction, bool) {
	target := strings.Fields(strings.ToLower(text))
	n := len(target)
	if n == 0 || n > len(predictions) {
		return Prediction{}, false
	}

	var best Prediction
	found := false
	for i := 0; i+n <= len(predictions); i++ {
		if !windowMatches(predictions[i:i+n], target) {
			continue
		}
		top := predictions[i]
		for _, p := range predictions[i+1 : i+n] {
			if p.Confidence > top.Confidence {
				top = p
			}
		}
		if top.Confidence > best.Confidence && top.Label.Level() != model.LevelNone {
			best = top
			found = true
		}
	}
	return best, found
}

func windowMatches(window []Prediction, target []string) bool {
	for i, p := range window {
		if strings.ToLower(p.Word) != target[i] {
			return false
		}
	}
	return true
}
