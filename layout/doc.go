// Package layout reconstructs text fragments from page lines.
//
// PDF producers often break a single heading or paragraph across several
// lines. The [Reconstructor] walks each page top to bottom and merges a line
// into the current group when it matches the previous line's size and bold
// state and sits close enough below it:
//
//	r := layout.NewReconstructor(cfg, logger)
//	fragments := r.Reconstruct(doc)
//
// # Merging Rules
//
// Two adjacent lines merge when all of the following hold:
//
//   - the font size difference is below Distance.FontSizeTolerance
//   - the distance between their top edges is below Distance.GroupingDistance
//   - both are bold or both are not
//
// Lines larger than FontThresholds.TitleFontThreshold use the looser
// LargeFontTolerance and LargeFontDistance limits, since titles are usually
// set with wider leading.
//
// # Fragments
//
// A merged group becomes a [model.Fragment] with whitespace-normalized text,
// the mean line size, the first line's bold state and the union of the line
// boxes. Fragments of MinFragmentLength runes or fewer are dropped. The
// reconstructor makes no heading judgement.
package layout
