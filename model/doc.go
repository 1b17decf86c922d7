// Package model defines the data passed between the stages of the outline
// pipeline.
//
// # Layout Input
//
// A page source yields [Line] values, each a sequence of [Span] runs with a
// font size, font flags and a [BBox] in top-left page coordinates. The
// reconstructor merges lines into [Fragment] values, the atomic unit for
// clustering.
//
// # Candidates
//
// A [Candidate] is a fragment hypothesised to be a heading. Later stages
// fill in its optional fields:
//
//   - Level and LevelSource - set by the level determiner or the
//     multimodal override
//   - Language and QualityBoost - set by the multilingual pass
//   - QualityScore - set by the accuracy scorer (Scored reports whether it
//     has been computed)
//
// Unset fields hold their zero value; there is no untyped "missing key".
//
// # Output
//
// A [Result] carries the document title and an outline of [Heading] values
// with 0-based page numbers. The optional [Metrics] block is diagnostic and
// is dropped by [Result.Persistable].
//
// # Profiles
//
// [DocumentProfile] summarises the early pages of a document: font usage,
// document-type indicators and a bounded text sample.
package model
