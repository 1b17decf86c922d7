// Package textutil holds the small string predicates shared by the pipeline
// stages. Case predicates follow word-capitalisation semantics: a cased rune
// is one that has distinct upper and lower forms.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Len returns the number of runes in s.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// NormalizeSpace collapses runs of whitespace to single spaces and trims
// the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

// IsUpper reports whether s has at least one cased rune and no lowercase
// runes.
func IsUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) || unicode.IsTitle(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// IsTitle reports whether every cased word in s starts with an uppercase
// rune followed only by lowercase runes. Uncased runes such as digits and
// punctuation separate words. At least one cased rune is required.
func IsTitle(s string) bool {
	cased := false
	prevCased := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased = true
			cased = true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased = true
			cased = true
		default:
			prevCased = false
		}
	}
	return cased
}

// HasUpper reports whether s contains an uppercase rune.
func HasUpper(s string) bool {
	return strings.IndexFunc(s, unicode.IsUpper) >= 0
}

// HasLower reports whether s contains a lowercase rune.
func HasLower(s string) bool {
	return strings.IndexFunc(s, unicode.IsLower) >= 0
}

// HasDigit reports whether s contains a decimal digit.
func HasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// IsAlnum reports whether r is a letter or a number.
func IsAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// ContainsAny reports whether s contains any of the given substrings.
func ContainsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// HasAnyPrefix reports whether s starts with any of the given prefixes.
func HasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// UniqueRunes counts the distinct runes in s.
func UniqueRunes(s string) int {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		seen[r] = struct{}{}
	}
	return len(seen)
}

// Prefix returns the first n runes of s.
func Prefix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// WordSet returns the set of whitespace-separated words in s.
func WordSet(s string) map[string]struct{} {
	words := strings.Fields(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Jaccard returns |a∩b| / max(1, |a∪b|) over the word sets of a and b.
func Jaccard(a, b string) float64 {
	sa, sb := WordSet(a), WordSet(b)
	inter := 0
	for w := range sa {
		if _, ok := sb[w]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	if union < 1 {
		union = 1
	}
	return float64(inter) / float64(union)
}
