// Package matching holds the deterministic comparison primitives used to check
// document data against a profile without a model call.
package matching

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// SimilarityThreshold is the ratio a fuzzy name match must strictly exceed.
const SimilarityThreshold = 0.85

// dateLayouts are tried in order; the first layout that parses wins.
// Day and month accept one or two digits.
var dateLayouts = []string{
	"2006-1-2",
	"2-1-2006",
	"2/1/2006",
	"2006/1/2",
	"2.1.2006",
	"2006.1.2",
	"2 Jan 2006",
	"2 January 2006",
	"2-1-06",
	"1/2/2006",
}

// NormalizeName lowercases, collapses runs of whitespace and strips punctuation.
func NormalizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// NamesMatch reports whether two names refer to the same person: equal after
// normalization, equal as unordered token sets, or similar above SimilarityThreshold.
// Names that normalize to the empty string never match.
func NamesMatch(a, b string) bool {
	na, nb := NormalizeName(a), NormalizeName(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if sameTokenSet(na, nb) {
		return true
	}
	return Similarity(na, nb) > SimilarityThreshold
}

// Similarity returns 1 - distance/maxLen over runes, in [0, 1].
func Similarity(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

func sameTokenSet(a, b string) bool {
	ta, tb := tokenSet(a), tokenSet(b)
	if len(ta) != len(tb) {
		return false
	}
	for tok := range ta {
		if _, ok := tb[tok]; !ok {
			return false
		}
	}
	return true
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

// ParseDate parses s with the first matching layout. It reports false when
// s is blank or no layout fits.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DatesMatch compares two dates by calendar day. When either side does not
// parse it falls back to comparing the trimmed strings.
func DatesMatch(a, b string) bool {
	ta, okA := ParseDate(a)
	tb, okB := ParseDate(b)
	if okA && okB {
		return ta.Equal(tb)
	}
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}
