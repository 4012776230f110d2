// Package rank scores user picks against extracted results, orders the
// leaderboard and compares users with each other.
package rank

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeLabel case-folds, composes and collapses whitespace so that labels
// typed or scraped slightly differently compare equal.
func NormalizeLabel(s string) string {
	s = norm.NFC.String(s)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// SameLabel is the single equality used by scoring and similarity.
func SameLabel(a, b string) bool {
	return NormalizeLabel(a) == NormalizeLabel(b)
}

func hasPick(picks map[string]string, id string) bool {
	return strings.TrimSpace(picks[id]) != ""
}
