package extract

import (
	"strings"

	"golang.org/x/net/html"
)

const (
	SentinelNominees      = "Nominees"
	SentinelNomineesUpper = "NOMINEES"
	SentinelWinner        = "Winner"

	placeholderPhrase = "nominees to be determined"
)

// PrepareLines splits scraped text into decoded, whitespace-normalized,
// non-empty lines.
func PrepareLines(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = CleanText(html.UnescapeString(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// CleanText collapses whitespace runs (NBSP included) to one space and trims.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

func isSentinel(line string) bool {
	return line == SentinelNominees || line == SentinelNomineesUpper || line == SentinelWinner
}

func isPlaceholder(line string) bool {
	return strings.Contains(strings.ToLower(line), placeholderPhrase)
}

// skippable lines never become nominees, winners or details.
func skippable(line string) bool {
	return line == "" || isSentinel(line) || isPlaceholder(line)
}

// dedupe keeps the first occurrence of every label.
func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
