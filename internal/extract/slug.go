package extract

import (
	"regexp"
	"strings"
)

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a category display name into its id:
// "Actor in a Leading Role" -> "actor_in_a_leading_role", "&" -> "and".
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, "&", "and")
	s = nonAlnumRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
