package extract

import "strings"

// detailInParens lists the categories whose nominee is a person and whose
// film credit is shown in parentheses.
var detailInParens = map[string]bool{
	"actor in a leading role":      true,
	"actress in a leading role":    true,
	"actor in a supporting role":   true,
	"actress in a supporting role": true,
	"directing":                    true,
}

// FormatDetail appends a secondary fact (country, film) to a label, but only
// for categories where it tells nominees apart. Elsewhere detail is dropped.
func FormatDetail(categoryName, label, detail string) string {
	if detail == "" || detail == label {
		return label
	}
	cat := strings.ToLower(strings.TrimSpace(categoryName))
	switch {
	case strings.Contains(cat, "international feature film"):
		return label + " — " + detail
	case detailInParens[cat]:
		return label + " (" + detail + ")"
	default:
		return label
	}
}
