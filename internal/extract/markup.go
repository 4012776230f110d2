package extract

import (
	"bytes"
	"fmt"
	"strings"

	"awardpool-engine/internal/domain"

	"github.com/PuerkitoBio/goquery"
)

// rowProbes are tried in order; the first non-empty text is the nominee label.
var rowProbes = []string{
	".views-field-title",
	".field--name-field-awardee",
	".field--name-field-award-people",
	".field--name-field-award-film",
	"h4",
	"h3",
}

const filmField = ".field--name-field-award-film"

// MarkupStrategy reads the ceremony page's grouped view markup.
type MarkupStrategy struct{}

func (MarkupStrategy) Name() string { return "markup" }

func (MarkupStrategy) Nominees(src []byte) ([]CategoryNominees, error) {
	root, err := parseRoot(src)
	if err != nil {
		return nil, err
	}

	var out []CategoryNominees
	eachGroup(root, func(name string, group *goquery.Selection) {
		var nominees []string
		group.Find(".views-row").Each(func(_ int, row *goquery.Selection) {
			label := rowLabel(row)
			if label == "" || isSentinelFold(label) || isPlaceholder(label) {
				return
			}
			nominees = append(nominees, label)
		})
		nominees = dedupe(nominees)
		if len(nominees) > 0 {
			out = append(out, CategoryNominees{Name: name, Nominees: nominees})
		}
	})

	if len(out) == 0 {
		return nil, fmt.Errorf("markup: %w", domain.ErrNoCategories)
	}
	return out, nil
}

// Winners returns, per group, the first row flagged as the winner.
func (MarkupStrategy) Winners(src []byte) (map[string]string, error) {
	root, err := parseRoot(src)
	if err != nil {
		return nil, err
	}

	winners := map[string]string{}
	groups := eachGroup(root, func(name string, group *goquery.Selection) {
		group.Find(".views-row").EachWithBreak(func(_ int, row *goquery.Selection) bool {
			if !isWinnerRow(row) {
				return true
			}
			label := rowLabel(row)
			if label == "" || isSentinelFold(label) || isPlaceholder(label) {
				return true
			}
			if _, seen := winners[name]; !seen {
				detail := CleanText(row.Find(filmField).First().Text())
				winners[name] = FormatDetail(name, label, detail)
			}
			return false
		})
	})

	if groups == 0 {
		return nil, fmt.Errorf("markup: %w", domain.ErrNoCategories)
	}
	return winners, nil
}

func parseRoot(src []byte) (*goquery.Selection, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("markup: parse html: %w", err)
	}
	root := doc.Find("main").First()
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}
	return root, nil
}

// eachGroup calls fn for every group with a non-empty header and returns how
// many there were.
func eachGroup(root *goquery.Selection, fn func(name string, group *goquery.Selection)) int {
	n := 0
	root.Find(".view-grouping").Each(func(_ int, group *goquery.Selection) {
		name := CleanText(group.Find(".view-grouping-header").First().Text())
		if name == "" {
			return
		}
		n++
		fn(name, group)
	})
	return n
}

func rowLabel(row *goquery.Selection) string {
	for _, sel := range rowProbes {
		if t := CleanText(row.Find(sel).First().Text()); t != "" {
			return t
		}
	}

	raw := strings.TrimSpace(row.Text())
	if i := strings.Index(raw, "  "); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '\n'); i >= 0 {
		raw = raw[:i]
	}
	return CleanText(raw)
}

func isWinnerRow(row *goquery.Selection) bool {
	if class, ok := row.Attr("class"); ok && strings.Contains(strings.ToLower(class), "winner") {
		return true
	}
	found := false
	row.Find("*").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if CleanText(el.Text()) == SentinelWinner {
			found = true
			return false
		}
		return true
	})
	return found
}

func isSentinelFold(s string) bool {
	return strings.EqualFold(s, SentinelNominees) || strings.EqualFold(s, SentinelWinner)
}
