package ceremony

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"awardpool-engine/internal/domain"
	"awardpool-engine/internal/extract"
)

type BuildOptions struct {
	Year              string
	DefaultPoints     int
	BestPicturePoints int
}

// Build turns a nominee extraction into a dataset. Point values and the
// ceremony date already present in existing (matched by id) are kept.
func Build(cats []extract.CategoryNominees, existing *domain.Dataset, opts BuildOptions) domain.Dataset {
	if opts.DefaultPoints <= 0 {
		opts.DefaultPoints = 1
	}
	if opts.BestPicturePoints <= 0 {
		opts.BestPicturePoints = 2
	}

	pointsByID := map[string]int{}
	ds := domain.Dataset{Year: opts.Year, PointsPerCategory: 1}
	if existing != nil {
		for _, c := range existing.Categories {
			if c.ID != "" && c.Points > 0 {
				pointsByID[c.ID] = c.Points
			}
		}
		if existing.PointsPerCategory > 0 {
			ds.PointsPerCategory = existing.PointsPerCategory
		}
		ds.CeremonyDate = existing.CeremonyDate
		if ds.Year == "" {
			ds.Year = existing.Year
		}
	}

	used := map[string]int{}
	for _, c := range cats {
		id := extract.Slugify(c.Name)
		used[id]++
		if n := used[id]; n > 1 {
			id = fmt.Sprintf("%s_%d", id, n)
		}

		points := opts.DefaultPoints
		if strings.EqualFold(strings.TrimSpace(c.Name), "best picture") {
			points = opts.BestPicturePoints
		}
		if p, ok := pointsByID[id]; ok {
			points = p
		}

		ds.Categories = append(ds.Categories, domain.Category{
			ID:       id,
			Name:     c.Name,
			Points:   points,
			Nominees: uniqueNonEmpty(c.Nominees),
		})
	}
	return ds
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// YearFromURL returns the first four-digit run in the URL, or the current
// year when there is none.
func YearFromURL(u string, now time.Time) string {
	if y := yearPattern.FindString(u); y != "" {
		return y
	}
	return fmt.Sprint(now.Year())
}
