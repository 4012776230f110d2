package rank

import (
	"math"

	"awardpool-engine/internal/domain"
)

// Buckets is the number of heat levels Bucket can return.
const Buckets = 6

// Similarity compares every unordered pair of distinct users. Users keep
// their input order; cells are listed pairwise in that order.
func Similarity(ds domain.Dataset, picks []domain.UserPicks) domain.SimilarityGrid {
	grid := domain.SimilarityGrid{Users: make([]string, 0, len(picks))}
	for _, up := range picks {
		grid.Users = append(grid.Users, up.Username)
	}
	for i := 0; i < len(picks); i++ {
		for j := i + 1; j < len(picks); j++ {
			grid.Cells = append(grid.Cells, Compare(ds, picks[i], picks[j]))
		}
	}
	return grid
}

// Compare counts the categories both users picked and how many of those
// picks agree.
func Compare(ds domain.Dataset, a, b domain.UserPicks) domain.SimilarityCell {
	cell := domain.SimilarityCell{UserA: a.Username, UserB: b.Username}
	for _, c := range ds.Categories {
		if !hasPick(a.PicksByCategoryID, c.ID) || !hasPick(b.PicksByCategoryID, c.ID) {
			continue
		}
		cell.Compared++
		if SameLabel(a.PicksByCategoryID[c.ID], b.PicksByCategoryID[c.ID]) {
			cell.Matched++
		}
	}
	cell.Percent = Percent(cell.Matched, cell.Compared)
	return cell
}

// Percent is round(matched/compared*100), or nil when nothing was compared.
func Percent(matched, compared int) *int {
	if compared <= 0 {
		return nil
	}
	p := int(math.Round(float64(matched) / float64(compared) * 100))
	return &p
}

// Bucket maps a percentage to a heat level in [0, Buckets).
func Bucket(percent int) int {
	b := percent / 20
	if b < 0 {
		return 0
	}
	if b > Buckets-1 {
		return Buckets - 1
	}
	return b
}
