package rank

import (
	"awardpool-engine/internal/domain"
)

// Score computes one entry per user that picked at least one category of the
// dataset. A missing pick or a missing winner contributes nothing.
func Score(ds domain.Dataset, res domain.ExtractedResult, picks []domain.UserPicks) []domain.ScoreEntry {
	out := make([]domain.ScoreEntry, 0, len(picks))
	for _, up := range picks {
		e := domain.ScoreEntry{Username: up.Username}
		for _, c := range ds.Categories {
			if !hasPick(up.PicksByCategoryID, c.ID) {
				continue
			}
			e.VotedCount++

			winner := res.WinnersByCategoryID[c.ID]
			if winner == "" || !SameLabel(up.PicksByCategoryID[c.ID], winner) {
				continue
			}
			e.Score += ds.PointsFor(c)
			e.Correct++
		}
		if e.VotedCount == 0 {
			continue
		}
		out = append(out, e)
	}
	return out
}
