package rank

import (
	"sort"

	"awardpool-engine/internal/domain"
)

// Leaderboard orders entries by score, then correct picks (both descending),
// then username, and assigns competition ranks: tied (score, correct) pairs
// share a rank and the next distinct entry takes its position, e.g. 1,1,3.
func Leaderboard(entries []domain.ScoreEntry) []domain.LeaderboardRow {
	sorted := make([]domain.ScoreEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Correct != b.Correct {
			return a.Correct > b.Correct
		}
		return a.Username < b.Username
	})

	rows := make([]domain.LeaderboardRow, 0, len(sorted))
	rank := 0
	for i, e := range sorted {
		if i == 0 || e.Score != sorted[i-1].Score || e.Correct != sorted[i-1].Correct {
			rank = i + 1
		}
		rows = append(rows, domain.LeaderboardRow{
			Rank:       rank,
			Username:   e.Username,
			VotedCount: e.VotedCount,
			Score:      e.Score,
			Correct:    e.Correct,
		})
	}
	return rows
}
