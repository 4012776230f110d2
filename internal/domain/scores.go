package domain

type ScoreEntry struct {
	Username   string `json:"username"`
	Score      int    `json:"score"`
	Correct    int    `json:"correct"`
	VotedCount int    `json:"votedCount"`
}

type LeaderboardRow struct {
	Rank       int    `json:"rank"`
	Username   string `json:"username"`
	VotedCount int    `json:"votedCount"`
	Score      int    `json:"score"`
	Correct    int    `json:"correct"`
}

// SimilarityCell compares two users over the categories both voted in.
// Percent is nil when they share no voted category.
type SimilarityCell struct {
	UserA    string `json:"userA"`
	UserB    string `json:"userB"`
	Compared int    `json:"compared"`
	Matched  int    `json:"matched"`
	Percent  *int   `json:"percent"`
}

type SimilarityGrid struct {
	Users []string         `json:"users"`
	Cells []SimilarityCell `json:"cells"`
}

// Cell looks up the pair in either order. ok is false on the diagonal and for
// unknown users.
func (g SimilarityGrid) Cell(a, b string) (SimilarityCell, bool) {
	if a == b {
		return SimilarityCell{}, false
	}
	for _, c := range g.Cells {
		if (c.UserA == a && c.UserB == b) || (c.UserA == b && c.UserB == a) {
			return c, true
		}
	}
	return SimilarityCell{}, false
}
