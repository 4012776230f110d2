package rank

import (
	"testing"

	"awardpool-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataset() domain.Dataset {
	return domain.Dataset{
		Year:              "2026",
		PointsPerCategory: 1,
		Categories: []domain.Category{
			{ID: "best_picture", Name: "Best Picture", Points: 2, Nominees: []string{"Movie A", "Movie B"}},
			{ID: "sound", Name: "Sound", Points: 1, Nominees: []string{"Mix Team", "Other Team"}},
			{ID: "editing", Name: "Editing", Nominees: []string{"Cut Crew", "Trim Crew"}},
		},
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	res := domain.ExtractedResult{WinnersByCategoryID: map[string]string{
		"best_picture": "Movie A",
		"sound":        "Mix Team",
		"editing":      "Cut Crew",
	}}
	picks := []domain.UserPicks{
		{Username: "ann", PicksByCategoryID: map[string]string{"best_picture": "Movie A", "sound": "Mix Team", "editing": "Trim Crew"}},
		{Username: "bob", PicksByCategoryID: map[string]string{}},
		{Username: "cat", PicksByCategoryID: map[string]string{"editing": "cut  crew", "unknown": "X"}},
	}

	got := Score(dataset(), res, picks)

	assert.Equal(t, []domain.ScoreEntry{
		{Username: "ann", Score: 3, Correct: 2, VotedCount: 3},
		{Username: "cat", Score: 1, Correct: 1, VotedCount: 1},
	}, got)
}

func TestScore_When_NoWinnersYet(t *testing.T) {
	t.Parallel()

	picks := []domain.UserPicks{{Username: "ann", PicksByCategoryID: map[string]string{"sound": "Mix Team"}}}
	got := Score(dataset(), domain.ExtractedResult{}, picks)

	assert.Equal(t, []domain.ScoreEntry{{Username: "ann", VotedCount: 1}}, got)
}

func TestLeaderboard(t *testing.T) {
	t.Parallel()

	rows := Leaderboard([]domain.ScoreEntry{
		{Username: "C", Score: 8, Correct: 2},
		{Username: "B", Score: 10, Correct: 3},
		{Username: "A", Score: 10, Correct: 3},
	})

	require.Len(t, rows, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{rows[0].Username, rows[1].Username, rows[2].Username})
	assert.Equal(t, []int{1, 1, 3}, []int{rows[0].Rank, rows[1].Rank, rows[2].Rank})
}

func TestLeaderboard_When_TiesRepeat(t *testing.T) {
	t.Parallel()

	rows := Leaderboard([]domain.ScoreEntry{
		{Username: "e", Score: 1, Correct: 1},
		{Username: "a", Score: 5, Correct: 3},
		{Username: "d", Score: 1, Correct: 1},
		{Username: "b", Score: 5, Correct: 3},
		{Username: "c", Score: 5, Correct: 2},
		{Username: "Z", Score: 1, Correct: 1},
	})

	var ranks []int
	var names []string
	for _, r := range rows {
		ranks = append(ranks, r.Rank)
		names = append(names, r.Username)
	}
	assert.Equal(t, []string{"a", "b", "c", "Z", "d", "e"}, names)
	assert.Equal(t, []int{1, 1, 3, 4, 4, 4}, ranks)
}

func TestLeaderboard_When_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Leaderboard(nil))
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	picks := []domain.UserPicks{
		{Username: "ann", PicksByCategoryID: map[string]string{"best_picture": "Movie A", "sound": "Mix Team"}},
		{Username: "bob", PicksByCategoryID: map[string]string{"best_picture": " movie  a ", "sound": "Other Team"}},
		{Username: "cat", PicksByCategoryID: map[string]string{"editing": "Cut Crew"}},
	}

	grid := Similarity(dataset(), picks)

	assert.Equal(t, []string{"ann", "bob", "cat"}, grid.Users)
	require.Len(t, grid.Cells, 3)

	ab, ok := grid.Cell("bob", "ann")
	require.True(t, ok)
	assert.Equal(t, 2, ab.Compared)
	assert.Equal(t, 1, ab.Matched)
	require.NotNil(t, ab.Percent)
	assert.Equal(t, 50, *ab.Percent)
	assert.Equal(t, 2, Bucket(*ab.Percent))

	ac, ok := grid.Cell("ann", "cat")
	require.True(t, ok)
	assert.Equal(t, 0, ac.Compared)
	assert.Nil(t, ac.Percent)

	_, ok = grid.Cell("ann", "ann")
	assert.False(t, ok)
}

func TestCompare_When_Symmetric(t *testing.T) {
	t.Parallel()

	a := domain.UserPicks{Username: "a", PicksByCategoryID: map[string]string{"best_picture": "Movie A", "sound": "Mix Team", "editing": "Cut Crew"}}
	b := domain.UserPicks{Username: "b", PicksByCategoryID: map[string]string{"best_picture": "Movie A", "sound": "Other Team", "editing": "Cut Crew"}}

	ab, ba := Compare(dataset(), a, b), Compare(dataset(), b, a)

	assert.Equal(t, ab.Compared, ba.Compared)
	assert.Equal(t, ab.Matched, ba.Matched)
	assert.Equal(t, *ab.Percent, *ba.Percent)
	assert.Equal(t, 67, *ab.Percent)
}

func TestBucket(t *testing.T) {
	t.Parallel()

	cases := map[int]int{0: 0, 19: 0, 20: 1, 50: 2, 79: 3, 80: 4, 99: 4, 100: 5}
	for percent, want := range cases {
		assert.Equal(t, want, Bucket(percent), "Bucket(%d)", percent)
	}
}

func TestNormalizeLabel(t *testing.T) {
	t.Parallel()

	assert.True(t, SameLabel("Amélie  Poulain", "AMÉLIE poulain"))
	assert.True(t, SameLabel("Caf\u00e9", "Cafe\u0301"))
	assert.False(t, SameLabel("Movie A", "Movie B"))
}
