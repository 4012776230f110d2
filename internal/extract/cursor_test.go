package extract

import (
	"strings"
	"testing"

	"awardpool-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanWinners_When_DetailFollowsWinner(t *testing.T) {
	t.Parallel()

	lines := []string{"Best Picture", "Winner", "Movie A", "Director X", "Sound", "Winner", "Mix Team"}
	winners, blocks := ScanWinners(lines)

	assert.Equal(t, 2, blocks)
	assert.Equal(t, map[string]string{"Best Picture": "Movie A", "Sound": "Mix Team"}, winners)
}

func TestScanWinners_When_NextLineIsHeader(t *testing.T) {
	t.Parallel()

	lines := []string{"Directing", "Winner", "Jane Doe", "Sound", "Winner", "Mix Team"}
	winners, _ := ScanWinners(lines)

	assert.Equal(t, "Jane Doe", winners["Directing"])
	assert.Equal(t, "Mix Team", winners["Sound"])
}

func TestScanWinners_When_CategoryUsesDetail(t *testing.T) {
	t.Parallel()

	lines := []string{
		"Intro text",
		"Directing", "Winner", "Jane Doe", "Some Film",
		"International Feature Film", "Winner", "Movie X", "Italy",
	}
	winners, _ := ScanWinners(lines)

	assert.Equal(t, "Jane Doe (Some Film)", winners["Directing"])
	assert.Equal(t, "Movie X — Italy", winners["International Feature Film"])
}

func TestScanWinners_When_BlockIsMalformed(t *testing.T) {
	t.Parallel()

	// Stray sentinels and a block without a winner must not abort the scan.
	lines := []string{
		"Winner", "Winner",
		"Sound", "Winner",
		"Editing", "Winner", "Cut Crew",
		"Sound", "Winner", "Late Team",
		"Score", "Winner",
	}
	winners, blocks := ScanWinners(lines)

	assert.Equal(t, 4, blocks)
	assert.Equal(t, map[string]string{"Editing": "Cut Crew", "Sound": "Late Team"}, winners)
}

func TestScanWinners_When_CategoryRepeats(t *testing.T) {
	t.Parallel()

	winners, blocks := ScanWinners([]string{"Sound", "Winner", "First", "Sound", "Winner", "Second"})

	assert.Equal(t, 2, blocks)
	assert.Equal(t, map[string]string{"Sound": "First"}, winners)
}

func TestScanNominees(t *testing.T) {
	t.Parallel()

	lines := []string{
		"Welcome to the ceremony",
		"NOMINEES",
		"Actor in a Leading Role", "Nominees",
		"Jane Doe", "Some Film",
		"John Roe", "Other Film",
		"International Feature Film", "Nominees",
		"Movie X", "Italy",
		"Movie Y", "Japan",
		"Best Picture", "Nominees",
		"Movie A", "Producers A",
		"Movie A", "Producers A",
		"Visual Effects", "Nominees",
		"Nominees to be determined",
	}
	cats, blocks := ScanNominees(lines)

	assert.Equal(t, 4, blocks)
	require.Len(t, cats, 3)
	assert.Equal(t, CategoryNominees{Name: "Actor in a Leading Role", Nominees: []string{"Jane Doe (Some Film)", "John Roe (Other Film)"}}, cats[0])
	assert.Equal(t, CategoryNominees{Name: "International Feature Film", Nominees: []string{"Movie X — Italy", "Movie Y — Japan"}}, cats[1])
	assert.Equal(t, CategoryNominees{Name: "Best Picture", Nominees: []string{"Movie A"}}, cats[2])
}

func TestScanNominees_When_OnlyPlaceholders(t *testing.T) {
	t.Parallel()

	lines := []string{
		"Sound", "Nominees", "NOMINEES TO BE DETERMINED",
		"Editing", "Nominees", "Nominees", "Cut Crew",
	}
	cats, blocks := ScanNominees(lines)

	assert.Equal(t, 2, blocks)
	require.Len(t, cats, 1)
	assert.Equal(t, "Editing", cats[0].Name)
	assert.Equal(t, []string{"Cut Crew"}, cats[0].Nominees)
	for _, c := range cats {
		for _, n := range c.Nominees {
			assert.NotContains(t, strings.ToLower(n), "to be determined")
		}
	}
}

func TestTextStrategy_Winners(t *testing.T) {
	t.Parallel()

	t.Run("pending ceremony", func(t *testing.T) {
		src := []byte("Sound\nNominees\nMix Team\nCredit\n")
		winners, err := TextStrategy{}.Winners(src)
		require.NoError(t, err)
		assert.Empty(t, winners)
	})

	t.Run("unrecognized page", func(t *testing.T) {
		_, err := TextStrategy{}.Winners([]byte("Access denied\nPlease try later\n"))
		assert.ErrorIs(t, err, domain.ErrNoCategories)
	})

	t.Run("entities are decoded before matching", func(t *testing.T) {
		src := []byte("Makeup &amp; Hairstyling\nWinner\nThe   Team\n")
		winners, err := TextStrategy{}.Winners(src)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"Makeup & Hairstyling": "The Team"}, winners)
	})
}

func TestTextStrategy_Nominees_When_Empty(t *testing.T) {
	t.Parallel()

	_, err := TextStrategy{}.Nominees([]byte("nothing here"))
	assert.ErrorIs(t, err, domain.ErrNoCategories)
}
