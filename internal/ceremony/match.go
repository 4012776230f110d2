package ceremony

import (
	"sort"

	"awardpool-engine/internal/domain"
)

// MatchWinners binds extracted category names to dataset ids by exact name.
// Names with no canonical category are returned in unmatched and otherwise
// ignored; source naming drifts between seasons.
func MatchWinners(ds domain.Dataset, byName map[string]string) (winners map[string]string, unmatched []string) {
	idByName := make(map[string]string, len(ds.Categories))
	for _, c := range ds.Categories {
		idByName[c.Name] = c.ID
	}

	winners = make(map[string]string, len(byName))
	for name, label := range byName {
		id, ok := idByName[name]
		if !ok || label == "" {
			unmatched = append(unmatched, name)
			continue
		}
		winners[id] = label
	}
	sort.Strings(unmatched)
	return winners, unmatched
}
