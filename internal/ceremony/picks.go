package ceremony

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"awardpool-engine/internal/domain"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _-]{1,23}$`)

func NormalizeUsername(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func ValidUsername(s string) bool {
	return usernamePattern.MatchString(s)
}

// VotingDeadline parses the dataset's ceremony date. ok is false when the
// dataset has none, in which case voting never closes.
func VotingDeadline(ds domain.Dataset) (deadline time.Time, ok bool) {
	if ds.CeremonyDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, ds.CeremonyDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func VotingOpen(ds domain.Dataset, now time.Time) bool {
	deadline, ok := VotingDeadline(ds)
	return !ok || !now.After(deadline)
}

// PreparePicks validates a save request. Picks for unknown categories or
// naming someone outside the category's nominee list are dropped.
func PreparePicks(ds domain.Dataset, username string, picks map[string]string, now time.Time) (domain.UserPicks, error) {
	if !VotingOpen(ds, now) {
		return domain.UserPicks{}, domain.ErrVotingClosed
	}
	username = NormalizeUsername(username)
	if !ValidUsername(username) {
		return domain.UserPicks{}, fmt.Errorf("%w: %q", domain.ErrInvalidUsername, username)
	}

	out := make(map[string]string, len(picks))
	for _, c := range ds.Categories {
		choice := strings.TrimSpace(picks[c.ID])
		if choice == "" || !contains(c.Nominees, choice) {
			continue
		}
		out[c.ID] = choice
	}
	if len(out) == 0 {
		return domain.UserPicks{}, domain.ErrNoPicks
	}
	return domain.UserPicks{Username: username, PicksByCategoryID: out}, nil
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
