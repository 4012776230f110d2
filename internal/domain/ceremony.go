package domain

import "time"

type Category struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Points   int      `json:"points"`
	Nominees []string `json:"nominees"`
}

// Dataset is one ceremony year: the canonical categories and their nominees.
type Dataset struct {
	Year              string     `json:"year"`
	PointsPerCategory int        `json:"pointsPerCategory"`
	CeremonyDate      string     `json:"ceremonyDate,omitempty"` // RFC3339; voting closes at this instant
	Categories        []Category `json:"categories"`
}

// PointsFor returns the category weight, falling back to the dataset default.
func (d Dataset) PointsFor(c Category) int {
	if c.Points > 0 {
		return c.Points
	}
	if d.PointsPerCategory > 0 {
		return d.PointsPerCategory
	}
	return 1
}

// ExtractedResult is produced wholesale by one extraction pass and replaces
// the previous one; it is never merged field by field.
type ExtractedResult struct {
	WinnersByCategoryID map[string]string `json:"winnersByCategoryId"`
	CeremonyYear        string            `json:"ceremonyYear"`
	FinalizedAt         time.Time         `json:"finalizedAt"`
}

type UserPicks struct {
	Username          string            `json:"username"`
	PicksByCategoryID map[string]string `json:"picksByCategoryId"`
}

// SourceKind tells how a fetched page must be read.
type SourceKind string

const (
	KindMarkup SourceKind = "markup"
	KindText   SourceKind = "text"
)
