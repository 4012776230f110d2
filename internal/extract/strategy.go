package extract

import (
	"fmt"

	"awardpool-engine/internal/domain"
)

// Strategy recovers categories from one kind of source page. Both methods
// return domain.ErrNoCategories when no category block is recognized; a page
// with categories but no winners yields an empty map and a nil error.
type Strategy interface {
	Name() string
	Nominees(src []byte) ([]CategoryNominees, error)
	Winners(src []byte) (map[string]string, error)
}

// ForKind picks the strategy matching how the page was fetched.
func ForKind(kind domain.SourceKind) Strategy {
	if kind == domain.KindMarkup {
		return MarkupStrategy{}
	}
	return TextStrategy{}
}

// TextStrategy reads line-oriented text, e.g. a page rendered to text by a proxy.
type TextStrategy struct{}

func (TextStrategy) Name() string { return "text" }

func (TextStrategy) Nominees(src []byte) ([]CategoryNominees, error) {
	cats, _ := ScanNominees(PrepareLines(string(src)))
	if len(cats) == 0 {
		return nil, fmt.Errorf("text: %w", domain.ErrNoCategories)
	}
	return cats, nil
}

func (TextStrategy) Winners(src []byte) (map[string]string, error) {
	lines := PrepareLines(string(src))
	winners, blocks := ScanWinners(lines)
	if blocks > 0 {
		return winners, nil
	}
	// No "Winner" blocks yet: fine as long as the page still lists categories.
	if _, n := ScanNominees(lines); n > 0 {
		return winners, nil
	}
	return nil, fmt.Errorf("text: %w", domain.ErrNoCategories)
}
