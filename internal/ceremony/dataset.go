// Package ceremony holds the canonical dataset for one award year and the
// rules that bind scraped names and user picks to it.
package ceremony

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"awardpool-engine/internal/domain"
	"awardpool-engine/internal/extract"
)

// Decode reads and normalizes a dataset. Any failure is reported as
// domain.ErrSourceUnavailable.
func Decode(r io.Reader) (domain.Dataset, error) {
	var ds domain.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: decode dataset: %v", domain.ErrSourceUnavailable, err)
	}
	ds = Normalize(ds)
	if err := Validate(ds); err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	return ds, nil
}

func Load(path string) (domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	defer f.Close()
	return Decode(f)
}

// Save writes the dataset as indented JSON, replacing the file atomically.
func Save(path string, ds domain.Dataset) error {
	b, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Normalize fills missing ids and weights and de-duplicates nominees.
func Normalize(ds domain.Dataset) domain.Dataset {
	if ds.PointsPerCategory <= 0 {
		ds.PointsPerCategory = 1
	}
	cats := make([]domain.Category, 0, len(ds.Categories))
	for _, c := range ds.Categories {
		c.Name = strings.TrimSpace(c.Name)
		if c.ID == "" {
			c.ID = extract.Slugify(c.Name)
		}
		if c.Points <= 0 {
			c.Points = ds.PointsPerCategory
		}
		c.Nominees = uniqueNonEmpty(c.Nominees)
		cats = append(cats, c)
	}
	ds.Categories = cats
	return ds
}

func Validate(ds domain.Dataset) error {
	var errs []string
	if len(ds.Categories) == 0 {
		errs = append(errs, "categories must not be empty")
	}
	seen := map[string]bool{}
	for i, c := range ds.Categories {
		if c.ID == "" {
			errs = append(errs, fmt.Sprintf("categories[%d].id is required", i))
		}
		if seen[c.ID] {
			errs = append(errs, fmt.Sprintf("categories[%d].id %q is duplicated", i, c.ID))
		}
		seen[c.ID] = true
		if c.Name == "" {
			errs = append(errs, fmt.Sprintf("categories[%d].name is required", i))
		}
		if len(c.Nominees) == 0 {
			errs = append(errs, fmt.Sprintf("categories[%d].nominees must not be empty", i))
		}
	}
	if len(errs) > 0 {
		return errors.New("dataset validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

func uniqueNonEmpty(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
