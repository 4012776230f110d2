package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"awardpool-engine/internal/domain"
)

// Bundle is the whole persisted state as one JSON document.
type Bundle struct {
	ExportedAt time.Time                `json:"exportedAt"`
	Datasets   []domain.Dataset         `json:"datasets,omitempty"`
	Picks      []domain.UserPicks       `json:"picks,omitempty"`
	Results    []domain.ExtractedResult `json:"results,omitempty"`
}

func Export(ctx context.Context, db *sql.DB) (Bundle, error) {
	b := Bundle{ExportedAt: time.Now().UTC()}
	var err error
	if b.Datasets, err = listDatasets(ctx, db); err != nil {
		return Bundle{}, fmt.Errorf("export datasets: %w", err)
	}
	if b.Picks, err = listPicks(ctx, db); err != nil {
		return Bundle{}, fmt.Errorf("export picks: %w", err)
	}
	if b.Results, err = listResults(ctx, db); err != nil {
		return Bundle{}, fmt.Errorf("export results: %w", err)
	}
	return b, nil
}

// Import writes every section present in b inside one transaction. Sections
// that are absent leave the stored rows alone.
func Import(ctx context.Context, db *sql.DB, b Bundle) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, ds := range b.Datasets {
		if err := saveDataset(ctx, tx, ds); err != nil {
			return err
		}
	}
	for _, up := range b.Picks {
		if up.Username == "" {
			return errors.New("import: picks entry without username")
		}
		if err := upsertPicks(ctx, tx, up); err != nil {
			return err
		}
	}
	for _, res := range b.Results {
		if res.CeremonyYear == "" {
			return errors.New("import: result without ceremonyYear")
		}
		if err := putResults(ctx, tx, res); err != nil {
			return fmt.Errorf("import results: %w", err)
		}
	}
	return tx.Commit()
}
