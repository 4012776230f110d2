package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"awardpool-engine/internal/domain"
)

func SaveDataset(ctx context.Context, db *sql.DB, ds domain.Dataset) error {
	return saveDataset(ctx, db, ds)
}

func saveDataset(ctx context.Context, x execer, ds domain.Dataset) error {
	if ds.Year == "" {
		return errors.New("dataset year is required")
	}
	b, err := json.Marshal(ds)
	if err != nil {
		return err
	}
	_, err = x.ExecContext(ctx, `
INSERT INTO datasets(year, data, updated_at)
VALUES(?,?,?)
ON CONFLICT(year) DO UPDATE SET
  data = excluded.data,
  updated_at = excluded.updated_at;
`, ds.Year, string(b), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	return nil
}

// GetDataset returns the dataset for year; ok is false when none is stored.
func GetDataset(ctx context.Context, db *sql.DB, year string) (ds domain.Dataset, ok bool, err error) {
	var data string
	err = db.QueryRowContext(ctx, `SELECT data FROM datasets WHERE year = ? LIMIT 1;`, year).Scan(&data)
	if err == sql.ErrNoRows {
		return domain.Dataset{}, false, nil
	}
	if err != nil {
		return domain.Dataset{}, false, err
	}
	if err := json.Unmarshal([]byte(data), &ds); err != nil {
		return domain.Dataset{}, false, fmt.Errorf("decode dataset %s: %w", year, err)
	}
	return ds, true, nil
}

func listDatasets(ctx context.Context, q queryer) ([]domain.Dataset, error) {
	rows, err := q.QueryContext(ctx, `SELECT data FROM datasets ORDER BY year;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Dataset
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var ds domain.Dataset
		if err := json.Unmarshal([]byte(data), &ds); err != nil {
			return nil, err
		}
		out = append(out, ds)
	}
	return out, rows.Err()
}
