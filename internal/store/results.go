package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"awardpool-engine/internal/domain"
)

// ReplaceResults stores res as the year's result in one statement, but only
// when seq is newer than the stored sequence. applied is false when a newer
// result was already there.
func ReplaceResults(ctx context.Context, db *sql.DB, res domain.ExtractedResult, seq int64) (applied bool, err error) {
	b, err := json.Marshal(res.WinnersByCategoryID)
	if err != nil {
		return false, err
	}
	r, err := db.ExecContext(ctx, `
INSERT INTO results(year, winners, finalized_at, seq)
VALUES(?,?,?,?)
ON CONFLICT(year) DO UPDATE SET
  winners = excluded.winners,
  finalized_at = excluded.finalized_at,
  seq = excluded.seq
WHERE excluded.seq > results.seq;
`, res.CeremonyYear, string(b), res.FinalizedAt.UTC().Format(time.RFC3339), seq)
	if err != nil {
		return false, fmt.Errorf("replace results: %w", err)
	}
	n, _ := r.RowsAffected()
	return n > 0, nil
}

// GetResults returns the stored result for year; ok is false when there is none.
func GetResults(ctx context.Context, db *sql.DB, year string) (res domain.ExtractedResult, ok bool, err error) {
	var winnersJSON, finalized string
	err = db.QueryRowContext(ctx,
		`SELECT winners, finalized_at FROM results WHERE year = ? LIMIT 1;`, year,
	).Scan(&winnersJSON, &finalized)
	if err == sql.ErrNoRows {
		return domain.ExtractedResult{}, false, nil
	}
	if err != nil {
		return domain.ExtractedResult{}, false, err
	}
	return decodeResult(year, winnersJSON, finalized), true, nil
}

func ClearResults(ctx context.Context, db *sql.DB, year string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM results WHERE year = ?;`, year)
	return err
}

func listResults(ctx context.Context, q queryer) ([]domain.ExtractedResult, error) {
	rows, err := q.QueryContext(ctx, `SELECT year, winners, finalized_at FROM results ORDER BY year;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ExtractedResult
	for rows.Next() {
		var year, winnersJSON, finalized string
		if err := rows.Scan(&year, &winnersJSON, &finalized); err != nil {
			return nil, err
		}
		out = append(out, decodeResult(year, winnersJSON, finalized))
	}
	return out, rows.Err()
}

// putResults overwrites unconditionally; used by import.
func putResults(ctx context.Context, x execer, res domain.ExtractedResult) error {
	b, err := json.Marshal(res.WinnersByCategoryID)
	if err != nil {
		return err
	}
	_, err = x.ExecContext(ctx, `
INSERT OR REPLACE INTO results(year, winners, finalized_at, seq)
VALUES(?,?,?,?);`,
		res.CeremonyYear, string(b), res.FinalizedAt.UTC().Format(time.RFC3339), res.FinalizedAt.UnixNano())
	return err
}

func decodeResult(year, winnersJSON, finalized string) domain.ExtractedResult {
	res := domain.ExtractedResult{CeremonyYear: year, WinnersByCategoryID: map[string]string{}}
	_ = json.Unmarshal([]byte(winnersJSON), &res.WinnersByCategoryID)
	res.FinalizedAt, _ = time.Parse(time.RFC3339, finalized)
	return res
}
