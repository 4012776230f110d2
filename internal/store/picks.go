package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"awardpool-engine/internal/domain"
)

// UpsertPicks replaces the user's picks. Usernames are unique regardless of
// case; the spelling first saved is kept.
func UpsertPicks(ctx context.Context, db *sql.DB, up domain.UserPicks) error {
	return upsertPicks(ctx, db, up)
}

func upsertPicks(ctx context.Context, x execer, up domain.UserPicks) error {
	picks := up.PicksByCategoryID
	if picks == nil {
		picks = map[string]string{}
	}
	b, err := json.Marshal(picks)
	if err != nil {
		return err
	}
	_, err = x.ExecContext(ctx, `
INSERT INTO picks(username, picks, updated_at)
VALUES(?,?,?)
ON CONFLICT(username) DO UPDATE SET
  picks = excluded.picks,
  updated_at = excluded.updated_at;
`, up.Username, string(b), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert picks: %w", err)
	}
	return nil
}

// ListPicks returns every user's picks in registration order.
func ListPicks(ctx context.Context, db *sql.DB) ([]domain.UserPicks, error) {
	return listPicks(ctx, db)
}

func listPicks(ctx context.Context, q queryer) ([]domain.UserPicks, error) {
	rows, err := q.QueryContext(ctx, `SELECT username, picks FROM picks ORDER BY rowid;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserPicks
	for rows.Next() {
		var up domain.UserPicks
		var picksJSON string
		if err := rows.Scan(&up.Username, &picksJSON); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(picksJSON), &up.PicksByCategoryID)
		if up.PicksByCategoryID == nil {
			up.PicksByCategoryID = map[string]string{}
		}
		out = append(out, up)
	}
	return out, rows.Err()
}

func DeletePicks(ctx context.Context, db *sql.DB, username string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM picks WHERE username = ?;`, username)
	return err
}
