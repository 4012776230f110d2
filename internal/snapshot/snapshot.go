// Package snapshot loads a consistent read view of one ceremony year: its
// dataset, stored result and every user's picks.
package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"golang.org/x/sync/errgroup"

	"awardpool-engine/internal/ceremony"
	"awardpool-engine/internal/domain"
	"awardpool-engine/internal/rank"
	"awardpool-engine/internal/store"
)

var ErrNoDataset = errors.New("no nominee dataset; run `engine nominees` first")

type Snapshot struct {
	Dataset   domain.Dataset
	Result    domain.ExtractedResult
	HasResult bool
	Picks     []domain.UserPicks
}

// Dataset returns the stored dataset for year. When the store has none it is
// seeded from the JSON file at path.
func Dataset(ctx context.Context, db *sql.DB, year, path string) (domain.Dataset, error) {
	ds, ok, err := store.GetDataset(ctx, db, year)
	if err != nil {
		return domain.Dataset{}, err
	}
	if ok {
		return ds, nil
	}
	if path == "" {
		return domain.Dataset{}, ErrNoDataset
	}

	ds, err = ceremony.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Dataset{}, ErrNoDataset
	}
	if err != nil {
		return domain.Dataset{}, err
	}
	if ds.Year != year {
		return domain.Dataset{}, fmt.Errorf("%w: %s holds year %s, want %s", ErrNoDataset, path, ds.Year, year)
	}
	if err := store.SaveDataset(ctx, db, ds); err != nil {
		return domain.Dataset{}, err
	}
	log.Printf("[snapshot] seeded dataset year=%s categories=%d from=%s", ds.Year, len(ds.Categories), path)
	return ds, nil
}

// Load reads dataset, result and picks concurrently.
func Load(ctx context.Context, db *sql.DB, year, path string) (Snapshot, error) {
	var s Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ds, err := Dataset(gctx, db, year, path)
		s.Dataset = ds
		return err
	})
	g.Go(func() error {
		res, ok, err := store.GetResults(gctx, db, year)
		s.Result, s.HasResult = res, ok
		return err
	})
	g.Go(func() error {
		picks, err := store.ListPicks(gctx, db)
		s.Picks = picks
		return err
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

func (s Snapshot) Leaderboard() []domain.LeaderboardRow {
	return rank.Leaderboard(rank.Score(s.Dataset, s.Result, s.Picks))
}

func (s Snapshot) Similarity() domain.SimilarityGrid {
	return rank.Similarity(s.Dataset, s.Picks)
}
