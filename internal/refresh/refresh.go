// Package refresh runs the results cycle: fetch the ceremony page, extract
// winners, bind them to the dataset and replace the stored result.
package refresh

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"awardpool-engine/internal/ceremony"
	"awardpool-engine/internal/domain"
	"awardpool-engine/internal/events"
	"awardpool-engine/internal/extract"
	"awardpool-engine/internal/fetch"
	"awardpool-engine/internal/store"
)

var ErrRunning = errors.New("a results refresh is already running")

type Fetcher interface {
	Fetch(ctx context.Context, url string) (fetch.Page, error)
}

// Status is published on GET /results/status.
type Status struct {
	LastRunAt     string   `json:"last_run_at"`
	LastOkAt      string   `json:"last_ok_at"`
	LastError     string   `json:"last_error"`
	LastOutcome   string   `json:"last_outcome"`
	LastMatched   int      `json:"last_matched"`
	LastUnmatched []string `json:"last_unmatched,omitempty"`
	Running       bool     `json:"running"`
}

const (
	OutcomeUpdated = "updated"
	OutcomePending = "pending"
	OutcomeStale   = "stale"
	OutcomeFailed  = "failed"
)

type Outcome struct {
	Result    domain.ExtractedResult
	Unmatched []string
	Source    domain.SourceKind
}

type Refresher struct {
	DB      *sql.DB
	Fetcher Fetcher
	Hub     *events.Hub
	Now     func() time.Time

	running atomic.Bool
	status  atomic.Value
}

func (r *Refresher) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Refresher) Status() Status {
	if st, ok := r.status.Load().(Status); ok {
		return st
	}
	return Status{}
}

func (r *Refresher) update(fn func(*Status)) {
	st := r.Status()
	fn(&st)
	r.status.Store(st)
}

// Once runs one cycle for ds against url. A cycle that finds no winner yet
// returns domain.ErrResultsPending and leaves the stored result alone. The
// cycle's start time orders concurrent writers: a result from a cycle that
// started before the stored one is dropped with domain.ErrStaleResult.
func (r *Refresher) Once(ctx context.Context, reqID string, ds domain.Dataset, url string) (Outcome, error) {
	if !r.running.CompareAndSwap(false, true) {
		return Outcome{}, ErrRunning
	}
	defer r.running.Store(false)

	started := r.now()
	r.update(func(st *Status) {
		st.Running = true
		st.LastRunAt = started.Format(time.RFC3339)
	})

	out, err := r.run(ctx, reqID, ds, url, started)

	r.update(func(st *Status) {
		st.Running = false
		st.LastMatched = len(out.Result.WinnersByCategoryID)
		st.LastUnmatched = out.Unmatched
		switch {
		case err == nil:
			st.LastOutcome = OutcomeUpdated
			st.LastError = ""
			st.LastOkAt = r.now().Format(time.RFC3339)
		case errors.Is(err, domain.ErrResultsPending):
			st.LastOutcome = OutcomePending
			st.LastError = ""
		case errors.Is(err, domain.ErrStaleResult):
			st.LastOutcome = OutcomeStale
			st.LastError = ""
		default:
			st.LastOutcome = OutcomeFailed
			st.LastError = err.Error()
		}
	})
	return out, err
}

func (r *Refresher) run(ctx context.Context, reqID string, ds domain.Dataset, url string, started time.Time) (Outcome, error) {
	page, err := r.Fetcher.Fetch(ctx, url)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Source: page.Kind}

	strategy := extract.ForKind(page.Kind)
	byName, err := strategy.Winners(page.Body)
	if err != nil {
		return out, fmt.Errorf("%s winners: %w", strategy.Name(), err)
	}

	winners, unmatched := ceremony.MatchWinners(ds, byName)
	out.Unmatched = unmatched
	if len(unmatched) > 0 {
		log.Printf("[refresh] unmatched categories=%q", unmatched)
	}
	if len(winners) == 0 {
		return out, domain.ErrResultsPending
	}

	out.Result = domain.ExtractedResult{
		WinnersByCategoryID: winners,
		CeremonyYear:        ds.Year,
		FinalizedAt:         r.now().UTC(),
	}
	applied, err := store.ReplaceResults(ctx, r.DB, out.Result, started.UnixNano())
	if err != nil {
		return out, err
	}
	if !applied {
		return out, domain.ErrStaleResult
	}

	log.Printf("[refresh] ok source=%s matched=%d unmatched=%d", page.Kind, len(winners), len(unmatched))
	r.Hub.Emit(reqID, events.ResultsUpdated, map[string]any{
		"ceremonyYear": ds.Year,
		"matched":      len(winners),
		"finalizedAt":  out.Result.FinalizedAt,
	})
	return out, nil
}
