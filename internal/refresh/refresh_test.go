package refresh

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awardpool-engine/internal/config"
	"awardpool-engine/internal/domain"
	"awardpool-engine/internal/events"
	"awardpool-engine/internal/fetch"
	"awardpool-engine/internal/store"
)

type fakeFetcher struct {
	page  fetch.Page
	err   error
	calls atomic.Int32
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (fetch.Page, error) {
	f.calls.Add(1)
	return f.page, f.err
}

func textPage(s string) fetch.Page {
	return fetch.Page{Body: []byte(s), Kind: domain.KindText, ViaProxy: true, Status: 200}
}

func fixture() domain.Dataset {
	return domain.Dataset{
		Year:              "2026",
		PointsPerCategory: 1,
		Categories: []domain.Category{
			{ID: "best_picture", Name: "Best Picture", Points: 2, Nominees: []string{"Movie A", "Movie B"}},
			{ID: "sound", Name: "Sound", Points: 1, Nominees: []string{"Mix Team", "Other"}},
		},
	}
}

var ceremonyNight = time.Date(2026, 3, 16, 3, 0, 0, 0, time.UTC)

func newRefresher(t *testing.T, f Fetcher) (*Refresher, *store.DB) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "pool.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Refresher{
		DB:      db.Pool,
		Fetcher: f,
		Hub:     events.NewHub(),
		Now:     func() time.Time { return ceremonyNight },
	}, db
}

func TestOnce_When_WinnersPresent_Then_ResultReplaced(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := &fakeFetcher{page: textPage("Best Picture\nWinner\nMovie A\nSound\nWinner\nMix Team\nVisual Effects\nWinner\nRobots\n")}
	r, db := newRefresher(t, f)

	ch := r.Hub.Subscribe()
	defer r.Hub.Unsubscribe(ch)

	out, err := r.Once(ctx, "req-1", fixture(), "https://example.test/2026")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"best_picture": "Movie A", "sound": "Mix Team"}, out.Result.WinnersByCategoryID)
	assert.Equal(t, []string{"Visual Effects"}, out.Unmatched)

	got, ok, err := store.GetResults(ctx, db.Pool, "2026")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, out.Result.WinnersByCategoryID, got.WinnersByCategoryID)
	assert.True(t, ceremonyNight.Equal(got.FinalizedAt))

	var e events.Event
	require.NoError(t, json.Unmarshal([]byte(<-ch), &e))
	assert.Equal(t, events.ResultsUpdated, e.Type)

	st := r.Status()
	assert.Equal(t, OutcomeUpdated, st.LastOutcome)
	assert.Equal(t, 2, st.LastMatched)
	assert.False(t, st.Running)
	assert.NotEmpty(t, st.LastOkAt)
}

func TestOnce_When_NoWinnersYet_Then_PendingAndStoredKept(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := &fakeFetcher{page: textPage("Sound\nNominees\nMix Team\nOther\n")}
	r, db := newRefresher(t, f)

	prev := domain.ExtractedResult{
		CeremonyYear: "2026", WinnersByCategoryID: map[string]string{"sound": "Mix Team"}, FinalizedAt: ceremonyNight.Add(-time.Hour),
	}
	_, err := store.ReplaceResults(ctx, db.Pool, prev, 1)
	require.NoError(t, err)

	_, err = r.Once(ctx, "", fixture(), "https://example.test/2026")
	assert.ErrorIs(t, err, domain.ErrResultsPending)

	got, ok, err := store.GetResults(ctx, db.Pool, "2026")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, prev.WinnersByCategoryID, got.WinnersByCategoryID)
	assert.Equal(t, OutcomePending, r.Status().LastOutcome)
	assert.Empty(t, r.Status().LastError)
}

func TestOnce_When_PageUnrecognized_Then_NoCategories(t *testing.T) {
	t.Parallel()
	f := &fakeFetcher{page: textPage("Access denied\n")}
	r, _ := newRefresher(t, f)

	_, err := r.Once(context.Background(), "", fixture(), "u")
	assert.ErrorIs(t, err, domain.ErrNoCategories)
	assert.Equal(t, OutcomeFailed, r.Status().LastOutcome)
	assert.NotEmpty(t, r.Status().LastError)
}

func TestOnce_When_FetchFails_Then_SourceUnavailable(t *testing.T) {
	t.Parallel()
	f := &fakeFetcher{err: domain.ErrSourceUnavailable}
	r, _ := newRefresher(t, f)

	_, err := r.Once(context.Background(), "", fixture(), "u")
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestOnce_When_NewerResultStored_Then_Stale(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := &fakeFetcher{page: textPage("Sound\nWinner\nOther\n")}
	r, db := newRefresher(t, f)

	newer := domain.ExtractedResult{
		CeremonyYear: "2026", WinnersByCategoryID: map[string]string{"sound": "Mix Team"}, FinalizedAt: ceremonyNight,
	}
	_, err := store.ReplaceResults(ctx, db.Pool, newer, ceremonyNight.Add(time.Minute).UnixNano())
	require.NoError(t, err)

	_, err = r.Once(ctx, "", fixture(), "u")
	assert.ErrorIs(t, err, domain.ErrStaleResult)

	got, _, err := store.GetResults(ctx, db.Pool, "2026")
	require.NoError(t, err)
	assert.Equal(t, "Mix Team", got.WinnersByCategoryID["sound"])
	assert.Equal(t, OutcomeStale, r.Status().LastOutcome)
}

func TestOnce_When_AlreadyRunning_Then_ErrRunning(t *testing.T) {
	t.Parallel()
	r, _ := newRefresher(t, &fakeFetcher{})
	r.running.Store(true)

	_, err := r.Once(context.Background(), "", fixture(), "u")
	assert.ErrorIs(t, err, ErrRunning)
}

func TestTick_When_OutsideWindowOrDisabled_Then_NoFetch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := &fakeFetcher{page: textPage("Sound\nWinner\nMix Team\n")}
	r, db := newRefresher(t, f)
	require.NoError(t, store.SaveDataset(ctx, db.Pool, fixture()))

	cfg := config.Defaults()
	cfg.Ceremony.DatasetPath = ""
	var cfgVal atomic.Value

	cfg.Polling.WindowStart = "2026-03-16T04:00:00Z"
	cfgVal.Store(cfg)
	require.NoError(t, Tick(ctx, db.Pool, &cfgVal, r))
	assert.Zero(t, f.calls.Load())

	cfg.Polling.WindowStart = "2026-03-15T20:00:00Z"
	cfg.Polling.Enabled = false
	cfgVal.Store(cfg)
	require.NoError(t, Tick(ctx, db.Pool, &cfgVal, r))
	assert.Zero(t, f.calls.Load())

	cfg.Polling.Enabled = true
	cfgVal.Store(cfg)
	require.NoError(t, Tick(ctx, db.Pool, &cfgVal, r))
	assert.Equal(t, int32(1), f.calls.Load())

	got, ok, err := store.GetResults(ctx, db.Pool, "2026")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Mix Team", got.WinnersByCategoryID["sound"])
}
