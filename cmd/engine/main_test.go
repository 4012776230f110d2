package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"awardpool-engine/internal/ceremony"
	"awardpool-engine/internal/domain"
	"awardpool-engine/internal/store"
)

func TestMain(m *testing.M) {
	keyring.MockInit()
	os.Exit(m.Run())
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
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

func seed(t *testing.T, dir string) {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(filepath.Join(dir, "awardpool.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, store.SaveDataset(ctx, db.Pool, fixture()))
	require.NoError(t, store.UpsertPicks(ctx, db.Pool, domain.UserPicks{
		Username: "ann", PicksByCategoryID: map[string]string{"best_picture": "Movie A", "sound": "Mix Team"},
	}))
	require.NoError(t, store.UpsertPicks(ctx, db.Pool, domain.UserPicks{
		Username: "bob", PicksByCategoryID: map[string]string{"best_picture": "Movie B", "sound": "Mix Team"},
	}))
	_, err = store.ReplaceResults(ctx, db.Pool, domain.ExtractedResult{
		CeremonyYear:        "2026",
		WinnersByCategoryID: map[string]string{"best_picture": "Movie A", "sound": "Mix Team"},
		FinalizedAt:         time.Date(2026, 3, 16, 4, 0, 0, 0, time.UTC),
	}, 1)
	require.NoError(t, err)
}

func TestLeaderboard_When_NotTerminal_Then_TabSeparated(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir)

	out, err := runCLI(t, "--data-dir", dir, "leaderboard")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Rank\tUser\tScore\tCorrect\tVoted", lines[0])
	assert.Equal(t, "1\tann\t3\t2\t2", lines[1])
	assert.Equal(t, "2\tbob\t1\t1\t2", lines[2])

	// config.yml is bootstrapped into the data dir.
	_, err = os.Stat(filepath.Join(dir, "config.yml"))
	assert.NoError(t, err)
}

func TestLeaderboard_When_JSON_Then_Rows(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir)

	out, err := runCLI(t, "--data-dir", dir, "leaderboard", "--json")
	require.NoError(t, err)
	var rows []domain.LeaderboardRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "ann", rows[0].Username)
}

func TestSimilarity_When_TwoUsers_Then_Matrix(t *testing.T) {
	dir := t.TempDir()
	seed(t, dir)

	out, err := runCLI(t, "--data-dir", dir, "similarity")
	require.NoError(t, err)
	assert.Contains(t, out, "50% (1/2) h2")
	assert.Contains(t, out, "-")
}

func TestExportImport_When_NewDataDir_Then_StateRestored(t *testing.T) {
	src := t.TempDir()
	seed(t, src)
	bundle := filepath.Join(t.TempDir(), "bundle.json")

	out, err := runCLI(t, "--data-dir", src, "export", "--out", bundle)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 datasets, 2 users, 1 results")

	dst := t.TempDir()
	out, err = runCLI(t, "--data-dir", dst, "import", bundle)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 datasets, 2 users, 1 results")

	out, err = runCLI(t, "--data-dir", dst, "leaderboard")
	require.NoError(t, err)
	assert.Contains(t, out, "1\tann\t3")
}

func TestNominees_When_MarkupPage_Then_DatasetSaved(t *testing.T) {
	page := `<html><body><main>
<div class="view-grouping"><div class="view-grouping-header">Best Picture</div>
  <div class="views-row"><div class="views-field-title">Movie A</div></div>
  <div class="views-row"><div class="views-field-title">Movie B</div></div></div>
<div class="view-grouping"><div class="view-grouping-header">Sound</div>
  <div class="views-row"><div class="views-field-title">Mix Team</div></div></div>
</main></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	dir := t.TempDir()
	out := filepath.Join(dir, "nominees.json")
	stdout, err := runCLI(t, "--data-dir", dir, "nominees", srv.URL+"/ceremonies", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saved 2 categories")
	assert.Contains(t, stdout, "source=markup")

	ds, err := ceremony.Load(out)
	require.NoError(t, err)
	require.Len(t, ds.Categories, 2)
	assert.Equal(t, "best_picture", ds.Categories[0].ID)
	assert.Equal(t, 2, ds.Categories[0].Points)
	assert.Equal(t, []string{"Movie A", "Movie B"}, ds.Categories[0].Nominees)
	assert.Equal(t, 1, ds.Categories[1].Points)
}

func TestShutdownHandler_When_TokenWrong_Then_Unauthorized(t *testing.T) {
	t.Parallel()
	token := "secret"
	h := shutdownHandler(&token, &http.Server{})

	req := httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "127.0.0.1:5555"
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	req.Header.Set("X-Shutdown-Token", token)
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
