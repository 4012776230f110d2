package httpapi

import (
	"database/sql"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"awardpool-engine/internal/ceremony"
	"awardpool-engine/internal/events"
	"awardpool-engine/internal/rank"
	"awardpool-engine/internal/snapshot"
	"awardpool-engine/internal/store"
)

type PoolHandler struct {
	DB     *sql.DB
	Hub    *events.Hub
	CfgVal *atomic.Value // config.Config
	Now    func() time.Time
}

func (h PoolHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h PoolHandler) Dataset(w http.ResponseWriter, r *http.Request) {
	cfg := currentConfig(h.CfgVal)
	ds, err := snapshot.Dataset(r.Context(), h.DB, cfg.Ceremony.Year, cfg.Ceremony.DatasetPath)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	deadline, hasDeadline := ceremony.VotingDeadline(ds)
	resp := map[string]any{
		"dataset":    ds,
		"votingOpen": ceremony.VotingOpen(ds, h.now()),
	}
	if hasDeadline {
		resp["votingClosesAt"] = deadline
	}
	writeJSON(w, resp)
}

func (h PoolHandler) ListPicks(w http.ResponseWriter, r *http.Request) {
	all, err := store.ListPicks(r.Context(), h.DB)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, all)
}

type savePicksReq struct {
	PicksByCategoryID map[string]string `json:"picksByCategoryId"`
}

func (h PoolHandler) SavePicksByPath(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimPrefix(r.URL.Path, "/picks/")

	var req savePicksReq
	if err := decodeStrict(r.Body, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}

	cfg := currentConfig(h.CfgVal)
	ds, err := snapshot.Dataset(r.Context(), h.DB, cfg.Ceremony.Year, cfg.Ceremony.DatasetPath)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	up, err := ceremony.PreparePicks(ds, username, req.PicksByCategoryID, h.now())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := store.UpsertPicks(r.Context(), h.DB, up); err != nil {
		writeDomainError(w, r, err)
		return
	}

	reqID := RequestIDFrom(r.Context())
	h.Hub.Emit(reqID, events.PicksSaved, map[string]any{"username": up.Username, "count": len(up.PicksByCategoryID)})
	writeJSON(w, up)
}

func (h PoolHandler) DeletePicksByPath(w http.ResponseWriter, r *http.Request) {
	username := ceremony.NormalizeUsername(strings.TrimPrefix(r.URL.Path, "/picks/"))
	if !ceremony.ValidUsername(username) {
		WriteError(w, r, http.StatusBadRequest, "invalid_username", "invalid username")
		return
	}
	if err := store.DeletePicks(r.Context(), h.DB, username); err != nil {
		writeDomainError(w, r, err)
		return
	}
	reqID := RequestIDFrom(r.Context())
	h.Hub.Emit(reqID, events.PicksSaved, map[string]any{"username": username, "count": 0})
	writeJSON(w, map[string]any{"ok": true, "username": username})
}

func (h PoolHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	cfg := currentConfig(h.CfgVal)
	s, err := snapshot.Load(r.Context(), h.DB, cfg.Ceremony.Year, cfg.Ceremony.DatasetPath)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, s.Leaderboard())
}

type similarityCell struct {
	UserA    string `json:"userA"`
	UserB    string `json:"userB"`
	Compared int    `json:"compared"`
	Matched  int    `json:"matched"`
	Percent  *int   `json:"percent"`
	Bucket   *int   `json:"bucket"`
}

type similarityResp struct {
	Users []string         `json:"users"`
	Cells []similarityCell `json:"cells"`
}

func (h PoolHandler) Similarity(w http.ResponseWriter, r *http.Request) {
	cfg := currentConfig(h.CfgVal)
	s, err := snapshot.Load(r.Context(), h.DB, cfg.Ceremony.Year, cfg.Ceremony.DatasetPath)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	grid := s.Similarity()
	resp := similarityResp{Users: grid.Users, Cells: make([]similarityCell, 0, len(grid.Cells))}
	if resp.Users == nil {
		resp.Users = []string{}
	}
	for _, c := range grid.Cells {
		out := similarityCell{UserA: c.UserA, UserB: c.UserB, Compared: c.Compared, Matched: c.Matched, Percent: c.Percent}
		if c.Percent != nil {
			b := rank.Bucket(*c.Percent)
			out.Bucket = &b
		}
		resp.Cells = append(resp.Cells, out)
	}
	writeJSON(w, resp)
}
