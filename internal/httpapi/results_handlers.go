package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"awardpool-engine/internal/domain"
	"awardpool-engine/internal/events"
	"awardpool-engine/internal/refresh"
	"awardpool-engine/internal/snapshot"
	"awardpool-engine/internal/store"
)

type ResultsHandler struct {
	DB        *sql.DB
	Hub       *events.Hub
	CfgVal    *atomic.Value // config.Config
	Refresher *refresh.Refresher
}

func (h ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	year := currentConfig(h.CfgVal).Ceremony.Year
	res, ok, err := store.GetResults(r.Context(), h.DB, year)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !ok {
		WriteError(w, r, http.StatusNotFound, "no_results", "no results stored for "+year)
		return
	}
	writeJSON(w, res)
}

func (h ResultsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	year := currentConfig(h.CfgVal).Ceremony.Year
	if err := store.ClearResults(r.Context(), h.DB, year); err != nil {
		writeDomainError(w, r, err)
		return
	}
	reqID := RequestIDFrom(r.Context())
	h.Hub.Emit(reqID, events.ResultsCleared, map[string]any{"ceremonyYear": year})
	writeJSON(w, map[string]any{"ok": true})
}

func (h ResultsHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Refresher.Status())
}

// Refresh runs one cycle inline. "Not concluded yet" is a normal answer, not
// an error.
func (h ResultsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cfg := currentConfig(h.CfgVal)
	ds, err := snapshot.Dataset(r.Context(), h.DB, cfg.Ceremony.Year, cfg.Ceremony.DatasetPath)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	out, err := h.Refresher.Once(ctx, RequestIDFrom(r.Context()), ds, cfg.Ceremony.URL)
	resp := map[string]any{
		"ok":        true,
		"matched":   len(out.Result.WinnersByCategoryID),
		"unmatched": out.Unmatched,
	}
	switch {
	case err == nil:
		resp["outcome"] = refresh.OutcomeUpdated
		resp["result"] = out.Result
	case errors.Is(err, domain.ErrResultsPending):
		resp["outcome"] = refresh.OutcomePending
	case errors.Is(err, domain.ErrStaleResult):
		resp["outcome"] = refresh.OutcomeStale
	default:
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, resp)
}
