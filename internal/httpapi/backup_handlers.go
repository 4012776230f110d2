package httpapi

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"awardpool-engine/internal/events"
	"awardpool-engine/internal/store"
)

type BackupHandler struct {
	DB  *sql.DB
	Hub *events.Hub
}

func (h BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	b, err := store.Export(r.Context(), h.DB)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	name := fmt.Sprintf("awardpool-%s.json", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	writeJSON(w, b)
}

func (h BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	var b store.Bundle
	if err := decodeStrict(r.Body, &b); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}
	if err := store.Import(r.Context(), h.DB, b); err != nil {
		WriteError(w, r, http.StatusBadRequest, "import_failed", err.Error())
		return
	}

	reqID := RequestIDFrom(r.Context())
	if len(b.Datasets) > 0 {
		h.Hub.Emit(reqID, events.DatasetSaved, map[string]any{"count": len(b.Datasets)})
	}
	if len(b.Picks) > 0 {
		h.Hub.Emit(reqID, events.PicksSaved, map[string]any{"count": len(b.Picks)})
	}
	if len(b.Results) > 0 {
		h.Hub.Emit(reqID, events.ResultsUpdated, map[string]any{"count": len(b.Results)})
	}
	writeJSON(w, map[string]any{
		"ok":       true,
		"datasets": len(b.Datasets),
		"picks":    len(b.Picks),
		"results":  len(b.Results),
	})
}
