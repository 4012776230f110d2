package httpapi

import (
	"net/http"
	"sync/atomic"
	"time"
)

type HealthHandler struct {
	CfgVal *atomic.Value
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"ok":   true,
		"year": currentConfig(h.CfgVal).Ceremony.Year,
		"time": time.Now().Format(time.RFC3339),
	})
}
