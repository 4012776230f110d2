package httpapi

import "net/http"

// NewMux returns the raw mux so main() can still attach /shutdown (needs srv+token).
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{CfgVal: d.CfgVal}.Health,
	}))

	// Pool: dataset, picks, standings
	ph := PoolHandler{DB: d.DB, Hub: d.Hub, CfgVal: d.CfgVal, Now: d.Now}
	mux.HandleFunc("/dataset", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Dataset,
	}))
	mux.HandleFunc("/picks", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.ListPicks,
	}))
	mux.HandleFunc("/picks/", methodMux(map[string]http.HandlerFunc{
		http.MethodPut:    ph.SavePicksByPath, // expects /picks/{username}
		http.MethodDelete: ph.DeletePicksByPath,
	}))
	mux.HandleFunc("/leaderboard", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Leaderboard,
	}))
	mux.HandleFunc("/similarity", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Similarity,
	}))

	// Results
	rh := ResultsHandler{DB: d.DB, Hub: d.Hub, CfgVal: d.CfgVal, Refresher: d.Refresher}
	mux.HandleFunc("/results", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:    rh.Get,
		http.MethodDelete: rh.Clear,
	}))
	mux.HandleFunc("/results/refresh", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Refresh,
	}))
	mux.HandleFunc("/results/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.Status,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// Secrets
	sh := SecretsHandler{}
	mux.HandleFunc("/api/secrets/proxy", methodMux(map[string]http.HandlerFunc{
		http.MethodPost:   sh.SetProxyToken,
		http.MethodDelete: sh.DeleteProxyToken,
	}))

	// Backup
	bh := BackupHandler{DB: d.DB, Hub: d.Hub}
	mux.HandleFunc("/export", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: bh.Export,
	}))
	mux.HandleFunc("/import", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: bh.Import,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	dbh := DBHandler{DB: d.DB}
	mux.HandleFunc("/db/checkpoint", dbh.Checkpoint)

	return mux
}

// NewHandler wraps the mux in the standard middleware chain.
func NewHandler(d Deps) http.Handler {
	return Chain(NewMux(d), RequestID, AccessLog, Recover, Cors)
}
