package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"awardpool-engine/internal/config"
	"awardpool-engine/internal/events"
	"awardpool-engine/internal/httpapi"
	"awardpool-engine/internal/refresh"
	"awardpool-engine/internal/snapshot"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the results poller",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// One engine per data dir.
			lock := flock.New(filepath.Join(ctx.dir(), "engine.lock"))
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return errors.New("another engine instance is already running for this data dir")
			}
			defer func() { _ = lock.Unlock() }()

			db, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Load config and keep it reloadable
			var cfgVal atomic.Value // stores config.Config
			cfg.Ceremony.DatasetPath = ctx.datasetPath(cfg)
			cfgVal.Store(cfg)
			loadCfg := func() (config.Config, error) {
				next, err := ctx.loadConfig()
				if err != nil {
					return config.Config{}, err
				}
				next.Ceremony.DatasetPath = ctx.datasetPath(next)
				return next, nil
			}

			if _, err := snapshot.Dataset(runCtx, db.Pool, cfg.Ceremony.Year, cfg.Ceremony.DatasetPath); err != nil {
				log.Printf("[serve] warning: %v", err)
			}

			hub := events.NewHub()
			refresher := &refresh.Refresher{
				DB:      db.Pool,
				Fetcher: fetchClient(cfg, cfg.Fetch.ResultsViaProxy),
				Hub:     hub,
			}
			refresh.StartPoller(runCtx, db.Pool, &cfgVal, refresher)

			mux := httpapi.NewMux(httpapi.Deps{
				DB:          db.Pool,
				Hub:         hub,
				CfgVal:      &cfgVal,
				UserCfgPath: ctx.configPath,
				LoadCfg:     loadCfg,
				Refresher:   refresher,
			})

			if addr == "" {
				addr = fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Handler:           httpapi.Chain(mux, httpapi.RequestID, httpapi.AccessLog, httpapi.Recover, httpapi.Cors),
				ReadHeaderTimeout: 5 * time.Second,
			}

			token, err := randomToken(16)
			if err != nil {
				return err
			}
			mux.HandleFunc("/shutdown", shutdownHandler(&token, srv))
			if err := os.WriteFile(filepath.Join(ctx.dir(), "shutdown.token"), []byte(token), 0o600); err != nil {
				log.Printf("[serve] could not write shutdown token: %v", err)
			}

			go func() {
				<-runCtx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(sctx)
			}()

			log.Printf("engine listening on http://%s (data_dir=%s year=%s)", ln.Addr(), ctx.dir(), cfg.Ceremony.Year)
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			log.Printf("engine stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default 127.0.0.1:<app.port>)")
	return cmd
}
