package httpapi

import (
	"database/sql"
	"sync/atomic"
	"time"

	"awardpool-engine/internal/config"
	"awardpool-engine/internal/events"
	"awardpool-engine/internal/refresh"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Results refresh entrypoint (inject a Refresher with a fake fetcher for tests)
	Refresher *refresh.Refresher

	Now func() time.Time
}
