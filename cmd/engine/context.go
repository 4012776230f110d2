package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"awardpool-engine/internal/config"
	"awardpool-engine/internal/fetch"
	"awardpool-engine/internal/secrets"
	"awardpool-engine/internal/store"
)

type commandContext struct {
	dataDir *string

	configOnce sync.Once
	config     config.Config
	configPath string
	configErr  error
}

func newCommandContext(dataDir *string) *commandContext {
	return &commandContext{dataDir: dataDir}
}

func (c *commandContext) dir() string {
	if c.dataDir == nil || strings.TrimSpace(*c.dataDir) == "" {
		return "."
	}
	return *c.dataDir
}

// ensureConfig bootstraps <data-dir>/config.yml and loads it once.
func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		defaultCfgPath := filepath.Join("config", "config.yml")
		path, err := config.EnsureUserConfig(c.dir(), defaultCfgPath)
		if err != nil {
			c.configErr = fmt.Errorf("config bootstrap failed: %w", err)
			return
		}
		c.configPath = path
		c.config, c.configErr = c.loadConfig()
	})
	return c.config, c.configErr
}

func (c *commandContext) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("config load failed (%s): %w", c.configPath, err)
	}
	cfg, vr := config.NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !vr.OK() {
		return config.Config{}, fmt.Errorf("config %s invalid:\n- %s", c.configPath, strings.Join(vr.Errors, "\n- "))
	}
	return cfg, nil
}

// datasetPath resolves ceremony.dataset_path against the data dir.
func (c *commandContext) datasetPath(cfg config.Config) string {
	p := cfg.Ceremony.DatasetPath
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir(), p)
}

func (c *commandContext) openStore() (*store.DB, error) {
	if err := os.MkdirAll(c.dir(), 0o755); err != nil {
		return nil, err
	}
	return store.Open(filepath.Join(c.dir(), "awardpool.db"))
}

// fetchClient builds the page fetcher. proxyOnly is set for results pages
// when fetch.results_via_proxy is on.
func fetchClient(cfg config.Config, proxyOnly bool) *fetch.Client {
	token, err := secrets.GetProxyToken()
	if err != nil && !errors.Is(err, secrets.ErrNoToken) {
		log.Printf("[secrets] proxy token unavailable: %v", err)
	}
	return fetch.New(fetch.Options{
		ProxyBase:         cfg.Fetch.ProxyBase,
		UserAgent:         cfg.Fetch.UserAgent,
		Timeout:           cfg.FetchTimeout(),
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		Burst:             cfg.Fetch.Burst,
		ProxyOnly:         proxyOnly,
		ProxyToken:        token,
	})
}
