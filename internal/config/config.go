// engine/internal/config/config.go
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port" json:"port"`
		DataDir string `yaml:"data_dir" json:"data_dir"`
	} `yaml:"app" json:"app"`

	Ceremony struct {
		Year        string `yaml:"year" json:"year"`
		URL         string `yaml:"url" json:"url"`
		DatasetPath string `yaml:"dataset_path" json:"dataset_path"`
	} `yaml:"ceremony" json:"ceremony"`

	Fetch struct {
		ProxyBase         string  `yaml:"proxy_base" json:"proxy_base"`
		UserAgent         string  `yaml:"user_agent" json:"user_agent"`
		TimeoutSeconds    int     `yaml:"timeout_seconds" json:"timeout_seconds"`
		RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
		Burst             int     `yaml:"burst" json:"burst"`
		ResultsViaProxy   bool    `yaml:"results_via_proxy" json:"results_via_proxy"`
	} `yaml:"fetch" json:"fetch"`

	Polling struct {
		Enabled         bool   `yaml:"enabled" json:"enabled"`
		IntervalMinutes int    `yaml:"interval_minutes" json:"interval_minutes"`
		WindowStart     string `yaml:"window_start" json:"window_start"`
		WindowEnd       string `yaml:"window_end" json:"window_end"`
	} `yaml:"polling" json:"polling"`

	Scoring struct {
		DefaultPoints     int `yaml:"default_points" json:"default_points"`
		BestPicturePoints int `yaml:"best_picture_points" json:"best_picture_points"`
	} `yaml:"scoring" json:"scoring"`
}

// Defaults mirrors config/config.yml and is used when that file is missing.
func Defaults() Config {
	var cfg Config
	cfg.App.Port = 38471
	cfg.App.DataDir = "."
	cfg.Ceremony.Year = "2026"
	cfg.Ceremony.URL = "https://www.oscars.org/oscars/ceremonies/2026"
	cfg.Ceremony.DatasetPath = "nominees.json"
	cfg.Fetch.ProxyBase = "https://r.jina.ai/"
	cfg.Fetch.TimeoutSeconds = 20
	cfg.Fetch.RequestsPerSecond = 1
	cfg.Fetch.Burst = 2
	cfg.Fetch.ResultsViaProxy = true
	cfg.Polling.Enabled = true
	cfg.Polling.IntervalMinutes = 60
	cfg.Polling.WindowStart = "2026-03-15T20:00:00Z"
	cfg.Polling.WindowEnd = "2026-03-16T08:00:00Z"
	cfg.Scoring.DefaultPoints = 1
	cfg.Scoring.BestPicturePoints = 2
	return cfg
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

func (c Config) PollInterval() time.Duration {
	if c.Polling.IntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.Polling.IntervalMinutes) * time.Minute
}

func (c Config) FetchTimeout() time.Duration {
	if c.Fetch.TimeoutSeconds <= 0 {
		return 20 * time.Second
	}
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// PollWindow parses the polling window; empty bounds come back as zero times.
func (c Config) PollWindow() (start, end time.Time, err error) {
	if s := c.Polling.WindowStart; s != "" {
		if start, err = time.Parse(time.RFC3339, s); err != nil {
			return
		}
	}
	if s := c.Polling.WindowEnd; s != "" {
		if end, err = time.Parse(time.RFC3339, s); err != nil {
			return
		}
	}
	return start, end, nil
}
