package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

var yearRe = regexp.MustCompile(`^\d{4}$`)

// NormalizeAndValidate returns a normalized copy along with its findings.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.Ceremony.Year = strings.TrimSpace(out.Ceremony.Year)
	out.Ceremony.URL = strings.TrimSpace(out.Ceremony.URL)
	out.Ceremony.DatasetPath = strings.TrimSpace(out.Ceremony.DatasetPath)
	out.Fetch.ProxyBase = strings.TrimSpace(out.Fetch.ProxyBase)
	if out.Fetch.ProxyBase != "" && !strings.HasSuffix(out.Fetch.ProxyBase, "/") {
		out.Fetch.ProxyBase += "/"
	}

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if !yearRe.MatchString(out.Ceremony.Year) {
		res.addErr("ceremony.year must be a 4-digit year")
	}
	if out.Ceremony.URL == "" {
		res.addErr("ceremony.url is required")
	} else if u, err := url.Parse(out.Ceremony.URL); err != nil || u.Host == "" {
		res.addErr("ceremony.url is not an absolute URL: %q", out.Ceremony.URL)
	} else if !strings.Contains(out.Ceremony.URL, out.Ceremony.Year) {
		res.addWarn("ceremony.url does not mention ceremony.year %s", out.Ceremony.Year)
	}
	if out.Ceremony.DatasetPath == "" {
		res.addWarn("ceremony.dataset_path is empty; the dataset must be fetched before picks can be saved.")
	}

	// fetch sanity
	if out.Fetch.ProxyBase != "" {
		if u, err := url.Parse(out.Fetch.ProxyBase); err != nil || u.Host == "" {
			res.addErr("fetch.proxy_base is not an absolute URL: %q", out.Fetch.ProxyBase)
		}
	}
	if out.Fetch.TimeoutSeconds < 0 {
		res.addErr("fetch.timeout_seconds must be >= 0")
	}
	if out.Fetch.RequestsPerSecond < 0 {
		res.addErr("fetch.requests_per_second must be >= 0")
	} else if out.Fetch.RequestsPerSecond > 5 {
		res.addWarn("fetch.requests_per_second is high (%.1f) and may get the source to block us.", out.Fetch.RequestsPerSecond)
	}
	if out.Fetch.Burst < 0 {
		res.addErr("fetch.burst must be >= 0")
	}

	// polling sanity
	if out.Polling.IntervalMinutes <= 0 {
		res.addErr("polling.interval_minutes must be > 0")
	} else if out.Polling.IntervalMinutes < 5 {
		res.addWarn("polling.interval_minutes is very low (%d) and may cause rate limits.", out.Polling.IntervalMinutes)
	}
	start, end, err := out.PollWindow()
	if err != nil {
		res.addErr("polling window must be RFC3339: %v", err)
	} else if !start.IsZero() && !end.IsZero() && !end.After(start) {
		res.addErr("polling.window_end must be after polling.window_start")
	} else if !end.IsZero() && out.Polling.Enabled && end.Before(time.Now()) {
		res.addWarn("polling window already ended at %s", end.Format(time.RFC3339))
	}

	// scoring
	if out.Scoring.DefaultPoints < 1 {
		res.addErr("scoring.default_points must be >= 1")
	}
	if out.Scoring.BestPicturePoints < 1 {
		res.addErr("scoring.best_picture_points must be >= 1")
	}

	return out, res
}
