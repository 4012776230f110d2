// Package fetch downloads ceremony pages. A page fetched directly is markup;
// a page fetched through the text-rendering proxy is plain text, and the
// returned Page says which so the caller can pick an extractor.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"awardpool-engine/internal/domain"
)

const (
	DefaultProxyBase = "https://r.jina.ai/"
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultMaxBytes = 8 << 20
)

type Options struct {
	ProxyBase         string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int

	// ProxyOnly skips the direct request; results pages are read as text.
	ProxyOnly bool

	// ProxyToken is sent as a bearer token to the proxy when set.
	ProxyToken string

	MaxBytes int64
}

type Page struct {
	URL      string
	Body     []byte
	Kind     domain.SourceKind
	ViaProxy bool
	Status   int
}

type Client struct {
	hc  *http.Client
	lim *HostLimiter
	opt Options
}

func New(opt Options) *Client {
	if strings.TrimSpace(opt.ProxyBase) == "" {
		opt.ProxyBase = DefaultProxyBase
	}
	if strings.TrimSpace(opt.UserAgent) == "" {
		opt.UserAgent = DefaultUserAgent
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 20 * time.Second
	}
	if opt.MaxBytes <= 0 {
		opt.MaxBytes = defaultMaxBytes
	}
	return &Client{
		hc:  &http.Client{Timeout: opt.Timeout},
		lim: NewHostLimiter(opt.RequestsPerSecond, opt.Burst),
		opt: opt,
	}
}

var schemeRe = regexp.MustCompile(`^https?://`)

// ProxyURL builds the proxy address for target: <base>http://<host/path>.
func ProxyURL(base, target string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + "http://" + schemeRe.ReplaceAllString(strings.TrimSpace(target), "")
}

// Fetch gets url directly and falls back to the proxy when the origin
// answers 403. The proxy is tried with browser headers first, then bare.
func (c *Client) Fetch(ctx context.Context, url string) (Page, error) {
	if !c.opt.ProxyOnly {
		page, err := c.get(ctx, url, "text/html", true)
		if err != nil {
			return Page{}, err
		}
		if page.Status != http.StatusForbidden {
			return c.finish(page)
		}
		log.Printf("[fetch] direct forbidden, using proxy url=%s", url)
	}

	purl := ProxyURL(c.opt.ProxyBase, url)
	page, err := c.get(ctx, purl, "text/plain", true)
	if err != nil {
		return Page{}, err
	}
	if page.Status == http.StatusForbidden {
		log.Printf("[fetch] proxy forbidden with headers, retrying bare url=%s", purl)
		if page, err = c.get(ctx, purl, "", false); err != nil {
			return Page{}, err
		}
	}
	page.Kind = domain.KindText
	page.ViaProxy = true
	return c.finish(page)
}

func (c *Client) finish(p Page) (Page, error) {
	if p.Status < 200 || p.Status > 299 {
		return Page{}, fmt.Errorf("%w: %s status %d", domain.ErrSourceUnavailable, p.URL, p.Status)
	}
	if p.Kind == "" {
		p.Kind = domain.KindMarkup
	}
	return p, nil
}

func (c *Client) get(ctx context.Context, url, accept string, headers bool) (Page, error) {
	if err := c.lim.WaitURL(ctx, url); err != nil {
		return Page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	if headers {
		req.Header.Set("User-Agent", c.opt.UserAgent)
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
	}
	if c.opt.ProxyToken != "" && strings.HasPrefix(url, c.opt.ProxyBase) {
		req.Header.Set("Authorization", "Bearer "+c.opt.ProxyToken)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("%w: get %s: %v", domain.ErrSourceUnavailable, url, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, c.opt.MaxBytes))
	if err != nil {
		return Page{}, fmt.Errorf("%w: read %s: %v", domain.ErrSourceUnavailable, url, err)
	}
	return Page{URL: url, Body: body, Status: res.StatusCode}, nil
}
