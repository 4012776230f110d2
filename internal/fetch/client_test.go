package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awardpool-engine/internal/domain"
)

func testClient(proxyBase string) *Client {
	return New(Options{ProxyBase: proxyBase, RequestsPerSecond: 100, Burst: 10})
}

func TestProxyURL(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"https://r.jina.ai/http://www.oscars.org/oscars/ceremonies/2026",
		ProxyURL("https://r.jina.ai/", "https://www.oscars.org/oscars/ceremonies/2026"))
	assert.Equal(t,
		"http://proxy/http://example.com/x",
		ProxyURL("http://proxy", "http://example.com/x"))
}

func TestFetch_When_DirectOK_Then_Markup(t *testing.T) {
	t.Parallel()
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/html", r.Header.Get("Accept"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer origin.Close()

	page, err := testClient("http://unused.invalid/").Fetch(context.Background(), origin.URL+"/ceremony")
	require.NoError(t, err)
	assert.Equal(t, domain.KindMarkup, page.Kind)
	assert.False(t, page.ViaProxy)
	assert.Contains(t, string(page.Body), "ok")
}

func TestFetch_When_DirectForbidden_Then_ProxyText(t *testing.T) {
	t.Parallel()
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer origin.Close()

	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/http://"), r.URL.Path)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/ceremony"), r.URL.Path)
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))
		_, _ = w.Write([]byte("Sound\nNominees\nMix Team\n"))
	}))
	defer proxy.Close()

	page, err := testClient(proxy.URL+"/").Fetch(context.Background(), origin.URL+"/ceremony")
	require.NoError(t, err)
	assert.Equal(t, domain.KindText, page.Kind)
	assert.True(t, page.ViaProxy)
	assert.Equal(t, "Sound\nNominees\nMix Team\n", string(page.Body))
}

func TestFetch_When_ProxyRejectsHeaders_Then_RetriesBare(t *testing.T) {
	t.Parallel()
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer origin.Close()

	var calls atomic.Int32
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		assert.Empty(t, r.Header.Get("Accept"))
		_, _ = w.Write([]byte("text"))
	}))
	defer proxy.Close()

	page, err := testClient(proxy.URL+"/").Fetch(context.Background(), origin.URL+"/ceremony")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, domain.KindText, page.Kind)
}

func TestFetch_When_NonSuccess_Then_SourceUnavailable(t *testing.T) {
	t.Parallel()
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer origin.Close()

	_, err := testClient("http://unused.invalid/").Fetch(context.Background(), origin.URL)
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
}

func TestFetch_When_ProxyOnly_Then_SkipsOriginAndSendsToken(t *testing.T) {
	t.Parallel()
	var originHits atomic.Int32
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		originHits.Add(1)
	}))
	defer origin.Close()

	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte("Winner\nSound\nMix Team\n"))
	}))
	defer proxy.Close()

	c := New(Options{ProxyBase: proxy.URL + "/", ProxyOnly: true, ProxyToken: "secret", RequestsPerSecond: 100, Burst: 10})
	page, err := c.Fetch(context.Background(), origin.URL+"/ceremony")
	require.NoError(t, err)
	assert.Equal(t, domain.KindText, page.Kind)
	assert.Zero(t, originHits.Load())
}

func TestHostLimiter_When_SameHost_Then_SharedLimiter(t *testing.T) {
	t.Parallel()
	hl := NewHostLimiter(0, 0)
	require.NoError(t, hl.WaitURL(context.Background(), "https://a.example/x"))
	require.NoError(t, hl.WaitURL(context.Background(), "::bad"))
	assert.Same(t, hl.limiterFor("a.example"), hl.limiterFor("a.example"))
	assert.NotSame(t, hl.limiterFor("a.example"), hl.limiterFor("b.example"))
}
