package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/transfermatch/internal/model"
)

func TestNormalizeUserAgent(t *testing.T) {
	assert.Equal(t, "TransferMatch", NormalizeUserAgent("TransferMatch/0.1 (+https://github.com/ppiankov/transfermatch)"))
	assert.Equal(t, "curl", NormalizeUserAgent("curl"))
	assert.Equal(t, "", NormalizeUserAgent(""))
}

func TestRobotsChecker(t *testing.T) {
	var robotsHits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			atomic.AddInt32(&robotsHits, 1)
			fmt.Fprint(w, "User-agent: TransferMatch\nDisallow: /private\nCrawl-delay: 2\n")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "TransferMatch/0.1", nil)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/agreements/cs.json")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 2*time.Second, delay)

	allowed, _, err = checker.CanFetch(ctx, server.URL+"/private/cs.json")
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.Equal(t, int32(1), atomic.LoadInt32(&robotsHits), "robots.txt should be fetched once per host")
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "TransferMatch/0.1", nil)
	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/anything")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	checker := NewRobotsChecker(&http.Client{Timeout: time.Second}, "TransferMatch/0.1", nil)
	allowed, _, err := checker.CanFetch(context.Background(), addr+"/agreement.json")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc(model.HTTPConfig{
		HTTPProxy:  "http://proxy.internal:3128",
		HTTPSProxy: "http://secure-proxy.internal:3128",
		NoProxy:    "assist.example.edu",
	})

	req := func(raw string) *http.Request {
		u, err := url.Parse(raw)
		require.NoError(t, err)
		return &http.Request{URL: u}
	}

	got, err := proxy(req("http://catalog.example.com/a.json"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "proxy.internal:3128", got.Host)

	got, err = proxy(req("https://catalog.example.com/a.json"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "secure-proxy.internal:3128", got.Host)

	got, err = proxy(req("https://assist.example.edu/a.json"))
	require.NoError(t, err)
	assert.Nil(t, got, "NO_PROXY hosts go direct")
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(model.HTTPConfig{Timeout: 5 * time.Second})
	assert.Equal(t, 5*time.Second, client.Timeout)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.NotNil(t, transport.Proxy)
}
