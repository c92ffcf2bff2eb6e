package util

import (
	"net/http"
	"net/url"

	"golang.org/x/net/http/httpproxy"

	"github.com/ppiankov/transfermatch/internal/model"
)

// NewProxyFunc builds the proxy selector for agreement fetches. Configured
// values take precedence over HTTP_PROXY, HTTPS_PROXY and NO_PROXY; with
// nothing configured the environment is used as is.
func NewProxyFunc(cfg model.HTTPConfig) func(*http.Request) (*url.URL, error) {
	if cfg.HTTPProxy == "" && cfg.HTTPSProxy == "" && cfg.NoProxy == "" {
		return http.ProxyFromEnvironment
	}

	env := httpproxy.FromEnvironment()
	proxy := (&httpproxy.Config{
		HTTPProxy:  firstNonEmpty(cfg.HTTPProxy, env.HTTPProxy),
		HTTPSProxy: firstNonEmpty(cfg.HTTPSProxy, env.HTTPSProxy),
		NoProxy:    firstNonEmpty(cfg.NoProxy, env.NoProxy),
	}).ProxyFunc()

	return func(req *http.Request) (*url.URL, error) {
		return proxy(req.URL)
	}
}

// NewHTTPClient creates the client used for agreements and robots.txt
func NewHTTPClient(cfg model.HTTPConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = NewProxyFunc(cfg)
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
