// Package transport provides clouddns.Doer implementations: a tuned
// *http.Client, an HTTP/2 client, and wrappers adding retries and rate
// limiting, plus a NATS request/reply transport for clients that reach the
// API through a gateway.
//
// Wrappers compose:
//
//	doer := transport.NewRateLimited(
//		transport.NewRetrying(transport.NewHTTP(transport.DefaultHTTPConfig()), transport.RetryConfig{}),
//		rate.Limit(10), 5)
package transport

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/fivetwenty-io/clouddns/internal/constants"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// HTTPConfig captures the http.Transport knobs that matter for API clients.
// Zero values keep the defaults.
type HTTPConfig struct {
	// Timeout bounds a whole round trip including reading the body.
	Timeout time.Duration
	// Proxy selects a proxy per request. Defaults to the environment
	// (HTTPS_PROXY, NO_PROXY).
	Proxy func(*http.Request) (*url.URL, error)

	DialTimeout           time.Duration
	DialKeepAlive         time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	IdleConnTimeout       time.Duration

	MaxIdleConns        int
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int

	// TLSClientConfig overrides the TLS settings, e.g. to add a private CA.
	TLSClientConfig *tls.Config
}

// DefaultHTTPConfig returns the settings used when no transport is given.
func DefaultHTTPConfig() HTTPConfig {
	return HTTPConfig{
		Timeout:             constants.DefaultHTTPTimeout,
		Proxy:               http.ProxyFromEnvironment,
		DialTimeout:         constants.DialTimeout,
		DialKeepAlive:       30 * time.Second,
		TLSHandshakeTimeout: constants.TLSHandshakeTimeout,
		IdleConnTimeout:     constants.IdleConnTimeout,
		MaxIdleConns:        constants.MaxIdleConns,
		MaxIdleConnsPerHost: constants.MaxIdleConnsPerHost,
	}
}

// NewHTTPTransport builds an *http.Transport from a clone of
// http.DefaultTransport with cfg applied.
func NewHTTPTransport(cfg HTTPConfig) *http.Transport {
	t := defaultTransport()

	if cfg.Proxy != nil {
		t.Proxy = cfg.Proxy
	}

	if cfg.DialTimeout > 0 || cfg.DialKeepAlive > 0 {
		dialer := &net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: cfg.DialKeepAlive,
		}
		t.DialContext = dialer.DialContext
	}

	if cfg.TLSHandshakeTimeout > 0 {
		t.TLSHandshakeTimeout = cfg.TLSHandshakeTimeout
	}

	if cfg.ResponseHeaderTimeout > 0 {
		t.ResponseHeaderTimeout = cfg.ResponseHeaderTimeout
	}

	if cfg.IdleConnTimeout > 0 {
		t.IdleConnTimeout = cfg.IdleConnTimeout
	}

	if cfg.MaxIdleConns > 0 {
		t.MaxIdleConns = cfg.MaxIdleConns
	}

	if cfg.MaxIdleConnsPerHost > 0 {
		t.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}

	if cfg.MaxConnsPerHost > 0 {
		t.MaxConnsPerHost = cfg.MaxConnsPerHost
	}

	if cfg.TLSClientConfig != nil {
		t.TLSClientConfig = cfg.TLSClientConfig.Clone()
	}

	return t
}

// NewHTTP returns an *http.Client built from cfg. It satisfies
// clouddns.Doer.
func NewHTTP(cfg HTTPConfig) *http.Client {
	return &http.Client{
		Transport: NewHTTPTransport(cfg),
		Timeout:   cfg.Timeout,
	}
}

func defaultTransport() *http.Transport {
	base, _ := http.DefaultTransport.(*http.Transport)
	if base == nil {
		return &http.Transport{Proxy: http.ProxyFromEnvironment}
	}

	return base.Clone()
}

// RoundTripperFunc adapts a function to an http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements http.RoundTripper.
func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// FromRoundTripper wraps rt in an *http.Client so it can serve as a Doer.
func FromRoundTripper(rt http.RoundTripper) clouddns.Doer {
	return &http.Client{Transport: rt}
}
