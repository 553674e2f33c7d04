package transport

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// HTTP2Config adds connection health checking to HTTPConfig.
type HTTP2Config struct {
	HTTPConfig

	// ReadIdleTimeout sends a PING when no frame has been received for this
	// long. Zero disables health checks.
	ReadIdleTimeout time.Duration
	// PingTimeout closes the connection when a PING is not answered in time.
	PingTimeout time.Duration
}

// DefaultHTTP2Config returns DefaultHTTPConfig with health checks enabled.
func DefaultHTTP2Config() HTTP2Config {
	return HTTP2Config{
		HTTPConfig:      DefaultHTTPConfig(),
		ReadIdleTimeout: 30 * time.Second,
		PingTimeout:     15 * time.Second,
	}
}

// NewHTTP2 returns a client that negotiates HTTP/2 over TLS and pings idle
// connections so a dead peer is detected before a request hangs on it.
// Plain-HTTP endpoints still use HTTP/1.1.
func NewHTTP2(cfg HTTP2Config) (*http.Client, error) {
	t1 := NewHTTPTransport(cfg.HTTPConfig)

	t2, err := http2.ConfigureTransports(t1)
	if err != nil {
		return nil, fmt.Errorf("configuring http2: %w", err)
	}

	t2.ReadIdleTimeout = cfg.ReadIdleTimeout
	t2.PingTimeout = cfg.PingTimeout

	return &http.Client{
		Transport: t1,
		Timeout:   cfg.Timeout,
	}, nil
}
