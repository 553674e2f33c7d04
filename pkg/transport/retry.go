package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/clouddns/internal/constants"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// RetryConfig configures NewRetrying. Zero values use the defaults.
type RetryConfig struct {
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// CheckRetry decides whether a response or error is retried. Defaults to
	// IdempotentRetryPolicy.
	CheckRetry retryablehttp.CheckRetry
	Logger     clouddns.Logger
}

// NewRetrying wraps base so failed round trips are retried with exponential
// backoff. Request bodies are buffered so they can be replayed.
//
// When retries run out the last response is returned as-is, so the API's
// error body still reaches the error classifier.
func NewRetrying(base *http.Client, cfg RetryConfig) *http.Client {
	if base == nil {
		base = NewHTTP(DefaultHTTPConfig())
	}

	client := retryablehttp.NewClient()
	client.HTTPClient = base
	client.RetryMax = constants.DefaultRetryMax
	client.RetryWaitMin = constants.DefaultRetryWaitMin
	client.RetryWaitMax = constants.DefaultRetryWaitMax
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.CheckRetry = IdempotentRetryPolicy
	client.Logger = nil

	if cfg.RetryMax > 0 {
		client.RetryMax = cfg.RetryMax
	}

	if cfg.RetryWaitMin > 0 {
		client.RetryWaitMin = cfg.RetryWaitMin
	}

	if cfg.RetryWaitMax > 0 {
		client.RetryWaitMax = cfg.RetryWaitMax
	}

	if cfg.CheckRetry != nil {
		client.CheckRetry = cfg.CheckRetry
	}

	if cfg.Logger != nil {
		client.Logger = &leveledLogger{logger: cfg.Logger}
	}

	return &http.Client{Transport: &methodRoundTripper{next: &retryablehttp.RoundTripper{Client: client}}}
}

type methodKey struct{}

// methodRoundTripper records the request method in the context, where the
// retry policy can see it when no response came back.
type methodRoundTripper struct {
	next http.RoundTripper
}

func (m *methodRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := context.WithValue(req.Context(), methodKey{}, req.Method)

	return m.next.RoundTrip(req.WithContext(ctx))
}

// IdempotentRetryPolicy applies retryablehttp.DefaultRetryPolicy to
// idempotent methods. POST and PATCH are retried only when the connection
// failed before the request was written, so a change is never submitted twice.
func IdempotentRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	method, _ := ctx.Value(methodKey{}).(string)
	if resp != nil && resp.Request != nil {
		method = resp.Request.Method
	}

	if isIdempotent(method) {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	return err != nil && notSent(err), nil
}

func isIdempotent(method string) bool {
	switch method {
	case "", http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

// notSent reports whether err happened while dialing, before any byte of the
// request reached the server.
func notSent(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// leveledLogger adapts clouddns.Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger clouddns.Logger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fields(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fields(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, fields(keysAndValues))
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fields(keysAndValues))
}

func fields(keysAndValues []interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return out
}
