// Package auth resolves bearer tokens by driving a credentials.Provider,
// executing any token exchange it asks for over the client's own request
// queue.
package auth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
	"github.com/fivetwenty-io/clouddns/pkg/credentials"
)

// Submitter executes a single HTTP request. The multiplexer handle
// satisfies it.
type Submitter interface {
	Submit(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Resolver obtains a token for one scope set. It holds no token state of its
// own: every call asks the provider, which decides whether a cached token is
// still good.
type Resolver struct {
	provider  credentials.Provider
	submitter Submitter
	scopes    []string
	logger    clouddns.Logger
}

// NewResolver creates a resolver.
func NewResolver(provider credentials.Provider, submitter Submitter, scopes []string, logger clouddns.Logger) *Resolver {
	if logger == nil {
		logger = clouddns.NopLogger{}
	}

	return &Resolver{
		provider:  provider,
		submitter: submitter,
		scopes:    append([]string(nil), scopes...),
		logger:    logger,
	}
}

// Resolve returns a token, performing at most one exchange round trip.
//
// Provider failures come back as *clouddns.AuthError. An outcome carrying
// both or neither of a token and a request is a provider bug and comes back
// as *clouddns.OtherError without any network activity, as does an empty
// token returned without an error. Errors from the
// request queue are returned as classified by it.
func (r *Resolver) Resolve(ctx context.Context) (*credentials.Token, error) {
	outcome, err := r.provider.Token(r.scopes)
	if err != nil {
		return nil, &clouddns.AuthError{Cause: err}
	}

	switch {
	case outcome.IsReady():
		return checkToken(outcome.Token)
	case outcome.IsExchange():
		token, err := r.exchange(ctx, outcome.Request, outcome.Handle)
		if err != nil {
			return nil, err
		}

		return checkToken(token)
	default:
		return nil, &clouddns.OtherError{Cause: clouddns.ErrInvalidTokenOutcome}
	}
}

// checkToken rejects a nil or empty token handed back without an error.
func checkToken(token *credentials.Token) (*credentials.Token, error) {
	if token == nil || token.AccessToken == "" {
		return nil, &clouddns.OtherError{Cause: clouddns.ErrInvalidTokenOutcome}
	}

	return token, nil
}

func (r *Resolver) exchange(ctx context.Context, tokenReq *credentials.TokenRequest, handle credentials.Handle) (*credentials.Token, error) {
	req, err := newExchangeRequest(ctx, tokenReq)
	if err != nil {
		return nil, &clouddns.AuthError{Cause: err}
	}

	r.logger.Debug("Token exchange", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.Redacted(),
	})

	resp, err := r.submitter.Submit(ctx, req)
	if err != nil {
		return nil, err
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &clouddns.TransportError{StatusCode: resp.StatusCode, Cause: fmt.Errorf("reading token response: %w", err)}
	}

	token, err := r.provider.ParseTokenResponse(handle, &credentials.TokenResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	})
	if err != nil {
		r.logger.Warn("Token exchange rejected", map[string]interface{}{
			"status_code": resp.StatusCode,
			"error":       err.Error(),
		})

		return nil, &clouddns.AuthError{Cause: err}
	}

	return token, nil
}

// newExchangeRequest converts a provider request into an *http.Request.
// Headers are copied as given; no Authorization header is added.
func newExchangeRequest(ctx context.Context, tokenReq *credentials.TokenRequest) (*http.Request, error) {
	method := tokenReq.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if tokenReq.Body != nil {
		body = bytes.NewReader(tokenReq.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, tokenReq.URL, body)
	if err != nil {
		return nil, fmt.Errorf("building token request: %w", err)
	}

	for key, values := range tokenReq.Header {
		req.Header[key] = append([]string(nil), values...)
	}

	return req, nil
}
