// Package http is the request pipeline shared by every resource client:
// route resolution, bearer token lookup, JSON encoding, a single submission
// through the request queue, and classification or decoding of the reply.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/fivetwenty-io/clouddns/internal/constants"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
	"github.com/fivetwenty-io/clouddns/pkg/credentials"
)

// Submitter executes a single HTTP request.
type Submitter interface {
	Submit(ctx context.Context, req *http.Request) (*http.Response, error)
}

// TokenResolver returns the bearer token for the next API call.
type TokenResolver interface {
	Resolve(ctx context.Context) (*credentials.Token, error)
}

// Client runs API calls against a base URL.
type Client struct {
	baseURL      *url.URL
	submitter    Submitter
	resolver     TokenResolver
	logger       clouddns.Logger
	debug        bool
	userAgent    string
	interceptors *clouddns.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger clouddns.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebug enables per-request debug logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithInterceptors sets the interceptor chain run around every call.
func WithInterceptors(chain *clouddns.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a pipeline rooted at baseURL. Routes are resolved
// relative to it, so it should end with a slash.
func NewClient(baseURL *url.URL, submitter Submitter, resolver TokenResolver, opts ...Option) *Client {
	base := *baseURL

	client := &Client{
		baseURL:   &base,
		submitter: submitter,
		resolver:  resolver,
		logger:    clouddns.NopLogger{},
		userAgent: constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns a copy of the base URL.
func (c *Client) BaseURL() *url.URL {
	base := *c.baseURL

	return &base
}

// ResolveRoute joins route onto the base URL. It never touches the network
// and returns the same URL every time for the same route.
func (c *Client) ResolveRoute(route string) (*url.URL, error) {
	ref, err := url.Parse(route)
	if err != nil {
		return nil, &clouddns.URLError{Route: route, Cause: err}
	}

	return c.baseURL.ResolveReference(ref), nil
}

// Get performs a GET request and decodes the reply into out.
func (c *Client) Get(ctx context.Context, route string, out any) error {
	return c.Do(ctx, http.MethodGet, route, nil, out)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, route string, body, out any) error {
	return c.Do(ctx, http.MethodPost, route, body, out)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, route string, body, out any) error {
	return c.Do(ctx, http.MethodPut, route, body, out)
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, route string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, route, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, route string, out any) error {
	return c.Do(ctx, http.MethodDelete, route, nil, out)
}

// Fetch performs a GET request and returns the decoded value.
func Fetch[T any](ctx context.Context, c *Client, route string) (*T, error) {
	var out T

	err := c.Get(ctx, route, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// Do performs one API call. body, when non-nil, is sent as JSON. out, when
// non-nil, must be a pointer and receives the decoded 2xx reply. Every
// failure is one of the classified error types in package clouddns.
func (c *Client) Do(ctx context.Context, method, route string, body, out any) error {
	target, err := c.ResolveRoute(route)
	if err != nil {
		return err
	}

	token, err := c.resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	if token == nil {
		return &clouddns.OtherError{Cause: clouddns.ErrInvalidTokenOutcome}
	}

	var payload []byte

	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return &clouddns.EncodeError{Cause: err}
		}
	}

	apiReq := &clouddns.Request{
		Method:  method,
		Route:   route,
		URL:     target.String(),
		Headers: c.headers(token, payload != nil),
		Body:    payload,
	}

	err = c.interceptors.ExecuteRequestInterceptors(ctx, apiReq)
	if err != nil {
		return &clouddns.OtherError{Cause: err}
	}

	req, err := newRequest(ctx, apiReq, target)
	if err != nil {
		return &clouddns.OtherError{Cause: err}
	}

	requestID := uuid.NewString()
	start := time.Now()

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"request_id": requestID,
			"method":     method,
			"url":        target.Redacted(),
		})
	}

	resp, err := c.submitter.Submit(ctx, req)
	if err != nil {
		_ = c.interceptors.ExecuteResponseInterceptors(ctx, apiReq, &clouddns.Response{Error: err})

		return err
	}

	respBody, err := readBody(resp)
	if err != nil {
		return err
	}

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"request_id":  requestID,
			"status_code": resp.StatusCode,
			"duration":    time.Since(start).String(),
			"bytes":       len(respBody),
		})
	}

	apiResp := &clouddns.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	err = c.interceptors.ExecuteResponseInterceptors(ctx, apiReq, apiResp)
	if err != nil {
		return &clouddns.OtherError{Cause: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return classify(resp.StatusCode, respBody)
	}

	return decode(respBody, out)
}

func (c *Client) headers(token *credentials.Token, hasBody bool) http.Header {
	headers := make(http.Header)
	headers.Set("Authorization", "Bearer "+token.AccessToken)
	headers.Set("Accept", "application/json")
	headers.Set("User-Agent", c.userAgent)

	if hasBody {
		headers.Set("Content-Type", "application/json")
	}

	return headers
}

func newRequest(ctx context.Context, apiReq *clouddns.Request, target *url.URL) (*http.Request, error) {
	var body io.Reader
	if apiReq.Body != nil {
		body = bytes.NewReader(apiReq.Body)
	}

	req, err := http.NewRequestWithContext(ctx, apiReq.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header = apiReq.Headers

	return req, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &clouddns.TransportError{
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("reading response body: %w", err),
		}
	}

	return body, nil
}
