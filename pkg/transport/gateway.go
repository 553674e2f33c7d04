package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sourcegraph/conc/pool"

	"github.com/fivetwenty-io/clouddns/internal/constants"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// GatewayConfig configures a Gateway. Zero values use the defaults.
type GatewayConfig struct {
	// AllowedHosts lists the hosts, with or without a port, requests may
	// target. Defaults to DefaultGatewayHosts.
	AllowedHosts []string
	// AllowHTTP permits plain-HTTP targets, for emulators and tests.
	AllowHTTP bool
	// MaxConcurrent bounds upstream calls running at once.
	MaxConcurrent int
	// Timeout bounds each upstream call.
	Timeout time.Duration
}

// DefaultGatewayHosts returns the Cloud DNS API host and the OAuth token host.
func DefaultGatewayHosts() []string {
	return []string{strings.TrimPrefix(constants.DefaultEndpoint, "https://"), constants.TokenHost}
}

// Gateway executes requests published by NATS transports with doer. Only
// allowlisted hosts are reached; anything else, the metadata server included,
// is refused with HeaderError.
//
// Requests run concurrently on a bounded pool. When the pool is full,
// Dispatch blocks, which holds back delivery on the subscription.
type Gateway struct {
	doer      clouddns.Doer
	allowed   map[string]struct{}
	allowHTTP bool
	timeout   time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	pool   *pool.Pool

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
	sub      *nats.Subscription
}

// NewGateway returns a gateway that is not yet subscribed; see Serve.
func NewGateway(doer clouddns.Doer, cfg GatewayConfig) *Gateway {
	hosts := cfg.AllowedHosts
	if len(hosts) == 0 {
		hosts = DefaultGatewayHosts()
	}

	allowed := make(map[string]struct{}, len(hosts))
	for _, host := range hosts {
		allowed[strings.ToLower(host)] = struct{}{}
	}

	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = constants.DefaultGatewayConcurrency
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultGatewayTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Gateway{
		doer:      doer,
		allowed:   allowed,
		allowHTTP: cfg.AllowHTTP,
		timeout:   timeout,
		ctx:       ctx,
		cancel:    cancel,
		pool:      pool.New().WithMaxGoroutines(maxConcurrent),
	}
}

// ServeNATS subscribes a new gateway on subject. Subscribers sharing queue
// split the load.
func ServeNATS(conn *nats.Conn, subject, queue string, doer clouddns.Doer, cfg GatewayConfig) (*Gateway, error) {
	gateway := NewGateway(doer, cfg)

	err := gateway.Serve(conn, subject, queue)
	if err != nil {
		gateway.Close()

		return nil, err
	}

	return gateway, nil
}

// Serve subscribes the gateway on subject within queue.
func (g *Gateway) Serve(conn *nats.Conn, subject, queue string) error {
	if subject == "" {
		subject = constants.DefaultNATSSubject
	}

	sub, err := conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		g.Dispatch(msg, msg.RespondMsg)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", subject, err)
	}

	g.mu.Lock()
	g.sub = sub
	g.mu.Unlock()

	return nil
}

// Subject returns the subscribed subject, or "" before Serve.
func (g *Gateway) Subject() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sub == nil {
		return ""
	}

	return g.sub.Subject
}

// Dispatch answers msg through respond on the gateway's pool. After Drain or
// Close it answers at once with ErrGatewayClosed.
func (g *Gateway) Dispatch(msg *nats.Msg, respond func(*nats.Msg) error) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()

		_ = respond(errorReply(msg, ErrGatewayClosed.Error()))

		return
	}

	g.inflight.Add(1)
	g.mu.Unlock()

	g.pool.Go(func() {
		defer g.inflight.Done()

		_ = respond(g.Handle(g.ctx, msg))
	})
}

// Handle executes one enveloped request and builds the reply. Failures are
// reported in the HeaderError header.
func (g *Gateway) Handle(ctx context.Context, msg *nats.Msg) *nats.Msg {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.execute(ctx, msg)
	if err != nil {
		return errorReply(msg, err.Error())
	}

	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorReply(msg, fmt.Sprintf("reading response body: %v", err))
	}

	reply := nats.NewMsg(msg.Reply)

	for key, values := range resp.Header {
		for _, value := range values {
			reply.Header.Add(key, value)
		}
	}

	reply.Header.Set(HeaderStatus, strconv.Itoa(resp.StatusCode))
	reply.Data = body

	return reply
}

// Drain stops taking requests and waits for those in flight to finish.
func (g *Gateway) Drain() error {
	err := g.stop()

	g.inflight.Wait()
	g.pool.Wait()
	g.cancel()

	return err
}

// Close stops taking requests and cancels those in flight.
func (g *Gateway) Close() {
	_ = g.stop()

	g.cancel()
	g.inflight.Wait()
	g.pool.Wait()
}

func (g *Gateway) stop() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil
	}

	g.closed = true

	if g.sub == nil {
		return nil
	}

	err := g.sub.Unsubscribe()
	if err != nil {
		return fmt.Errorf("unsubscribing from %s: %w", g.sub.Subject, err)
	}

	return nil
}

func (g *Gateway) execute(ctx context.Context, msg *nats.Msg) (*http.Response, error) {
	if msg.Header == nil {
		return nil, ErrMalformedRequest
	}

	method := msg.Header.Get(HeaderMethod)
	target := msg.Header.Get(HeaderURL)

	if method == "" || target == "" {
		return nil, ErrMalformedRequest
	}

	err := g.checkTarget(target)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if len(msg.Data) > 0 {
		body = bytes.NewReader(msg.Data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	for key, values := range msg.Header {
		if key == HeaderMethod || key == HeaderURL {
			continue
		}

		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := g.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	return resp, nil
}

func (g *Gateway) checkTarget(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}

	switch u.Scheme {
	case "https":
	case "http":
		if !g.allowHTTP {
			return fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Redacted())
		}
	default:
		return fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Redacted())
	}

	if u.User != nil {
		return fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Redacted())
	}

	if _, ok := g.allowed[strings.ToLower(u.Host)]; ok {
		return nil
	}

	if _, ok := g.allowed[strings.ToLower(u.Hostname())]; ok {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrHostNotAllowed, u.Host)
}

func errorReply(msg *nats.Msg, reason string) *nats.Msg {
	reply := nats.NewMsg(msg.Reply)
	reply.Header.Set(HeaderError, reason)

	return reply
}
