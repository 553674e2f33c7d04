// Package mux multiplexes concurrent logical requests onto a single
// transport through a bounded FIFO queue.
//
// Callers submit a request and wait on a private result channel. One worker
// drains the queue in admission order and hands each request to a bounded
// goroutine pool; when the pool is saturated the worker stops draining, the
// queue fills, and further submissions block until space frees up.
package mux

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"

	"github.com/fivetwenty-io/clouddns/internal/constants"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// Static errors for err113 compliance.
var (
	ErrTransportPanic = errors.New("transport panicked")
	ErrNilResponse    = errors.New("transport returned neither response nor error")
)

// Option configures a multiplexer.
type Option func(*options)

type options struct {
	capacity    int
	maxInFlight int
	logger      clouddns.Logger
}

// WithCapacity sets how many requests may wait for dispatch.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithMaxInFlight sets how many requests may be inside the transport at once.
func WithMaxInFlight(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxInFlight = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger clouddns.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

type result struct {
	resp *http.Response
	err  error
}

type pending struct {
	ctx    context.Context
	req    *http.Request
	result chan result
}

func (p *pending) deliver(resp *http.Response, err error) {
	p.result <- result{resp: resp, err: err}
}

// core is shared by every Handle cloned from the same New call.
type core struct {
	doer   clouddns.Doer
	queue  chan *pending
	pool   *pool.Pool
	logger clouddns.Logger

	// gate serialises admission against shutdown so nothing is enqueued
	// after the worker has drained the queue.
	gate   sync.RWMutex
	closed bool

	mu       sync.Mutex
	refs     int
	poisoned error

	stopping   chan struct{}
	workerDone chan struct{}
}

// Handle is a reference to a running multiplexer.
type Handle struct {
	core   *core
	closed atomic.Bool
}

// New starts a multiplexer in front of doer and returns the first handle.
func New(doer clouddns.Doer, opts ...Option) *Handle {
	o := options{
		capacity:    constants.DefaultQueueCapacity,
		maxInFlight: constants.DefaultMaxInFlight,
		logger:      clouddns.NopLogger{},
	}

	for _, opt := range opts {
		opt(&o)
	}

	c := &core{
		doer:       doer,
		queue:      make(chan *pending, o.capacity),
		pool:       pool.New().WithMaxGoroutines(o.maxInFlight),
		logger:     o.logger,
		refs:       1,
		stopping:   make(chan struct{}),
		workerDone: make(chan struct{}),
	}

	go c.run()

	return &Handle{core: c}
}

// Submit queues req and waits for the transport's answer.
//
// The response is returned exactly as the transport produced it, except that
// a nil body is replaced by http.NoBody. Abandoning ctx returns a
// *clouddns.ServiceError immediately; a request already handed to the
// transport keeps running and its response is discarded.
func (h *Handle) Submit(ctx context.Context, req *http.Request) (*http.Response, error) {
	if h.closed.Load() {
		return nil, &clouddns.ServiceError{Cause: clouddns.ErrClosed}
	}

	c := h.core

	if err := c.poison(); err != nil {
		return nil, &clouddns.ServiceError{Cause: err}
	}

	p := &pending{
		ctx:    ctx,
		req:    req,
		result: make(chan result, 1),
	}

	err := c.admit(ctx, p)
	if err != nil {
		return nil, err
	}

	select {
	case r := <-p.result:
		return r.resp, r.err
	case <-ctx.Done():
		go discard(p)

		return nil, &clouddns.ServiceError{Cause: ctx.Err()}
	}
}

// Clone returns another handle on the same queue and transport.
func (h *Handle) Clone() *Handle {
	c := h.core

	c.mu.Lock()
	defer c.mu.Unlock()

	clone := &Handle{core: c}

	if c.refs == 0 || h.closed.Load() {
		clone.closed.Store(true)

		return clone
	}

	c.refs++

	return clone
}

// Close releases the handle. Closing the last handle stops the worker,
// fails every queued request and waits for in-flight requests to finish.
// Close is idempotent.
func (h *Handle) Close() error {
	if !h.closed.CompareAndSwap(false, true) {
		return nil
	}

	c := h.core

	c.mu.Lock()
	c.refs--
	last := c.refs == 0
	c.mu.Unlock()

	if !last {
		return nil
	}

	c.gate.Lock()
	c.closed = true
	c.gate.Unlock()

	close(c.stopping)
	<-c.workerDone

	return nil
}

// Pending reports how many requests are waiting for dispatch.
func (h *Handle) Pending() int {
	return len(h.core.queue)
}

func (c *core) admit(ctx context.Context, p *pending) error {
	c.gate.RLock()
	defer c.gate.RUnlock()

	if c.closed {
		return &clouddns.ServiceError{Cause: clouddns.ErrClosed}
	}

	select {
	case c.queue <- p:
		return nil
	case <-ctx.Done():
		return &clouddns.ServiceError{Cause: ctx.Err()}
	}
}

func (c *core) poison() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.poisoned
}

func (c *core) setPoison(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.poisoned == nil {
		c.poisoned = err
	}
}

func (c *core) run() {
	defer close(c.workerDone)

	for {
		// Shutdown wins over queued work.
		select {
		case <-c.stopping:
			c.shutdown()

			return
		default:
		}

		select {
		case <-c.stopping:
			c.shutdown()

			return
		case p := <-c.queue:
			c.dispatch(p)
		}
	}
}

func (c *core) shutdown() {
	c.drain()
	c.pool.Wait()
}

func (c *core) drain() {
	for {
		select {
		case p := <-c.queue:
			p.deliver(nil, &clouddns.ServiceError{Cause: clouddns.ErrClosed})
		default:
			return
		}
	}
}

func (c *core) dispatch(p *pending) {
	if err := c.poison(); err != nil {
		p.deliver(nil, &clouddns.ServiceError{Cause: err})

		return
	}

	if err := p.ctx.Err(); err != nil {
		p.deliver(nil, &clouddns.ServiceError{Cause: err})

		return
	}

	// Blocks while maxInFlight requests are running.
	c.pool.Go(func() {
		c.execute(p)
	})
}

func (c *core) execute(p *pending) {
	var (
		resp *http.Response
		err  error
	)

	var catcher panics.Catcher

	catcher.Try(func() {
		resp, err = c.doer.Do(p.req)
	})

	if recovered := catcher.Recovered(); recovered != nil {
		c.logger.Error("Transport panic", map[string]interface{}{
			"method": p.req.Method,
			"url":    p.req.URL.String(),
			"panic":  fmt.Sprint(recovered.Value),
		})

		p.deliver(nil, &clouddns.ServiceError{Cause: fmt.Errorf("%w: %v", ErrTransportPanic, recovered.Value)})

		return
	}

	switch {
	case err != nil && errors.Is(err, clouddns.ErrTransportShutdown):
		c.setPoison(err)
		c.logger.Error("Transport shut down", map[string]interface{}{
			"error": err.Error(),
		})

		p.deliver(nil, &clouddns.ServiceError{Cause: err})
	case err != nil:
		p.deliver(nil, &clouddns.TransportError{Cause: err})
	case resp == nil:
		p.deliver(nil, &clouddns.TransportError{Cause: ErrNilResponse})
	default:
		if resp.Body == nil {
			resp.Body = http.NoBody
		}

		p.deliver(resp, nil)
	}
}

// discard closes the body of a response nobody is waiting for. Every pending
// request receives exactly one result, so this always returns.
func discard(p *pending) {
	r := <-p.result
	if r.resp != nil {
		_ = r.resp.Body.Close()
	}
}
