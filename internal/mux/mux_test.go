package mux

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

func newRequest(t *testing.T, id string) *http.Request {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "https://dns.example/"+id, nil)
	require.NoError(t, err)

	req.Header.Set("X-Id", id)

	return req
}

func okResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestHandle_SubmitPassesResponseThrough(t *testing.T) {
	t.Parallel()

	doer := clouddns.DoerFunc(func(req *http.Request) (*http.Response, error) {
		resp := okResponse(`{"id":"` + req.Header.Get("X-Id") + `"}`)
		resp.Header.Set("X-Echo", req.URL.Path)

		return resp, nil
	})

	handle := New(doer)
	defer func() { _ = handle.Close() }()

	resp, err := handle.Submit(context.Background(), newRequest(t, "a"))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/a", resp.Header.Get("X-Echo"))
	assert.JSONEq(t, `{"id":"a"}`, string(body))
}

func TestHandle_NilBodyBecomesNoBody(t *testing.T) {
	t.Parallel()

	doer := clouddns.DoerFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusNoContent}, nil
	})

	handle := New(doer)
	defer func() { _ = handle.Close() }()

	resp, err := handle.Submit(context.Background(), newRequest(t, "a"))
	require.NoError(t, err)
	assert.Equal(t, http.NoBody, resp.Body)
}

func TestHandle_TransportErrorIsClassified(t *testing.T) {
	t.Parallel()

	errDial := errors.New("dial tcp: connection refused")
	calls := atomic.Int32{}

	doer := clouddns.DoerFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)

		return nil, errDial
	})

	handle := New(doer)
	defer func() { _ = handle.Close() }()

	for range 2 {
		_, err := handle.Submit(context.Background(), newRequest(t, "a"))
		require.Error(t, err)

		var transportErr *clouddns.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.ErrorIs(t, err, errDial)
	}

	// An ordinary transport error does not poison the multiplexer.
	assert.Equal(t, int32(2), calls.Load())
}

func TestHandle_ShutdownPoisonsLaterCallers(t *testing.T) {
	t.Parallel()

	calls := atomic.Int32{}

	doer := clouddns.DoerFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)

		return nil, fmt.Errorf("nats: %w", clouddns.ErrTransportShutdown)
	})

	handle := New(doer)
	defer func() { _ = handle.Close() }()

	_, err := handle.Submit(context.Background(), newRequest(t, "first"))
	require.Error(t, err)
	assert.Equal(t, clouddns.KindService, clouddns.KindOf(err))
	assert.ErrorIs(t, err, clouddns.ErrTransportShutdown)

	for range 3 {
		_, err = handle.Submit(context.Background(), newRequest(t, "later"))
		require.Error(t, err)
		assert.Equal(t, clouddns.KindService, clouddns.KindOf(err))
	}

	assert.Equal(t, int32(1), calls.Load())
}

func TestHandle_PanicIsIsolated(t *testing.T) {
	t.Parallel()

	doer := clouddns.DoerFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("X-Id") == "boom" {
			panic("transport exploded")
		}

		return okResponse(`{}`), nil
	})

	handle := New(doer)
	defer func() { _ = handle.Close() }()

	_, err := handle.Submit(context.Background(), newRequest(t, "boom"))
	require.Error(t, err)
	assert.Equal(t, clouddns.KindService, clouddns.KindOf(err))
	require.ErrorIs(t, err, ErrTransportPanic)
	assert.Contains(t, err.Error(), "transport exploded")

	resp, err := handle.Submit(context.Background(), newRequest(t, "fine"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandle_Backpressure(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 8)

	doer := clouddns.DoerFunc(func(*http.Request) (*http.Response, error) {
		started <- struct{}{}
		<-release

		return okResponse(`{}`), nil
	})

	handle := New(doer, WithCapacity(1), WithMaxInFlight(1))
	defer func() { _ = handle.Close() }()

	var wg sync.WaitGroup

	errs := make(chan error, 3)

	submit := func(id string) {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := handle.Submit(context.Background(), newRequest(t, id))
			errs <- err
		}()
	}

	// a is in flight.
	submit("a")
	<-started

	// b and c arrive. The worker holds one of them waiting for a pool slot
	// and the other fills the single queue slot.
	submit("b")
	submit("c")
	require.Eventually(t, func() bool { return handle.Pending() == 1 }, time.Second, time.Millisecond)

	// The queue is full, so admission suspends until the deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := handle.Submit(ctx, newRequest(t, "d"))
	require.Error(t, err)
	assert.Equal(t, clouddns.KindService, clouddns.KindOf(err))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestHandle_BackpressureReleases(t *testing.T) {
	t.Parallel()

	const (
		capacity = 4
		callers  = 200
	)

	release := make(chan struct{})
	inFlight := atomic.Int32{}

	doer := clouddns.DoerFunc(func(req *http.Request) (*http.Response, error) {
		inFlight.Add(1)
		<-release

		return okResponse(req.Header.Get("X-Id")), nil
	})

	handle := New(doer, WithCapacity(capacity), WithMaxInFlight(2))
	defer func() { _ = handle.Close() }()

	var wg sync.WaitGroup

	bodies := make([]string, callers)
	errs := make([]error, callers)

	for i := range callers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			resp, err := handle.Submit(context.Background(), newRequest(t, fmt.Sprintf("caller-%d", i)))
			if err != nil {
				errs[i] = err

				return
			}

			body, err := io.ReadAll(resp.Body)
			errs[i] = err
			bodies[i] = string(body)
		}()
	}

	// Two requests are in flight and the queue is full; the other callers
	// are suspended in admission.
	require.Eventually(t, func() bool {
		return inFlight.Load() == 2 && handle.Pending() == capacity
	}, 5*time.Second, time.Millisecond)

	close(release)
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf("caller-%d", i), bodies[i])
	}

	assert.Equal(t, int32(callers), inFlight.Load())
}

func TestHandle_AdmissionOrder(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 1)

	var (
		mu    sync.Mutex
		order []string
	)

	doer := clouddns.DoerFunc(func(req *http.Request) (*http.Response, error) {
		mu.Lock()
		order = append(order, req.Header.Get("X-Id"))
		first := len(order) == 1
		mu.Unlock()

		if first {
			started <- struct{}{}
		}

		<-release

		return okResponse(`{}`), nil
	})

	handle := New(doer, WithCapacity(8), WithMaxInFlight(1))
	defer func() { _ = handle.Close() }()

	var wg sync.WaitGroup

	submit := func(id string) {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := handle.Submit(context.Background(), newRequest(t, id))
			assert.NoError(t, err)
		}()
	}

	ids := []string{"0", "1", "2", "3", "4"}

	// 0 is in flight and 1 is held by the worker waiting for a slot.
	submit(ids[0])
	<-started
	submit(ids[1])
	time.Sleep(10 * time.Millisecond)

	for i, id := range ids[2:] {
		submit(id)

		want := i + 1
		require.Eventually(t, func() bool { return handle.Pending() == want }, time.Second, time.Millisecond)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, ids, order)
}

func TestHandle_AbandonedCallerDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})

	doer := clouddns.DoerFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("X-Id") == "slow" {
			<-release
		}

		return okResponse(`{}`), nil
	})

	handle := New(doer)
	defer func() { _ = handle.Close() }()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		_, err := handle.Submit(ctx, newRequest(t, "slow"))
		done <- err
	}()

	cancel()

	err := <-done
	require.Error(t, err)
	require.ErrorIs(t, err, context.Canceled)

	resp, err := handle.Submit(context.Background(), newRequest(t, "fast"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	close(release)
}

func TestHandle_CloneAndClose(t *testing.T) {
	t.Parallel()

	doer := clouddns.DoerFunc(func(*http.Request) (*http.Response, error) {
		return okResponse(`{}`), nil
	})

	original := New(doer)
	clone := original.Clone()

	require.NoError(t, original.Close())
	require.NoError(t, original.Close())

	_, err := original.Submit(context.Background(), newRequest(t, "a"))
	require.ErrorIs(t, err, clouddns.ErrClosed)

	// The clone keeps the shared worker alive.
	_, err = clone.Submit(context.Background(), newRequest(t, "b"))
	require.NoError(t, err)

	require.NoError(t, clone.Close())

	_, err = clone.Submit(context.Background(), newRequest(t, "c"))
	require.Error(t, err)
	assert.Equal(t, clouddns.KindService, clouddns.KindOf(err))
	require.ErrorIs(t, err, clouddns.ErrClosed)

	late := clone.Clone()
	_, err = late.Submit(context.Background(), newRequest(t, "d"))
	require.ErrorIs(t, err, clouddns.ErrClosed)
}

func TestHandle_CloseFailsQueuedRequests(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 1)

	doer := clouddns.DoerFunc(func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("X-Id") == "inflight" {
			started <- struct{}{}
			<-release
		}

		return okResponse(`{}`), nil
	})

	handle := New(doer, WithMaxInFlight(1))

	inflight := make(chan error, 1)

	go func() {
		_, err := handle.Submit(context.Background(), newRequest(t, "inflight"))
		inflight <- err
	}()

	<-started

	// held by the worker, then one more sitting in the queue
	held := make(chan error, 1)

	go func() {
		_, err := handle.Submit(context.Background(), newRequest(t, "held"))
		held <- err
	}()

	time.Sleep(10 * time.Millisecond)

	queued := make(chan error, 1)

	go func() {
		_, err := handle.Submit(context.Background(), newRequest(t, "queued"))
		queued <- err
	}()

	require.Eventually(t, func() bool { return handle.Pending() == 1 }, time.Second, time.Millisecond)

	closed := make(chan struct{})

	go func() {
		_ = handle.Close()

		close(closed)
	}()

	// Close waits for in-flight work.
	select {
	case <-closed:
		t.Fatal("Close returned while a request was in flight")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-closed

	require.NoError(t, <-inflight)
	require.NoError(t, <-held)

	err := <-queued
	require.Error(t, err)
	assert.ErrorIs(t, err, clouddns.ErrClosed)
}
