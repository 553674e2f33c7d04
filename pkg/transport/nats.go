package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/fivetwenty-io/clouddns/internal/constants"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// Headers carrying the HTTP envelope over NATS.
const (
	HeaderMethod = "Clouddns-Method"
	HeaderURL    = "Clouddns-Url"
	HeaderStatus = "Clouddns-Status"
	HeaderError  = "Clouddns-Error"
)

// Static errors for err113 compliance.
var (
	ErrMalformedReply   = errors.New("nats reply carries no HTTP status")
	ErrMalformedRequest = errors.New("nats request carries no HTTP method or URL")
	ErrGateway          = errors.New("gateway failed to execute request")
	ErrHostNotAllowed   = errors.New("gateway does not relay requests to this host")
	ErrGatewayClosed    = errors.New("gateway is shutting down")
)

// NATSRequester is the subset of *nats.Conn used by the NATS transport.
type NATSRequester interface {
	RequestMsgWithContext(ctx context.Context, msg *nats.Msg) (*nats.Msg, error)
}

// NATSConfig configures NewNATS.
type NATSConfig struct {
	// Subject requests are published on. Defaults to "clouddns.http".
	Subject string
	// Timeout applies to requests whose context has no deadline.
	Timeout time.Duration
}

// NATS carries HTTP requests as NATS request/reply messages to a Gateway. The HTTP method and URL travel in headers, the body as
// the message payload.
//
// A closed or draining connection is reported as
// clouddns.ErrTransportShutdown so the client stops using it.
type NATS struct {
	conn    NATSRequester
	subject string
	timeout time.Duration
}

// NewNATS returns a NATS transport over conn.
func NewNATS(conn NATSRequester, cfg NATSConfig) *NATS {
	t := &NATS{
		conn:    conn,
		subject: constants.DefaultNATSSubject,
		timeout: constants.DefaultNATSTimeout,
	}

	if cfg.Subject != "" {
		t.subject = cfg.Subject
	}

	if cfg.Timeout > 0 {
		t.timeout = cfg.Timeout
	}

	return t
}

// Do implements clouddns.Doer.
func (t *NATS) Do(req *http.Request) (*http.Response, error) {
	msg, err := encodeRequest(t.subject, req)
	if err != nil {
		return nil, err
	}

	ctx := req.Context()
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	reply, err := t.conn.RequestMsgWithContext(ctx, msg)
	if err != nil {
		if errors.Is(err, nats.ErrConnectionClosed) || errors.Is(err, nats.ErrConnectionDraining) {
			return nil, fmt.Errorf("%w: %w", clouddns.ErrTransportShutdown, err)
		}

		return nil, fmt.Errorf("nats request on %s: %w", t.subject, err)
	}

	return decodeReply(req, reply)
}

func encodeRequest(subject string, req *http.Request) (*nats.Msg, error) {
	msg := nats.NewMsg(subject)

	for key, values := range req.Header {
		for _, value := range values {
			msg.Header.Add(key, value)
		}
	}

	msg.Header.Set(HeaderMethod, req.Method)
	msg.Header.Set(HeaderURL, req.URL.String())

	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		_ = req.Body.Close()

		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}

		msg.Data = body
	}

	return msg, nil
}

func decodeReply(req *http.Request, reply *nats.Msg) (*http.Response, error) {
	if reply.Header == nil {
		return nil, ErrMalformedReply
	}

	if gatewayErr := reply.Header.Get(HeaderError); gatewayErr != "" {
		return nil, fmt.Errorf("%w: %s", ErrGateway, gatewayErr)
	}

	status, err := strconv.Atoi(reply.Header.Get(HeaderStatus))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedReply, err)
	}

	header := make(http.Header, len(reply.Header))

	for key, values := range reply.Header {
		if key == HeaderStatus {
			continue
		}

		header[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}

	return &http.Response{
		Status:        strconv.Itoa(status) + " " + http.StatusText(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(reply.Data)),
		ContentLength: int64(len(reply.Data)),
		Request:       req,
	}, nil
}
