package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/clouddns/internal/auth"
	dnshttp "github.com/fivetwenty-io/clouddns/internal/http"
	"github.com/fivetwenty-io/clouddns/internal/mux"
	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
	"github.com/fivetwenty-io/clouddns/pkg/credentials"
)

// MockResolver for testing.
type MockResolver struct {
	token string
	err   error
	calls atomic.Int32
}

func (m *MockResolver) Resolve(context.Context) (*credentials.Token, error) {
	m.calls.Add(1)

	if m.err != nil {
		return nil, m.err
	}

	return &credentials.Token{AccessToken: m.token, TokenType: "Bearer"}, nil
}

type nilResolver struct{}

func (nilResolver) Resolve(context.Context) (*credentials.Token, error) { return nil, nil }

// nilTokenProvider asks for an exchange and then parses the reply to no token.
type nilTokenProvider struct {
	tokenURL string
}

func (p *nilTokenProvider) Token([]string) (credentials.Outcome, error) {
	return credentials.NeedsExchange(&credentials.TokenRequest{Method: http.MethodPost, URL: p.tokenURL}, nil), nil
}

func (p *nilTokenProvider) ParseTokenResponse(credentials.Handle, *credentials.TokenResponse) (*credentials.Token, error) {
	return nil, nil
}

// MockLogger for testing.
type MockLogger struct {
	mu   sync.Mutex
	logs []map[string]interface{}
}

func (l *MockLogger) record(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logs = append(l.logs, map[string]interface{}{"level": level, "msg": msg, "fields": fields})
}

func (l *MockLogger) Debug(msg string, fields map[string]interface{}) { l.record("debug", msg, fields) }
func (l *MockLogger) Info(msg string, fields map[string]interface{})  { l.record("info", msg, fields) }
func (l *MockLogger) Warn(msg string, fields map[string]interface{})  { l.record("warn", msg, fields) }
func (l *MockLogger) Error(msg string, fields map[string]interface{}) { l.record("error", msg, fields) }

const testProjectPath = "/dns/v1/projects/my-project/"

func newTestClient(t *testing.T, handler http.HandlerFunc, resolver dnshttp.TokenResolver, opts ...dnshttp.Option) *dnshttp.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	handle := mux.New(server.Client())
	t.Cleanup(func() { _ = handle.Close() })

	base, err := url.Parse(server.URL + testProjectPath)
	require.NoError(t, err)

	if resolver == nil {
		resolver = &MockResolver{token: "test-token"}
	}

	return dnshttp.NewClient(base, handle, resolver, opts...)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_Do(t *testing.T) {
	t.Parallel()

	t.Run("successful get", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, testProjectPath+"managedZones/zone-1", request.URL.Path)
			assert.Equal(t, http.MethodGet, request.Method)
			assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))
			assert.Equal(t, "application/json", request.Header.Get("Accept"))
			assert.Empty(t, request.Header.Get("Content-Type"))
			assert.Contains(t, request.Header.Get("User-Agent"), "clouddns-go/")

			_, _ = io.WriteString(writer, `{"name":"zone-1","dnsName":"example.com.","id":"42"}`)
		}, nil)

		var zone clouddns.ManagedZone

		err := client.Get(context.Background(), "managedZones/zone-1", &zone)
		require.NoError(t, err)
		assert.Equal(t, "zone-1", zone.Name)
		assert.Equal(t, "example.com.", zone.DNSName)
	})

	t.Run("post with body", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodPost, request.Method)
			assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

			var zone clouddns.ManagedZone

			err := json.NewDecoder(request.Body).Decode(&zone)
			assert.NoError(t, err)

			zone.ID = "1001"

			writer.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(writer).Encode(zone)
		}, nil)

		var created clouddns.ManagedZone

		err := client.Post(context.Background(), "managedZones", &clouddns.ManagedZone{Name: "new", DNSName: "new.example."}, &created)
		require.NoError(t, err)
		assert.Equal(t, "new", created.Name)
		assert.Equal(t, "1001", created.ID)
	})

	t.Run("query string survives resolution", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, testProjectPath+"managedZones", request.URL.Path)
			assert.Equal(t, "maxResults=2", request.URL.RawQuery)

			_, _ = io.WriteString(writer, `{"managedZones":[]}`)
		}, nil)

		var list clouddns.ManagedZonesListResponse

		err := client.Get(context.Background(), "managedZones?maxResults=2", &list)
		require.NoError(t, err)
		assert.Empty(t, list.ManagedZones)
	})

	t.Run("empty body with target is a no-op", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		}, nil)

		zone := clouddns.ManagedZone{Name: "untouched"}

		err := client.Delete(context.Background(), "managedZones/zone-1", &zone)
		require.NoError(t, err)
		assert.Equal(t, "untouched", zone.Name)
	})

	t.Run("nil target discards body", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(writer, `not even json`)
		}, nil)

		err := client.Delete(context.Background(), "policies/p", nil)
		require.NoError(t, err)
	})
}

func TestClient_RecordSetListEndToEnd(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, testProjectPath+"managedZones/z/rrsets", request.URL.Path)

		_, _ = io.WriteString(writer, `{"rrsets":[],"nextPageToken":null}`)
	}, nil)

	list, err := dnshttp.Fetch[clouddns.ResourceRecordSetsListResponse](context.Background(), client, "managedZones/z/rrsets")
	require.NoError(t, err)
	assert.Empty(t, list.Rrsets)
	assert.Nil(t, list.NextPageToken)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_ErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		kind    clouddns.ErrorKind
		message string
	}{
		{
			name:    "google envelope",
			status:  http.StatusNotFound,
			body:    `{"error":{"code":404,"message":"not found","status":"NOT_FOUND","errors":[{"domain":"global","reason":"notFound","message":"not found"}]}}`,
			kind:    clouddns.KindAPI,
			message: "not found",
		},
		{
			name:    "bare message",
			status:  http.StatusConflict,
			body:    `{"message":"already exists","errors":[]}`,
			kind:    clouddns.KindAPI,
			message: "already exists",
		},
		{
			name:   "plain text",
			status: http.StatusBadGateway,
			body:   `upstream unavailable`,
			kind:   clouddns.KindTransport,
		},
		{
			name:   "json without message",
			status: http.StatusInternalServerError,
			body:   `{"error":"internal"}`,
			kind:   clouddns.KindTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(tt.status)
				_, _ = io.WriteString(writer, tt.body)
			}, nil)

			var zone clouddns.ManagedZone

			err := client.Get(context.Background(), "managedZones/missing", &zone)
			require.Error(t, err)
			assert.Equal(t, tt.kind, clouddns.KindOf(err))

			switch tt.kind {
			case clouddns.KindAPI:
				var apiErr *clouddns.APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.message, apiErr.Message)
				assert.Equal(t, tt.status, apiErr.StatusCode)
			case clouddns.KindTransport:
				var transportErr *clouddns.TransportError
				require.ErrorAs(t, err, &transportErr)
				assert.Equal(t, tt.status, transportErr.StatusCode)
				assert.Equal(t, tt.body, string(transportErr.Body))
			}
		})
	}

	t.Run("not found helper", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(writer, `{"error":{"code":404,"message":"not found"}}`)
		}, nil)

		err := client.Get(context.Background(), "managedZones/missing", nil)
		require.Error(t, err)
		assert.True(t, clouddns.IsNotFound(err))

		var apiErr *clouddns.APIError
		require.ErrorAs(t, err, &apiErr)
		require.Len(t, apiErr.Details(), 0)
	})
}

func TestClient_DecodeErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing required field reports its path", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(writer, `{"rrsets":[{"type":"A","ttl":300,"rrdatas":["1.2.3.4"]}]}`)
		}, nil)

		var list clouddns.ResourceRecordSetsListResponse

		err := client.Get(context.Background(), "managedZones/z/rrsets", &list)
		require.Error(t, err)
		assert.Equal(t, clouddns.KindDecode, clouddns.KindOf(err))
		require.ErrorIs(t, err, clouddns.ErrMissingField)

		var decodeErr *clouddns.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "rrsets[0].name", decodeErr.Path)
	})

	t.Run("present but empty required field", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(writer, `{"rrsets":[{"name":"a.example.","type":"A"},{"name":"","type":"A"}]}`)
		}, nil)

		var list clouddns.ResourceRecordSetsListResponse

		err := client.Get(context.Background(), "managedZones/z/rrsets", &list)
		require.ErrorIs(t, err, clouddns.ErrMissingField)
		assert.Contains(t, err.Error(), "missing or empty")

		var decodeErr *clouddns.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, "rrsets[1].name", decodeErr.Path)
	})

	t.Run("type mismatch reports its path", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(writer, `{"rrsets":[{"name":"a.example.","type":"A","ttl":"soon"}]}`)
		}, nil)

		var list clouddns.ResourceRecordSetsListResponse

		err := client.Get(context.Background(), "managedZones/z/rrsets", &list)
		require.Error(t, err)

		var decodeErr *clouddns.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Contains(t, decodeErr.Path, "ttl")
		assert.Positive(t, decodeErr.Offset)
	})

	t.Run("syntax error reports offset", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(writer http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(writer, `{"name": zone}`)
		}, nil)

		var zone clouddns.ManagedZone

		err := client.Get(context.Background(), "managedZones/z", &zone)
		require.Error(t, err)

		var decodeErr *clouddns.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Empty(t, decodeErr.Path)
		assert.Positive(t, decodeErr.Offset)
	})
}

func TestClient_FailuresBeforeSubmission(t *testing.T) {
	t.Parallel()

	t.Run("bad route", func(t *testing.T) {
		t.Parallel()

		hits := atomic.Int32{}
		resolver := &MockResolver{token: "t"}

		client := newTestClient(t, func(http.ResponseWriter, *http.Request) { hits.Add(1) }, resolver)

		err := client.Get(context.Background(), "managedZones/%zz", nil)
		require.Error(t, err)
		assert.Equal(t, clouddns.KindURL, clouddns.KindOf(err))
		assert.Zero(t, resolver.calls.Load())
		assert.Zero(t, hits.Load())
	})

	t.Run("auth failure", func(t *testing.T) {
		t.Parallel()

		hits := atomic.Int32{}
		resolver := &MockResolver{err: &clouddns.AuthError{Cause: credentials.ErrTokenEndpoint}}

		client := newTestClient(t, func(http.ResponseWriter, *http.Request) { hits.Add(1) }, resolver)

		err := client.Get(context.Background(), "managedZones", nil)
		require.Error(t, err)
		assert.Equal(t, clouddns.KindAuth, clouddns.KindOf(err))
		assert.Zero(t, hits.Load())
	})

	t.Run("provider parses an exchange to nothing", func(t *testing.T) {
		t.Parallel()

		apiHits := atomic.Int32{}

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path == "/token" {
				_, _ = io.WriteString(writer, `{}`)

				return
			}

			apiHits.Add(1)
		}))
		t.Cleanup(server.Close)

		handle := mux.New(server.Client())
		t.Cleanup(func() { _ = handle.Close() })

		base, err := url.Parse(server.URL + testProjectPath)
		require.NoError(t, err)

		provider := &nilTokenProvider{tokenURL: server.URL + "/token"}
		client := dnshttp.NewClient(base, handle, auth.NewResolver(provider, handle, nil, nil))

		assert.NotPanics(t, func() {
			err = client.Get(context.Background(), "managedZones", nil)
		})
		require.Error(t, err)
		assert.Equal(t, clouddns.KindOther, clouddns.KindOf(err))
		assert.ErrorIs(t, err, clouddns.ErrInvalidTokenOutcome)
		assert.Zero(t, apiHits.Load())
	})

	t.Run("resolver returns no token", func(t *testing.T) {
		t.Parallel()

		hits := atomic.Int32{}

		client := newTestClient(t, func(http.ResponseWriter, *http.Request) { hits.Add(1) }, nilResolver{})

		err := client.Get(context.Background(), "managedZones", nil)
		require.ErrorIs(t, err, clouddns.ErrInvalidTokenOutcome)
		assert.Zero(t, hits.Load())
	})

	t.Run("unencodable body", func(t *testing.T) {
		t.Parallel()

		hits := atomic.Int32{}

		client := newTestClient(t, func(http.ResponseWriter, *http.Request) { hits.Add(1) }, nil)

		err := client.Post(context.Background(), "managedZones", map[string]interface{}{"bad": make(chan int)}, nil)
		require.Error(t, err)
		assert.Equal(t, clouddns.KindEncode, clouddns.KindOf(err))
		assert.Zero(t, hits.Load())
	})
}

func TestClient_ResolveRoute(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://dns.googleapis.com/dns/v1/projects/p/")
	require.NoError(t, err)

	client := dnshttp.NewClient(base, nil, &MockResolver{})

	first, err := client.ResolveRoute("managedZones/z/rrsets")
	require.NoError(t, err)

	second, err := client.ResolveRoute("managedZones/z/rrsets")
	require.NoError(t, err)

	assert.Equal(t, "https://dns.googleapis.com/dns/v1/projects/p/managedZones/z/rrsets", first.String())
	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, "https://dns.googleapis.com/dns/v1/projects/p/", client.BaseURL().String())

	project, err := client.ResolveRoute("")
	require.NoError(t, err)
	assert.Equal(t, "https://dns.googleapis.com/dns/v1/projects/p/", project.String())
}

func TestClient_InterceptorsAndLogging(t *testing.T) {
	t.Parallel()

	logger := &MockLogger{}
	collector := clouddns.NewMetricsCollector()

	chain := clouddns.NewInterceptorChain().
		AddRequestInterceptor(clouddns.HeaderInterceptor(map[string]string{"X-Goog-User-Project": "billing"})).
		AddRequestInterceptor(clouddns.MetricsRequestInterceptor(collector)).
		AddResponseInterceptor(clouddns.MetricsResponseInterceptor(collector))

	client := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "billing", request.Header.Get("X-Goog-User-Project"))
		assert.Equal(t, "Bearer test-token", request.Header.Get("Authorization"))

		_, _ = io.WriteString(writer, `{"id":"my-project","number":"1"}`)
	}, nil, dnshttp.WithLogger(logger), dnshttp.WithDebug(true), dnshttp.WithInterceptors(chain))

	project, err := dnshttp.Fetch[clouddns.Project](context.Background(), client, "")
	require.NoError(t, err)
	assert.Equal(t, "my-project", project.ID)

	metrics, ok := collector.GetMetrics("GET ")
	require.True(t, ok)
	assert.Equal(t, int64(1), metrics.TotalRequests)
	assert.Zero(t, metrics.TotalErrors)

	logger.mu.Lock()
	defer logger.mu.Unlock()

	messages := make([]string, 0, len(logger.logs))
	for _, entry := range logger.logs {
		messages = append(messages, entry["msg"].(string))
	}

	assert.Contains(t, messages, "HTTP Request")
	assert.Contains(t, messages, "HTTP Response")
}
