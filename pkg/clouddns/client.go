package clouddns

import (
	"context"
	"net/http"

	"github.com/fivetwenty-io/clouddns/pkg/credentials"
)

// Doer is the transport capability the client is built on: anything that
// turns a request into a response or a transport error. *http.Client
// satisfies it directly; pkg/transport adapts other stacks.
//
// A Doer that can no longer serve requests should return an error wrapping
// ErrTransportShutdown so the client stops dispatching to it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to a Doer.
type DoerFunc func(*http.Request) (*http.Response, error)

// Do implements Doer.
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// ManagedZonesClient manages managed zones.
type ManagedZonesClient interface {
	List(ctx context.Context, opts *ListOptions) (*ManagedZonesListResponse, error)
	Get(ctx context.Context, zone string) (*ManagedZone, error)
	Create(ctx context.Context, zone *ManagedZone) (*ManagedZone, error)
	Patch(ctx context.Context, zone string, patch *ManagedZone) (*Operation, error)
	Update(ctx context.Context, zone string, replacement *ManagedZone) (*Operation, error)
	Delete(ctx context.Context, zone string) error
}

// ResourceRecordSetsClient manages record sets within a zone.
type ResourceRecordSetsClient interface {
	List(ctx context.Context, zone string, opts *ListOptions) (*ResourceRecordSetsListResponse, error)
	Get(ctx context.Context, zone, name, recordType string) (*ResourceRecordSet, error)
	Create(ctx context.Context, zone string, rrset *ResourceRecordSet) (*ResourceRecordSet, error)
	Patch(ctx context.Context, zone, name, recordType string, rrset *ResourceRecordSet) (*ResourceRecordSet, error)
	Delete(ctx context.Context, zone, name, recordType string) error
}

// ChangesClient manages change batches within a zone.
type ChangesClient interface {
	List(ctx context.Context, zone string, opts *ListOptions) (*ChangesListResponse, error)
	Get(ctx context.Context, zone, changeID string) (*Change, error)
	Create(ctx context.Context, zone string, change *Change) (*Change, error)
}

// DNSKeysClient reads DNSSEC signing keys.
type DNSKeysClient interface {
	List(ctx context.Context, zone string, opts *ListOptions) (*DNSKeysListResponse, error)
	Get(ctx context.Context, zone, keyID string) (*DNSKey, error)
}

// ManagedZoneOperationsClient reads long-running zone operations.
type ManagedZoneOperationsClient interface {
	List(ctx context.Context, zone string, opts *ListOptions) (*ManagedZoneOperationsListResponse, error)
	Get(ctx context.Context, zone, operationID string) (*Operation, error)
}

// PoliciesClient manages DNS policies.
type PoliciesClient interface {
	List(ctx context.Context, opts *ListOptions) (*PoliciesListResponse, error)
	Get(ctx context.Context, policy string) (*Policy, error)
	Create(ctx context.Context, policy *Policy) (*Policy, error)
	Patch(ctx context.Context, policy string, patch *Policy) (*PolicyPatchResponse, error)
	Delete(ctx context.Context, policy string) error
}

// ProjectsClient reads the project and its quotas.
type ProjectsClient interface {
	Get(ctx context.Context) (*Project, error)
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	ManagedZones() ManagedZonesClient
	ResourceRecordSets() ResourceRecordSetsClient
	Changes() ChangesClient
	DNSKeys() DNSKeysClient
	ManagedZoneOperations() ManagedZoneOperationsClient
	Policies() PoliciesClient
	Projects() ProjectsClient
}

// Client is a Cloud DNS API client bound to one project.
//
// A Client is safe for concurrent use. Clone returns another handle on the
// same request queue and transport; each handle must be closed, and the
// queue is torn down when the last handle is closed.
type Client interface {
	ResourceClients

	ProjectID() string
	Clone() Client
	Close() error
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]interface{}) {}
func (NopLogger) Info(string, map[string]interface{})  {}
func (NopLogger) Warn(string, map[string]interface{})  {}
func (NopLogger) Error(string, map[string]interface{}) {}

// Config represents client configuration for building a Client.
//
// # Credentials
//
// TokenProvider is required by the internal constructor. dnsclient.New fills
// it from credentials.FindDefault when left nil, so the lookup happens once,
// at construction, and never implicitly per request.
//
// # Transport
//
// Transport carries both API calls and token exchanges. Retries, proxies and
// TLS belong to it; see pkg/transport. When nil, dnsclient.New uses
// transport.NewHTTP with default settings.
type Config struct {
	// ProjectID is the project all routes are resolved under. Required.
	ProjectID string
	// Endpoint overrides scheme and host (default https://dns.googleapis.com),
	// e.g. for an emulator or a test server.
	Endpoint string

	// Transport executes HTTP requests.
	Transport Doer
	// TokenProvider supplies bearer tokens.
	TokenProvider credentials.Provider
	// Scopes requested from the token provider. Defaults to the Cloud DNS
	// read/write scope.
	Scopes []string

	// QueueCapacity bounds requests waiting for dispatch. Default 1024.
	QueueCapacity int
	// MaxInFlight bounds requests dispatched to the transport at once.
	// Default 1024.
	MaxInFlight int

	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Logger receives debug and lifecycle logs. Defaults to NopLogger.
	Logger Logger
	// Debug enables request/response logging.
	Debug bool
	// Interceptors run around every API call (not around token exchanges).
	Interceptors *InterceptorChain
}
