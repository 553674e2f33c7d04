package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// API location.
const (
	// DefaultEndpoint is the scheme and host of the Cloud DNS API.
	DefaultEndpoint = "https://dns.googleapis.com"

	// APIVersionPath is appended to the endpoint before the project segment.
	APIVersionPath = "/dns/v1/projects/"

	// ScopeReadWrite is the OAuth scope requested for API calls.
	ScopeReadWrite = "https://www.googleapis.com/auth/ndev.clouddns.readwrite"

	// DefaultUserAgent is sent when the caller does not set one.
	DefaultUserAgent = "clouddns-go/" + Version
)

// Version is the library version reported in the User-Agent.
const Version = "0.1.0"

// Request queue limits.
const (
	// DefaultQueueCapacity bounds requests waiting for dispatch.
	DefaultQueueCapacity = 1024

	// DefaultMaxInFlight bounds requests handed to the transport at once.
	DefaultMaxInFlight = 1024
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DialTimeout bounds TCP connection setup.
	DialTimeout = 10 * time.Second

	// TLSHandshakeTimeout bounds the TLS handshake.
	TLSHandshakeTimeout = 10 * time.Second

	// IdleConnTimeout is how long idle keep-alive connections are kept.
	IdleConnTimeout = 90 * time.Second
)

// Connection pool sizing.
const (
	// MaxIdleConns caps idle connections across all hosts.
	MaxIdleConns = 100

	// MaxIdleConnsPerHost caps idle connections to the API host.
	MaxIdleConnsPerHost = 32
)

// Retry limits for the retrying transport.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 4

	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// NATS request/reply transport.
const (
	// DefaultNATSSubject is the subject HTTP requests are published on.
	DefaultNATSSubject = "clouddns.http"

	// DefaultNATSTimeout bounds one request/reply exchange.
	DefaultNATSTimeout = 30 * time.Second

	// DefaultGatewayTimeout bounds one upstream call made by a gateway. It is
	// shorter than DefaultNATSTimeout so the caller sees the gateway's reply.
	DefaultGatewayTimeout = 25 * time.Second

	// DefaultGatewayConcurrency bounds upstream calls a gateway runs at once.
	DefaultGatewayConcurrency = 64

	// TokenHost serves the OAuth token endpoint.
	TokenHost = "oauth2.googleapis.com"
)

// Display limits.
const (
	// StringTruncationLimit is used when truncating strings in tables.
	StringTruncationLimit = 60

	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// None is used when no value is present.
	None = "none"
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)
