package clouddns

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind names the failure category of a classified error.
type ErrorKind string

// Error kinds. Every failure surfaced by the client carries exactly one.
const (
	KindAPI       ErrorKind = "api"
	KindAuth      ErrorKind = "auth"
	KindDecode    ErrorKind = "decode"
	KindEncode    ErrorKind = "encode"
	KindURL       ErrorKind = "url"
	KindTransport ErrorKind = "transport"
	KindService   ErrorKind = "service"
	KindOther     ErrorKind = "other"
	KindUnknown   ErrorKind = ""
)

// Static errors for err113 compliance.
var (
	ErrClosed               = errors.New("client has been closed")
	ErrTransportShutdown    = errors.New("transport has been shut down")
	ErrInvalidTokenOutcome  = errors.New("token provider returned neither a token nor an exchange request")
	ErrProjectIDRequired    = errors.New("project ID is required")
	ErrConfigRequired       = errors.New("config is required")
	ErrTokenProviderMissing = errors.New("no token provider configured")
	ErrTransportMissing     = errors.New("no transport configured")
	ErrMissingField         = errors.New("required field missing or empty")
)

// ClassifiedError is implemented by every error type in the taxonomy.
type ClassifiedError interface {
	error
	Kind() ErrorKind
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) ErrorKind {
	var classified ClassifiedError
	if errors.As(err, &classified) {
		return classified.Kind()
	}

	return KindUnknown
}

// APIError is a structured error returned by the Cloud DNS API.
type APIError struct {
	StatusCode int               `json:"-"`
	Code       int               `json:"code,omitempty"`
	Message    string            `json:"message"`
	Status     string            `json:"status,omitempty"`
	Errors     []json.RawMessage `json:"errors,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("cloud dns: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// Kind implements ClassifiedError.
func (e *APIError) Kind() ErrorKind { return KindAPI }

// ErrorDetail is the usual shape of an entry in APIError.Errors.
type ErrorDetail struct {
	Domain  string `json:"domain,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// Details decodes the sub-errors that have the usual domain/reason/message
// shape. Entries of any other shape are skipped.
func (e *APIError) Details() []ErrorDetail {
	details := make([]ErrorDetail, 0, len(e.Errors))

	for _, raw := range e.Errors {
		var detail ErrorDetail

		err := json.Unmarshal(raw, &detail)
		if err != nil {
			continue
		}

		details = append(details, detail)
	}

	return details
}

// AuthError reports that the token provider could not obtain or parse a token.
type AuthError struct {
	Cause error
}

func (e *AuthError) Error() string { return "authentication failed: " + e.Cause.Error() }

// Unwrap returns the provider error.
func (e *AuthError) Unwrap() error { return e.Cause }

// Kind implements ClassifiedError.
func (e *AuthError) Kind() ErrorKind { return KindAuth }

// DecodeError reports a response body that did not match the target type.
// Path is the dotted JSON path of the offending field, empty for the root.
type DecodeError struct {
	Path   string
	Offset int64
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "decoding response body: " + e.Cause.Error()
	}

	return fmt.Sprintf("decoding response body at %q: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying decoder error.
func (e *DecodeError) Unwrap() error { return e.Cause }

// Kind implements ClassifiedError.
func (e *DecodeError) Kind() ErrorKind { return KindDecode }

// EncodeError reports a request body that could not be serialized.
type EncodeError struct {
	Cause error
}

func (e *EncodeError) Error() string { return "encoding request body: " + e.Cause.Error() }

// Unwrap returns the underlying encoder error.
func (e *EncodeError) Unwrap() error { return e.Cause }

// Kind implements ClassifiedError.
func (e *EncodeError) Kind() ErrorKind { return KindEncode }

// URLError reports a route that could not be resolved against the base URL.
type URLError struct {
	Route string
	Cause error
}

func (e *URLError) Error() string {
	return fmt.Sprintf("invalid route %q: %v", e.Route, e.Cause)
}

// Unwrap returns the parse error.
func (e *URLError) Unwrap() error { return e.Cause }

// Kind implements ClassifiedError.
func (e *URLError) Kind() ErrorKind { return KindURL }

// TransportError reports a failed round trip, or a non-2xx response whose
// body is not a structured API error. StatusCode is 0 when no response was
// received.
type TransportError struct {
	StatusCode int
	Body       []byte
	Cause      error
}

func (e *TransportError) Error() string {
	var b strings.Builder

	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "http %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	} else {
		b.WriteString("request failed")
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

// Unwrap returns the transport error, if any.
func (e *TransportError) Unwrap() error { return e.Cause }

// Kind implements ClassifiedError.
func (e *TransportError) Kind() ErrorKind { return KindTransport }

// ServiceError reports a multiplexer failure: the client was closed, the
// transport was shut down, or the caller gave up waiting.
type ServiceError struct {
	Cause error
}

func (e *ServiceError) Error() string { return "request service unavailable: " + e.Cause.Error() }

// Unwrap returns the cause.
func (e *ServiceError) Unwrap() error { return e.Cause }

// Kind implements ClassifiedError.
func (e *ServiceError) Kind() ErrorKind { return KindService }

// OtherError wraps errors that fit no other category.
type OtherError struct {
	Cause error
}

func (e *OtherError) Error() string { return e.Cause.Error() }

// Unwrap returns the wrapped error.
func (e *OtherError) Unwrap() error { return e.Cause }

// Kind implements ClassifiedError.
func (e *OtherError) Kind() ErrorKind { return KindOther }

// IsNotFound checks if the error is a 404 from the API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized checks if the error is a 401 from the API.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden checks if the error is a 403 from the API.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

func hasStatus(err error, status int) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == status
	}

	return false
}
