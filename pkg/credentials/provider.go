// Package credentials defines the token provider contract used by the Cloud
// DNS client and ships providers for the common Google credential sources.
//
// A Provider never performs network I/O itself. When it has no usable token
// it describes the HTTP exchange it needs; the client executes that exchange
// over its own transport and hands the raw response back for parsing. This
// keeps proxy, TLS and connection pool settings identical for token fetches
// and API calls.
package credentials

import (
	"errors"
	"net/http"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoDefaultCredentials   = errors.New("no default credentials found")
	ErrUnknownCredentialsType = errors.New("unknown credentials type")
	ErrTokenEndpoint          = errors.New("token endpoint returned an error")
	ErrEmptyAccessToken       = errors.New("token response carried no access token")
	ErrUnknownHandle          = errors.New("token response handle not recognised")
	ErrStaticToken            = errors.New("static token is empty")
)

// expirySkew is subtracted from a token's expiry when checking validity so a
// token is never sent moments before it lapses.
const expirySkew = 10 * time.Second

// Token is a bearer access token with its expiry.
type Token struct {
	AccessToken string
	TokenType   string
	// ExpiresAt is zero for tokens that never expire.
	ExpiresAt time.Time
}

// Valid reports whether the token can still be used at now.
func (t *Token) Valid(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}

	if t.ExpiresAt.IsZero() {
		return true
	}

	return now.Add(expirySkew).Before(t.ExpiresAt)
}

// TokenRequest is a ready-to-send HTTP request issued by a provider.
type TokenRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// TokenResponse is the fully materialised response to a TokenRequest.
type TokenResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Handle correlates a TokenRequest with its TokenResponse. Its contents are
// private to the provider that issued it.
type Handle any

// Outcome is the result of asking a provider for a token: either a usable
// token, or a request the caller must execute before the provider can
// produce one.
type Outcome struct {
	Token   *Token
	Request *TokenRequest
	Handle  Handle
}

// Ready returns an outcome carrying a usable token.
func Ready(token *Token) Outcome {
	return Outcome{Token: token}
}

// NeedsExchange returns an outcome asking the caller to execute req and pass
// the response back together with handle.
func NeedsExchange(req *TokenRequest, handle Handle) Outcome {
	return Outcome{Request: req, Handle: handle}
}

// IsReady reports whether the outcome carries only a token.
func (o Outcome) IsReady() bool {
	return o.Token != nil && o.Request == nil
}

// IsExchange reports whether the outcome carries only a request.
func (o Outcome) IsExchange() bool {
	return o.Request != nil && o.Token == nil
}

// Provider obtains bearer tokens for a set of OAuth scopes. Implementations
// are responsible for their own caching and must be safe for concurrent use.
type Provider interface {
	// Token returns a cached token or the request needed to obtain one.
	Token(scopes []string) (Outcome, error)
	// ParseTokenResponse turns the response to a previously issued request
	// into a token.
	ParseTokenResponse(handle Handle, resp *TokenResponse) (*Token, error)
}
