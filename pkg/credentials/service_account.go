package credentials

import (
	"crypto/rsa"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2/google"
)

const (
	jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionLifetime  = time.Hour
)

// ServiceAccountProvider obtains tokens with the OAuth2 JWT bearer grant using
// a service account key file.
type ServiceAccountProvider struct {
	cachingExchange

	email    string
	keyID    string
	subject  string
	tokenURL string
	key      *rsa.PrivateKey
}

// NewServiceAccountProvider parses a service account JSON key.
func NewServiceAccountProvider(jsonKey []byte) (*ServiceAccountProvider, error) {
	cfg, err := google.JWTConfigFromJSON(jsonKey)
	if err != nil {
		return nil, fmt.Errorf("parsing service account key: %w", err)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("parsing service account private key: %w", err)
	}

	provider := &ServiceAccountProvider{
		email:    cfg.Email,
		keyID:    cfg.PrivateKeyID,
		subject:  cfg.Subject,
		tokenURL: cfg.TokenURL,
		key:      key,
	}
	provider.cachingExchange = cachingExchange{
		cache: newTokenCache(),
		build: provider.buildRequest,
	}

	return provider, nil
}

// WithSubject returns a copy of the provider that impersonates subject via
// domain-wide delegation. The copy has its own token cache.
func (p *ServiceAccountProvider) WithSubject(subject string) *ServiceAccountProvider {
	clone := *p
	clone.subject = subject
	clone.cachingExchange = cachingExchange{
		cache: newTokenCache(),
		build: clone.buildRequest,
	}

	return &clone
}

// Email returns the service account's client email.
func (p *ServiceAccountProvider) Email() string {
	return p.email
}

func (p *ServiceAccountProvider) buildRequest(scopes []string) (*TokenRequest, error) {
	now := p.cache.now()

	claims := jwt.MapClaims{
		"iss":   p.email,
		"scope": strings.Join(scopes, " "),
		"aud":   p.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}
	if p.subject != "" {
		claims["sub"] = p.subject
	}

	assertion := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if p.keyID != "" {
		assertion.Header["kid"] = p.keyID
	}

	signed, err := assertion.SignedString(p.key)
	if err != nil {
		return nil, fmt.Errorf("signing JWT assertion: %w", err)
	}

	form := url.Values{
		"grant_type": {jwtBearerGrantType},
		"assertion":  {signed},
	}

	return &TokenRequest{
		Method: http.MethodPost,
		URL:    p.tokenURL,
		Header: http.Header{"Content-Type": {"application/x-www-form-urlencoded"}},
		Body:   []byte(form.Encode()),
	}, nil
}
