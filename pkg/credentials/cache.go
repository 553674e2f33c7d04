package credentials

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// scopeKey identifies a scope set independent of ordering.
type scopeKey string

func newScopeKey(scopes []string) scopeKey {
	sorted := append([]string(nil), scopes...)
	sort.Strings(sorted)

	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.Join(sorted, " ")))

	return scopeKey(fmt.Sprintf("%016x", h.Sum64()))
}

// tokenCache holds one token per scope set.
type tokenCache struct {
	mu     sync.RWMutex
	tokens map[scopeKey]*Token
	now    func() time.Time
}

func newTokenCache() *tokenCache {
	return &tokenCache{
		tokens: make(map[scopeKey]*Token),
		now:    time.Now,
	}
}

func (c *tokenCache) get(key scopeKey) (*Token, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	token, ok := c.tokens[key]
	if !ok || !token.Valid(c.now()) {
		return nil, false
	}

	return token, true
}

func (c *tokenCache) put(key scopeKey, token *Token) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tokens[key] = token
}

// oauthTokenResponse is the JSON body returned by Google token endpoints.
type oauthTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// parseOAuthResponse parses a standard OAuth2 token endpoint response.
func parseOAuthResponse(resp *TokenResponse, now time.Time) (*Token, error) {
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: status %d: %s", ErrTokenEndpoint, resp.StatusCode, strings.TrimSpace(string(resp.Body)))
	}

	var body oauthTokenResponse

	err := json.Unmarshal(resp.Body, &body)
	if err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	if body.AccessToken == "" {
		return nil, ErrEmptyAccessToken
	}

	token := &Token{
		AccessToken: body.AccessToken,
		TokenType:   body.TokenType,
	}

	if body.ExpiresIn > 0 {
		token.ExpiresAt = now.Add(time.Duration(body.ExpiresIn) * time.Second)
	}

	return token, nil
}

// cachingExchange is embedded by providers that obtain tokens through a
// single OAuth2 exchange per scope set.
type cachingExchange struct {
	cache *tokenCache
	build func(scopes []string) (*TokenRequest, error)
}

func (e *cachingExchange) Token(scopes []string) (Outcome, error) {
	key := newScopeKey(scopes)

	if token, ok := e.cache.get(key); ok {
		return Ready(token), nil
	}

	req, err := e.build(scopes)
	if err != nil {
		return Outcome{}, err
	}

	return NeedsExchange(req, key), nil
}

func (e *cachingExchange) ParseTokenResponse(handle Handle, resp *TokenResponse) (*Token, error) {
	key, ok := handle.(scopeKey)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnknownHandle, handle)
	}

	token, err := parseOAuthResponse(resp, e.cache.now())
	if err != nil {
		return nil, err
	}

	e.cache.put(key, token)

	return token, nil
}
