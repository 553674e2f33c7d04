package credentials

import (
	"fmt"

	"golang.org/x/oauth2"
)

// StaticProvider always returns the same token.
type StaticProvider struct {
	token *Token
}

// NewStaticProvider returns a provider for a fixed access token that never
// expires, e.g. the output of `gcloud auth print-access-token`.
func NewStaticProvider(accessToken string) *StaticProvider {
	return &StaticProvider{token: &Token{AccessToken: accessToken, TokenType: "Bearer"}}
}

// Token implements Provider.
func (p *StaticProvider) Token(_ []string) (Outcome, error) {
	if p.token.AccessToken == "" {
		return Outcome{}, ErrStaticToken
	}

	return Ready(p.token), nil
}

// ParseTokenResponse implements Provider. A static provider never issues
// requests, so any handle is unknown.
func (p *StaticProvider) ParseTokenResponse(handle Handle, _ *TokenResponse) (*Token, error) {
	return nil, fmt.Errorf("%w: %T", ErrUnknownHandle, handle)
}

// TokenSourceProvider adapts an oauth2.TokenSource. The token source fetches
// tokens on its own, outside the client's transport, so this adapter is meant
// for sources that already hold a token (oauth2.StaticTokenSource,
// oauth2.ReuseTokenSource over a cached token) or that callers deliberately
// run on a separate HTTP stack.
type TokenSourceProvider struct {
	source oauth2.TokenSource
}

// NewTokenSourceProvider wraps source.
func NewTokenSourceProvider(source oauth2.TokenSource) *TokenSourceProvider {
	return &TokenSourceProvider{source: source}
}

// Token implements Provider.
func (p *TokenSourceProvider) Token(_ []string) (Outcome, error) {
	token, err := p.source.Token()
	if err != nil {
		return Outcome{}, fmt.Errorf("token source: %w", err)
	}

	return Ready(&Token{
		AccessToken: token.AccessToken,
		TokenType:   token.Type(),
		ExpiresAt:   token.Expiry,
	}), nil
}

// ParseTokenResponse implements Provider.
func (p *TokenSourceProvider) ParseTokenResponse(handle Handle, _ *TokenResponse) (*Token, error) {
	return nil, fmt.Errorf("%w: %T", ErrUnknownHandle, handle)
}
