package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2/google"
)

// Static errors for err113 compliance.
var (
	ErrMissingRefreshToken = errors.New("authorized user credentials carry no refresh token")
)

// authorizedUserFile is the gcloud "authorized_user" credentials file.
type authorizedUserFile struct {
	Type         string `json:"type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
	TokenURI     string `json:"token_uri"`
}

// AuthorizedUserProvider exchanges a user refresh token for access tokens.
// Scopes are fixed when the refresh token was granted, so the requested
// scopes only key the cache.
type AuthorizedUserProvider struct {
	cachingExchange

	clientID     string
	clientSecret string
	refreshToken string
	tokenURL     string
}

// NewAuthorizedUserProvider parses gcloud application default credentials of
// type "authorized_user".
func NewAuthorizedUserProvider(jsonFile []byte) (*AuthorizedUserProvider, error) {
	var file authorizedUserFile

	err := json.Unmarshal(jsonFile, &file)
	if err != nil {
		return nil, fmt.Errorf("parsing authorized user credentials: %w", err)
	}

	if file.Type != typeAuthorizedUser {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCredentialsType, file.Type)
	}

	if file.RefreshToken == "" {
		return nil, ErrMissingRefreshToken
	}

	tokenURL := file.TokenURI
	if tokenURL == "" {
		tokenURL = google.Endpoint.TokenURL
	}

	provider := &AuthorizedUserProvider{
		clientID:     file.ClientID,
		clientSecret: file.ClientSecret,
		refreshToken: file.RefreshToken,
		tokenURL:     tokenURL,
	}
	provider.cachingExchange = cachingExchange{
		cache: newTokenCache(),
		build: provider.buildRequest,
	}

	return provider, nil
}

func (p *AuthorizedUserProvider) buildRequest(_ []string) (*TokenRequest, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {p.clientID},
		"client_secret": {p.clientSecret},
		"refresh_token": {p.refreshToken},
	}

	return &TokenRequest{
		Method: http.MethodPost,
		URL:    p.tokenURL,
		Header: http.Header{"Content-Type": {"application/x-www-form-urlencoded"}},
		Body:   []byte(form.Encode()),
	}, nil
}
