package credentials

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeKey(t *testing.T) {
	t.Parallel()

	a := newScopeKey([]string{"b", "a"})
	b := newScopeKey([]string{"a", "b"})
	c := newScopeKey([]string{"a"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, string(a), 16)
}

func TestParseOAuthResponse(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		token, err := parseOAuthResponse(&TokenResponse{
			StatusCode: http.StatusOK,
			Body:       []byte(`{"access_token":"ya29.a","token_type":"Bearer","expires_in":3599}`),
		}, now)
		require.NoError(t, err)
		assert.Equal(t, "ya29.a", token.AccessToken)
		assert.Equal(t, "Bearer", token.TokenType)
		assert.Equal(t, now.Add(3599*time.Second), token.ExpiresAt)
	})

	t.Run("no expiry", func(t *testing.T) {
		t.Parallel()

		token, err := parseOAuthResponse(&TokenResponse{StatusCode: http.StatusOK, Body: []byte(`{"access_token":"a"}`)}, now)
		require.NoError(t, err)
		assert.True(t, token.ExpiresAt.IsZero())
	})

	t.Run("endpoint error", func(t *testing.T) {
		t.Parallel()

		_, err := parseOAuthResponse(&TokenResponse{
			StatusCode: http.StatusBadRequest,
			Body:       []byte(`{"error":"invalid_grant"}`),
		}, now)
		require.ErrorIs(t, err, ErrTokenEndpoint)
		assert.Contains(t, err.Error(), "invalid_grant")
	})

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()

		_, err := parseOAuthResponse(&TokenResponse{StatusCode: http.StatusOK, Body: []byte(`{}`)}, now)
		require.ErrorIs(t, err, ErrEmptyAccessToken)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		_, err := parseOAuthResponse(&TokenResponse{StatusCode: http.StatusOK, Body: []byte(`<html>`)}, now)
		require.Error(t, err)
	})
}

func TestCachingExchange(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	builds := 0

	exchange := &cachingExchange{
		cache: newTokenCache(),
		build: func(scopes []string) (*TokenRequest, error) {
			builds++

			return &TokenRequest{Method: http.MethodPost, URL: "https://oauth2.example/token"}, nil
		},
	}
	exchange.cache.now = func() time.Time { return now }

	scopes := []string{"scope-a", "scope-b"}

	outcome, err := exchange.Token(scopes)
	require.NoError(t, err)
	require.True(t, outcome.IsExchange())

	token, err := exchange.ParseTokenResponse(outcome.Handle, &TokenResponse{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"access_token":"cached","expires_in":3600}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "cached", token.AccessToken)

	// Same scope set in another order hits the cache.
	outcome, err = exchange.Token([]string{"scope-b", "scope-a"})
	require.NoError(t, err)
	require.True(t, outcome.IsReady())
	assert.Equal(t, "cached", outcome.Token.AccessToken)

	// A different scope set does not.
	outcome, err = exchange.Token([]string{"scope-a"})
	require.NoError(t, err)
	assert.True(t, outcome.IsExchange())

	// Past expiry the first set needs a new exchange.
	now = now.Add(time.Hour)

	outcome, err = exchange.Token(scopes)
	require.NoError(t, err)
	assert.True(t, outcome.IsExchange())
	assert.Equal(t, 3, builds)

	_, err = exchange.ParseTokenResponse("foreign", &TokenResponse{StatusCode: http.StatusOK})
	require.ErrorIs(t, err, ErrUnknownHandle)
}
