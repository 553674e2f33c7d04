package credentials

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToken_Valid(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		token    *Token
		expected bool
	}{
		{"nil token", nil, false},
		{"empty access token", &Token{}, false},
		{"no expiry", &Token{AccessToken: "t"}, true},
		{"expires in an hour", &Token{AccessToken: "t", ExpiresAt: now.Add(time.Hour)}, true},
		{"expires within skew", &Token{AccessToken: "t", ExpiresAt: now.Add(5 * time.Second)}, false},
		{"expired", &Token{AccessToken: "t", ExpiresAt: now.Add(-time.Minute)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.token.Valid(now))
		})
	}
}

func TestOutcome(t *testing.T) {
	t.Parallel()

	ready := Ready(&Token{AccessToken: "t"})
	assert.True(t, ready.IsReady())
	assert.False(t, ready.IsExchange())

	exchange := NeedsExchange(&TokenRequest{URL: "https://oauth2.googleapis.com/token"}, "h")
	assert.False(t, exchange.IsReady())
	assert.True(t, exchange.IsExchange())

	assert.False(t, Outcome{}.IsReady())
	assert.False(t, Outcome{}.IsExchange())

	both := Outcome{Token: &Token{AccessToken: "t"}, Request: &TokenRequest{}}
	assert.False(t, both.IsReady())
	assert.False(t, both.IsExchange())
}
