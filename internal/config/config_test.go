package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresTokenSecret(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingTokenSecret)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SECRET", "s3cret")
	t.Setenv("APP_HOST", "")
	t.Setenv("APP_PORT", "")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "")
	t.Setenv("REDIS_LISTING_CACHE_TTL", "")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("AUTH_BOOTSTRAP_EMAIL", "")
	t.Setenv("AUTH_BOOTSTRAP_PASSWORD", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 5*time.Minute, cfg.Redis.ListingCacheTTL)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, "s3cret", cfg.Auth.TokenSecret)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string][2]string{
		"redis db":       {"REDIS_DB", "zero"},
		"cache ttl":      {"REDIS_LISTING_CACHE_TTL", "soon"},
		"token ttl":      {"AUTH_ACCESS_TOKEN_TTL_MINUTES", "-5"},
		"bootstrap pair": {"AUTH_BOOTSTRAP_EMAIL", "root@example.com"},
	}

	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("AUTH_TOKEN_SECRET", "s3cret")
			t.Setenv("AUTH_BOOTSTRAP_PASSWORD", "")
			t.Setenv(kv[0], kv[1])

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestAuthConfigRedactsSecret(t *testing.T) {
	t.Parallel()

	cfg := AuthConfig{TokenSecret: "do-not-print", AccessTokenTTLMinutes: 60}
	for _, out := range []string{
		cfg.String(),
		fmt.Sprintf("%v", cfg),
		fmt.Sprintf("%+v", cfg),
		fmt.Sprintf("%#v", cfg),
		fmt.Sprintf("%v", Config{Auth: cfg}),
	} {
		assert.NotContains(t, out, "do-not-print")
	}
	assert.Contains(t, AuthConfig{}.String(), "<unset>")
}

func TestRequestTimeoutDisabled(t *testing.T) {
	t.Parallel()

	assert.Zero(t, AppConfig{RequestTimeoutSeconds: 0}.RequestTimeout())
	assert.Zero(t, AppConfig{RequestTimeoutSeconds: -1}.RequestTimeout())
}
