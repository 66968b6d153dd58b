package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":              "www.example:9000",
		"database_dsn":                    "postgres://curex",
		"redis_addr":                      "redis:6379",
		"secret_key":                      "my_secret_key",
		"access_token_validity_duration":  "30m",
		"refresh_token_validity_duration": "168h",
		"reaper_interval":                 "24h",
		"rates_api_url":                   "http://rates.example",
		"rates_api_key":                   "apikey",
		"rates_refresh_interval":          "12h",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://curex", cfg.DatabaseDSN)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 168*time.Hour, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, 24*time.Hour, cfg.ReaperInterval)
		assert.Equal(t, "http://rates.example", cfg.RatesAPIURL)
		assert.Equal(t, "apikey", cfg.RatesAPIKey)
		assert.Equal(t, 12*time.Hour, cfg.RatesRefreshInterval)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrHTTP:             "defaults:1234",
			DatabaseDSN:                  "postgres://defaults",
			RedisAddr:                    "localhost:6379",
			SecretKey:                    "key",
			AccessTokenValidityDuration:  2 * time.Minute,
			RefreshTokenValidityDuration: 3 * time.Minute,
			ReaperInterval:               time.Hour,
			RatesAPIURL:                  "http://defaults",
			RatesAPIKey:                  "defaultkey",
			RatesRefreshInterval:         time.Hour,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://defaults", cfg.DatabaseDSN)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, 2*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 3*time.Minute, cfg.RefreshTokenValidityDuration)
		assert.Equal(t, time.Hour, cfg.ReaperInterval)
		assert.Equal(t, "http://defaults", cfg.RatesAPIURL)
		assert.Equal(t, "defaultkey", cfg.RatesAPIKey)
		assert.Equal(t, time.Hour, cfg.RatesRefreshInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
