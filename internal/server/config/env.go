package config

import (
	"os"
	"time"
)

// parseEnv overlays Config fields from environment variables. Variables that
// are unset or empty leave the current value untouched; duration variables
// use time.ParseDuration syntax ("30m", "168h") and malformed values panic.
//
// Recognized variables:
//
//	ADDRESS                  HTTP bind address
//	DATABASE_DSN             PostgreSQL DSN
//	REDIS_ADDR               redis address for the rates snapshot
//	SECRET_KEY               JWT HMAC secret
//	ACCESS_TOKEN_VALIDITY    access token lifetime (duration)
//	REFRESH_TOKEN_VALIDITY   refresh token lifetime (duration)
//	REAPER_INTERVAL          revocation purge interval (duration)
//	RATES_API_URL            exchange-rate provider URL
//	RATES_API_KEY            exchange-rate provider API key
//	RATES_REFRESH_INTERVAL   snapshot refresh interval (duration)
func parseEnv(config *Config) {
	setEnvString(&config.EndpointAddrHTTP, "ADDRESS")
	setEnvString(&config.DatabaseDSN, "DATABASE_DSN")
	setEnvString(&config.RedisAddr, "REDIS_ADDR")
	setEnvString(&config.SecretKey, "SECRET_KEY")
	setEnvDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_VALIDITY")
	setEnvDuration(&config.RefreshTokenValidityDuration, "REFRESH_TOKEN_VALIDITY")
	setEnvDuration(&config.ReaperInterval, "REAPER_INTERVAL")
	setEnvString(&config.RatesAPIURL, "RATES_API_URL")
	setEnvString(&config.RatesAPIKey, "RATES_API_KEY")
	setEnvDuration(&config.RatesRefreshInterval, "RATES_REFRESH_INTERVAL")
}

func setEnvString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setEnvDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
