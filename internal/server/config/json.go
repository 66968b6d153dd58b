package config

import (
	"encoding/json"
	"os"

	"github.com/curexhq/curex/internal/flagx"
	"github.com/curexhq/curex/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON
// unmarshalling. It uses timex.Duration for interval fields, which allows
// parsing both string values such as "30m" and integer nanoseconds.
//
// This struct is an intermediate DTO used only for reading JSON
// configuration files; populated fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	RedisAddr                    string         `json:"redis_addr"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	ReaperInterval               timex.Duration `json:"reaper_interval"`
	RatesAPIURL                  string         `json:"rates_api_url"`
	RatesAPIKey                  string         `json:"rates_api_key"`
	RatesRefreshInterval         timex.Duration `json:"rates_refresh_interval"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path is taken from the -c or -config command-line flags;
// if neither is set, no JSON file is loaded. Only fields present in the
// file override the current values. If the file cannot be read or contains
// invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.ReaperInterval.Duration != 0 {
		config.ReaperInterval = c.ReaperInterval.Duration
	}
	if c.RatesAPIURL != "" {
		config.RatesAPIURL = c.RatesAPIURL
	}
	if c.RatesAPIKey != "" {
		config.RatesAPIKey = c.RatesAPIKey
	}
	if c.RatesRefreshInterval.Duration != 0 {
		config.RatesRefreshInterval = c.RatesRefreshInterval.Duration
	}
}
