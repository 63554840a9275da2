package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/teamdeck/internal/flagx"
	"github.com/dmitrijs2005/teamdeck/internal/timex"
)

// JsonConfig is the DTO read from the JSON config file. Validity fields use
// timex.Duration, so "15m" and integer nanoseconds both parse.
type JsonConfig struct {
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	DatabaseDSN      string         `json:"database_dsn"`
	SecretKey        string         `json:"secret_key"`
	JWTValidity      timex.Duration `json:"jwt_validity"`
	SessionValidity  timex.Duration `json:"session_validity"`
	LogLevel         string         `json:"log_level"`
}

// parseJson overlays config with the JSON file named by -c or -config.
// Keys missing from the file keep their current value. If the file cannot
// be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	if c.EndpointAddrGRPC != "" {
		config.EndpointAddrGRPC = c.EndpointAddrGRPC
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.JWTValidity.Duration > 0 {
		config.JWTValidity = c.JWTValidity.Duration
	}
	if c.SessionValidity.Duration > 0 {
		config.SessionValidity = c.SessionValidity.Duration
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
