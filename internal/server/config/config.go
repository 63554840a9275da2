// Package config handles configuration for the reference identity
// authority: defaults, a JSON overlay, environment variables and
// command-line flags.
package config

import "time"

// Config holds runtime settings for the identity authority.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps everything in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - JWTValidity: lifetime of tokens minted by CreateJWT.
//   - SessionValidity: lifetime of sessions created by CreateSession.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrGRPC string        `env:"ENDPOINT_ADDR_GRPC"`
	DatabaseDSN      string        `env:"DATABASE_DSN"`
	SecretKey        string        `env:"SECRET_KEY"`
	JWTValidity      time.Duration `env:"JWT_VALIDITY"`
	SessionValidity  time.Duration `env:"SESSION_VALIDITY"`
	LogLevel         string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.JWTValidity = 15 * time.Minute
	c.SessionValidity = 30 * 24 * time.Hour
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
