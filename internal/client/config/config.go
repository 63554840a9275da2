package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the TeamDeck CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the identity authority gRPC endpoint.
//   - StoragePath: SQLite file holding the persisted auth state.
//   - RosterFile: optional YAML roster; empty means the built-in roster.
//   - RotationInterval: how long each member stays on screen.
//   - ImageRetryDelay, ImageMaxRetries: portrait load retry policy.
//   - RequestTimeout: bound for a single authority call.
//   - S3*: settings for s3:// portrait sources.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerEndpointAddr string        `env:"SERVER_ENDPOINT_ADDR"`
	StoragePath        string        `env:"STORAGE_PATH"`
	RosterFile         string        `env:"ROSTER_FILE"`
	RotationInterval   time.Duration `env:"ROTATION_INTERVAL"`
	ImageRetryDelay    time.Duration `env:"IMAGE_RETRY_DELAY"`
	ImageMaxRetries    int           `env:"IMAGE_MAX_RETRIES"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT"`
	S3Region           string        `env:"S3_REGION"`
	S3BaseEndpoint     string        `env:"S3_BASE_ENDPOINT"`
	S3AccessKey        string        `env:"S3_ACCESS_KEY"`
	S3SecretKey        string        `env:"S3_SECRET_KEY"`
	LogLevel           string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.StoragePath = defaultStoragePath()
	c.RosterFile = ""
	c.RotationInterval = 8 * time.Second
	c.ImageRetryDelay = 1 * time.Second
	c.ImageMaxRetries = 2
	c.RequestTimeout = 12 * time.Second
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.S3AccessKey = ""
	c.S3SecretKey = ""
	c.LogLevel = "warn"
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "teamdeck.db"
	}
	return filepath.Join(dir, "teamdeck", "client.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
