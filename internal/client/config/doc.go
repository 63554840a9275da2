// Package config loads runtime configuration for the TeamDeck CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. TEAMDECK_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     address:port of the identity authority gRPC endpoint
//	-s string     local storage database path
//	-r string     roster YAML file
//	-i duration   carousel rotation interval
//	-l string     log level
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "8s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "storage_path": "/home/me/.config/teamdeck/client.db",
//	  "roster_file": "team.yaml",
//	  "rotation_interval": "8s",
//	  "image_retry_delay": "1s",
//	  "image_max_retries": 2,
//	  "request_timeout": "12s",
//	  "s3_region": "us-east-1",
//	  "s3_base_endpoint": "http://127.0.0.1:9000",
//	  "log_level": "info"
//	}
//
// # Environment
//
// Each field maps to TEAMDECK_<NAME>, e.g. TEAMDECK_SERVER_ENDPOINT_ADDR,
// TEAMDECK_STORAGE_PATH or TEAMDECK_ROTATION_INTERVAL=10s.
package config
