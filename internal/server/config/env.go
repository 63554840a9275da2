package config

import "github.com/caarlos0/env/v11"

// EnvPrefix prefixes every environment variable read by the server.
const EnvPrefix = "TEAMDECK_SERVER_"

// parseEnv overlays config with TEAMDECK_SERVER_* variables. Panics on
// malformed values.
func parseEnv(config *Config) {
	if err := env.ParseWithOptions(config, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
