package config

import (
	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read by the client.
const EnvPrefix = "TEAMDECK_"

// parseEnv overlays Config with TEAMDECK_* environment variables. Unset
// variables leave fields untouched. Panics on malformed values.
func parseEnv(cfg *Config) {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(err)
	}
}
