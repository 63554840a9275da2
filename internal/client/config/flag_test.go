package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd", "-a", "127.0.0.1:9090", "-s", "/tmp/c.db", "-r", "team.yaml", "-i", "10s", "-l", "debug"},
			expected: &Config{
				ServerEndpointAddr: "127.0.0.1:9090",
				StoragePath:        "/tmp/c.db",
				RosterFile:         "team.yaml",
				RotationInterval:   10 * time.Second,
				LogLevel:           "debug",
			}},
		{name: "foreign flags ignored", args: []string{"cmd", "-c", "cfg.json", "-x", "-a", "h:1"},
			expected: &Config{ServerEndpointAddr: "h:1"}},
		{name: "bad interval", args: []string{"cmd", "-i", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
