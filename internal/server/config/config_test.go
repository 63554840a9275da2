package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "", c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 15*time.Minute, c.JWTValidity)
	assert.Equal(t, 30*24*time.Hour, c.SessionValidity)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, 15*time.Minute, c.JWTValidity)
	assert.Equal(t, 30*24*time.Hour, c.SessionValidity)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_grpc": "json:1",
		"database_dsn":       "postgres://json",
		"secret_key":         "json-secret",
		"jwt_validity":       "5m",
	})
	t.Setenv("TEAMDECK_SERVER_SECRET_KEY", "env-secret")
	t.Setenv("TEAMDECK_SERVER_JWT_VALIDITY", "7m")
	os.Args = []string{"testbin", "-c", path, "-a", "flag:2"}

	c := LoadConfig()

	assert.Equal(t, "flag:2", c.EndpointAddrGRPC)
	assert.Equal(t, "postgres://json", c.DatabaseDSN)
	assert.Equal(t, "env-secret", c.SecretKey)
	assert.Equal(t, 7*time.Minute, c.JWTValidity)
}
