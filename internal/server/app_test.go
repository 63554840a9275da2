package server

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/logging"
	"github.com/dmitrijs2005/teamdeck/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrGRPC = "127.0.0.1:0"
	return c
}

func TestNewApp_MemoryBackend(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(), logging.Discard())
	require.NoError(t, err)
	assert.Nil(t, app.db)
	assert.NotNil(t, app.identity)
}

func TestNewApp_BadDSN(t *testing.T) {
	c := testConfig()
	c.DatabaseDSN = "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewApp(ctx, c, logging.Discard())
	assert.ErrorContains(t, err, "db init error")
}

func TestRun_StopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(), logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
}

func TestRun_ListenError(t *testing.T) {
	c := testConfig()
	c.EndpointAddrGRPC = "127.0.0.1:99999"
	app, err := NewApp(context.Background(), c, logging.Discard())
	require.NoError(t, err)

	assert.Error(t, app.Run(context.Background()))
}
