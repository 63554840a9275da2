package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/client/config"
	"github.com/dmitrijs2005/teamdeck/internal/client/models"
	"github.com/dmitrijs2005/teamdeck/internal/client/services"
	"github.com/dmitrijs2005/teamdeck/internal/client/storage"
	"github.com/dmitrijs2005/teamdeck/internal/logging"
	"github.com/dmitrijs2005/teamdeck/internal/timex/timextest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.StoragePath = filepath.Join(t.TempDir(), "client.db")
	c.ServerEndpointAddr = "127.0.0.1:1"
	c.S3AccessKey, c.S3SecretKey = "test", "test"
	return c
}

func TestGetStatus(t *testing.T) {
	f := &fakeAuth{}
	a := &App{authService: f, logger: logging.Discard()}
	assert.Equal(t, "", a.getStatus())

	a.setMode(context.Background(), ModeOffline)
	assert.Equal(t, "(offline)", a.getStatus())

	f.state.User = &models.User{Name: "alice"}
	a.setMode(context.Background(), ModeOnline)
	assert.Equal(t, "(alice online)", a.getStatus())
}

func TestIsLoggedIn(t *testing.T) {
	f := &fakeAuth{}
	a := &App{authService: f}
	assert.False(t, a.isLoggedIn())

	f.state.Session = &models.Session{ID: "s1"}
	assert.True(t, a.isLoggedIn())
}

func TestOnlineStatusWatcher(t *testing.T) {
	sched := timextest.New()
	f := &fakeAuth{}
	a := &App{authService: f, logger: logging.Discard(), sched: sched}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, time.Minute)
		close(done)
	}()

	require.Eventually(t, func() bool { return sched.Pending() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, ModeOnline, a.getMode())

	f.pingErr = errors.New("down")
	sched.Advance(time.Minute)
	assert.Equal(t, ModeOffline, a.getMode())

	f.pingErr = nil
	sched.Advance(time.Minute)
	assert.Equal(t, ModeOnline, a.getMode())

	cancel()
	<-done
	assert.Equal(t, 0, sched.Pending())
}

func TestNewApp_WiresComponents(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)

	a, err := NewApp(ctx, c, logging.Discard())
	require.NoError(t, err)
	defer a.close(ctx)

	_, ok := a.store.(*storage.SQLiteStorage)
	assert.True(t, ok, "expected sqlite storage, got %T", a.store)
	assert.Equal(t, 5, a.carousel.Len())
	assert.Equal(t, "Director", a.carousel.Current().Role)
	assert.Equal(t, services.View{Loading: true}, a.authService.View())
}

func TestNewApp_FallsBackToDisabledStorage(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	c.StoragePath = filepath.Join(blocker, "sub", "client.db")

	a, err := NewApp(ctx, c, logging.Discard())
	require.NoError(t, err)
	defer a.close(ctx)

	assert.Equal(t, storage.Disabled{}, a.store)

	var out bytes.Buffer
	a.out = &out
	a.reader = rdr("")
	stubInputs(t, []string{"a@b.c"}, []byte("pw"))
	require.NoError(t, a.Login(ctx))
	assert.Contains(t, out.String(), "Warning: "+services.StorageUnavailableMessage)
	assert.False(t, a.isLoggedIn())
}

func TestNewApp_RosterFile(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)

	c.RosterFile = filepath.Join(t.TempDir(), "team.yaml")
	require.NoError(t, os.WriteFile(c.RosterFile, []byte(
		"members:\n  - name: Ada\n    role: Engineer\n  - name: Bob\n    role: Designer\n"), 0o600))

	a, err := NewApp(ctx, c, logging.Discard())
	require.NoError(t, err)
	defer a.close(ctx)
	assert.Equal(t, 2, a.carousel.Len())

	c.RosterFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = NewApp(ctx, c, logging.Discard())
	assert.ErrorContains(t, err, "open roster")
}
