package grpc

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/client/authority"
	"github.com/dmitrijs2005/teamdeck/internal/client/models"
	clientservices "github.com/dmitrijs2005/teamdeck/internal/client/services"
	"github.com/dmitrijs2005/teamdeck/internal/client/storage"
	"github.com/dmitrijs2005/teamdeck/internal/logging"
	"github.com/dmitrijs2005/teamdeck/internal/server/config"
	"github.com/dmitrijs2005/teamdeck/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/teamdeck/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

// startAuthority serves an in-memory identity authority over bufconn and
// returns a dialer for it.
func startAuthority(t *testing.T) func() *authority.GRPCClient {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	identity := services.NewIdentityService(nil, repomanager.NewMemoryRepositoryManager(), cfg)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewGRPCServer("bufnet", logging.Discard(), identity).Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	return func() *authority.GRPCClient {
		c, err := authority.NewGRPCClient("passthrough:///bufnet",
			authority.WithTimeout(5*time.Second),
			authority.WithDialOptions(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			})),
		)
		require.NoError(t, err)
		return c
	}
}

func openStore(t *testing.T, path string) *storage.SQLiteStorage {
	t.Helper()
	st, err := storage.Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestEndToEnd_SignInSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dial := startAuthority(t)
	dbPath := filepath.Join(t.TempDir(), "client.db")

	auth := clientservices.NewAuthService(dial(), openStore(t, dbPath))
	auth.Hydrate(ctx)
	require.NoError(t, auth.Ping(ctx))

	require.NoError(t, auth.CreateAccount(ctx, "Alice", "Alice@Example.org", "password1"))
	err := auth.CreateAccount(ctx, "Alice", "alice@example.org", "password1")
	assert.Equal(t, authority.KindConflict, authority.KindOf(err))

	err = auth.Login(ctx, "alice@example.org", "wrong-password")
	assert.Equal(t, authority.KindUnauthorized, authority.KindOf(err))
	assert.False(t, auth.State().SignedIn())

	require.NoError(t, auth.Login(ctx, "alice@example.org", "password1"))
	st := auth.State()
	require.True(t, st.SignedIn())
	assert.Equal(t, "Alice", st.User.Name)
	assert.Equal(t, float64(0), st.User.Prefs[models.PrefReputation])
	assert.NotEmpty(t, st.JWT)
	require.NoError(t, auth.Close(ctx))

	// a fresh process restores the saved sign-in and the authority confirms it
	again := clientservices.NewAuthService(dial(), openStore(t, dbPath))
	again.Hydrate(ctx)
	require.True(t, again.State().SignedIn())
	require.NoError(t, again.VerifySession(ctx))
	assert.True(t, again.State().SignedIn())
	assert.Equal(t, st.Session.ID, again.State().Session.ID)

	require.NoError(t, again.Logout(ctx))
	assert.False(t, again.State().SignedIn())

	// the old secret is gone on the authority side too
	c := dial()
	c.SetSession(st.Session.Secret)
	_, err = c.GetSession(ctx, "current")
	assert.Equal(t, authority.KindUnauthorized, authority.KindOf(err))
	require.NoError(t, c.Close())
	require.NoError(t, again.Close(ctx))
}

func TestEndToEnd_InvalidArguments(t *testing.T) {
	ctx := context.Background()
	dial := startAuthority(t)
	c := dial()
	defer c.Close()

	_, err := c.CreateUser(ctx, "unique()", "not-an-email", "password1", "A")
	assert.Equal(t, authority.KindInvalidArgument, authority.KindOf(err))

	_, err = c.CreateUser(ctx, "unique()", "a@example.org", "short", "A")
	assert.Equal(t, authority.KindInvalidArgument, authority.KindOf(err))

	_, err = c.GetAccount(ctx)
	assert.Equal(t, authority.KindUnauthorized, authority.KindOf(err))
}
