package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/client/authority"
	"github.com/dmitrijs2005/teamdeck/internal/client/models"
	"github.com/dmitrijs2005/teamdeck/internal/client/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubInputs(t *testing.T, texts []string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if len(texts) == 0 {
			return "", io.EOF
		}
		s := texts[0]
		texts = texts[1:]
		return s, nil
	}
	getPassword = func(_ *bufio.Reader, _ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

type fakeAuth struct {
	state services.State

	createName, createEmail, createPass string
	createErr                           error

	loginEmail, loginPass string
	loginUser             *models.User
	loginErr              error

	logoutErr   error
	logoutKeeps bool

	verifyErr  error
	verifyKeep bool

	resetCalled bool
	resetErr    error

	pingErr error

	listener func(services.State)
}

func (f *fakeAuth) Hydrate(context.Context) { f.state.Hydrated = true }
func (f *fakeAuth) VerifySession(context.Context) error {
	if f.verifyErr != nil {
		return f.verifyErr
	}
	if !f.verifyKeep {
		f.state.Session, f.state.User, f.state.JWT = nil, nil, ""
		f.publish()
	}
	return nil
}
func (f *fakeAuth) Login(_ context.Context, email, password string) error {
	f.loginEmail, f.loginPass = email, password
	if f.loginErr != nil {
		return f.loginErr
	}
	f.state.Session = &models.Session{ID: "s1"}
	f.state.User = f.loginUser
	f.publish()
	return nil
}
func (f *fakeAuth) CreateAccount(_ context.Context, name, email, password string) error {
	f.createName, f.createEmail, f.createPass = name, email, password
	return f.createErr
}
func (f *fakeAuth) Logout(context.Context) error {
	if f.logoutErr != nil {
		return f.logoutErr
	}
	if !f.logoutKeeps {
		f.state.Session, f.state.User, f.state.JWT = nil, nil, ""
		f.publish()
	}
	return nil
}
func (f *fakeAuth) Reset(context.Context) error {
	f.resetCalled = true
	if f.resetErr != nil {
		return f.resetErr
	}
	f.state = services.State{}
	f.publish()
	return nil
}
func (f *fakeAuth) View() services.View {
	return services.View{User: f.state.User, Hydrated: f.state.Hydrated, Loading: f.state.Loading}
}
func (f *fakeAuth) State() services.State                { return f.state }
func (f *fakeAuth) Subscribe(fn func(services.State)) func() {
	f.listener = fn
	return func() { f.listener = nil }
}
func (f *fakeAuth) Ping(context.Context) error  { return f.pingErr }
func (f *fakeAuth) Close(context.Context) error { return nil }

func (f *fakeAuth) publish() {
	if f.listener != nil {
		f.listener(f.state)
	}
}

func newAuthApp(f *fakeAuth, input string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{authService: f, reader: rdr(input), out: &out}, &out
}

func TestRegister_Success(t *testing.T) {
	f := &fakeAuth{}
	a, out := newAuthApp(f, "")
	pw := []byte("secret")
	stubInputs(t, []string{"Alice", "alice@example.org"}, pw)

	require.NoError(t, a.Register(context.Background()))
	assert.Equal(t, "Alice", f.createName)
	assert.Equal(t, "alice@example.org", f.createEmail)
	assert.Equal(t, "secret", f.createPass)
	assert.Equal(t, make([]byte, len(pw)), pw, "password must be wiped")
	assert.Contains(t, out.String(), "Account created")
}

func TestRegister_Conflict(t *testing.T) {
	f := &fakeAuth{createErr: &authority.Error{Kind: authority.KindConflict}}
	a, out := newAuthApp(f, "")
	stubInputs(t, []string{"Alice", "alice@example.org"}, []byte("pw"))

	require.NoError(t, a.Register(context.Background()))
	assert.Contains(t, out.String(), "already exists")
}

func TestRegister_InputError(t *testing.T) {
	f := &fakeAuth{}
	a, _ := newAuthApp(f, "")
	stubInputs(t, nil, []byte("pw"))

	assert.ErrorIs(t, a.Register(context.Background()), io.EOF)
	assert.Empty(t, f.createEmail)
}

func TestLogin_Success(t *testing.T) {
	f := &fakeAuth{loginUser: &models.User{ID: "u1", Name: "Alice"}}
	a, out := newAuthApp(f, "")
	pw := []byte("pw")
	stubInputs(t, []string{"alice@example.org"}, pw)

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "alice@example.org", f.loginEmail)
	assert.Equal(t, "pw", f.loginPass)
	assert.Equal(t, []byte{0, 0}, pw)
	assert.True(t, a.isLoggedIn())
	assert.Contains(t, out.String(), "Welcome, Alice!")
}

func TestLogin_FailuresAreDescribed(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", &authority.Error{Kind: authority.KindUnauthorized}, "Invalid email or password."},
		{"busy", services.ErrBusy, "still running"},
		{"empty", services.ErrEmptyCredentials, "required"},
		{"storage", services.ErrStorageUnavailable, "local storage"},
		{"reset", services.ErrReset, "cancelled"},
		{"rate limited", &authority.Error{Kind: authority.KindRateLimited}, "Too many attempts"},
		{"unavailable", &authority.Error{Kind: authority.KindUnavailable}, "unreachable"},
		{"other", errors.New("boom"), "Unexpected error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeAuth{loginErr: tt.err}
			a, out := newAuthApp(f, "")
			stubInputs(t, []string{"a@b.c"}, []byte("pw"))

			require.NoError(t, a.Login(context.Background()))
			assert.Contains(t, out.String(), tt.want)
			assert.False(t, a.isLoggedIn())
		})
	}
}

func TestLogout(t *testing.T) {
	signedIn := services.State{Session: &models.Session{ID: "s1"}, User: &models.User{Name: "Alice"}}

	t.Run("success", func(t *testing.T) {
		f := &fakeAuth{state: signedIn}
		a, out := newAuthApp(f, "")
		require.NoError(t, a.Logout(context.Background()))
		assert.Contains(t, out.String(), "Signed out.")
		assert.False(t, a.isLoggedIn())
	})

	t.Run("remote failure keeps session", func(t *testing.T) {
		f := &fakeAuth{state: signedIn, logoutKeeps: true}
		a, out := newAuthApp(f, "")
		require.NoError(t, a.Logout(context.Background()))
		assert.Contains(t, out.String(), "still signed in")
	})

	t.Run("busy", func(t *testing.T) {
		f := &fakeAuth{state: signedIn, logoutErr: services.ErrBusy}
		a, out := newAuthApp(f, "")
		require.NoError(t, a.Logout(context.Background()))
		assert.Contains(t, out.String(), "still running")
	})
}

func TestVerify(t *testing.T) {
	signedIn := services.State{Session: &models.Session{ID: "s1"}}

	f := &fakeAuth{state: signedIn, verifyKeep: true}
	a, out := newAuthApp(f, "")
	require.NoError(t, a.Verify(context.Background()))
	assert.Contains(t, out.String(), "Session is valid.")

	f = &fakeAuth{state: signedIn}
	a, out = newAuthApp(f, "")
	require.NoError(t, a.Verify(context.Background()))
	assert.Contains(t, out.String(), "No valid session.")

	f = &fakeAuth{verifyErr: services.ErrStorageUnavailable}
	a, out = newAuthApp(f, "")
	require.NoError(t, a.Verify(context.Background()))
	assert.Contains(t, out.String(), "local storage")
}

func TestWhoAmI(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	f := &fakeAuth{state: services.State{
		Session: &models.Session{ID: "s1"},
		JWT:     token,
		User: &models.User{
			ID:    "u1",
			Name:  "Alice",
			Email: "alice@example.org",
			Prefs: models.Prefs{models.PrefReputation: float64(3)},
		},
	}}
	a, out := newAuthApp(f, "")
	require.NoError(t, a.WhoAmI(context.Background()))

	s := out.String()
	assert.Contains(t, s, "Name:  Alice")
	assert.Contains(t, s, "Email: alice@example.org")
	assert.Contains(t, s, "Reputation: 3")
	assert.Contains(t, s, "Token expires: "+exp.Local().Format(time.RFC1123))
}

func TestWhoAmI_SignedOut(t *testing.T) {
	a, out := newAuthApp(&fakeAuth{}, "")
	require.NoError(t, a.WhoAmI(context.Background()))
	assert.Contains(t, out.String(), "Not signed in.")
}

func TestTokenExpiry(t *testing.T) {
	_, ok := tokenExpiry("")
	assert.False(t, ok)

	_, ok = tokenExpiry("not-a-jwt")
	assert.False(t, ok)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u1"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, ok = tokenExpiry(noExp)
	assert.False(t, ok)
}

func TestReset(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		f := &fakeAuth{}
		a, out := newAuthApp(f, "")
		stubInputs(t, []string{"yes"}, nil)
		require.NoError(t, a.Reset(context.Background()))
		assert.True(t, f.resetCalled)
		assert.Contains(t, out.String(), "Saved sign-in cleared.")
	})

	t.Run("declined", func(t *testing.T) {
		f := &fakeAuth{}
		a, out := newAuthApp(f, "")
		stubInputs(t, []string{"no"}, nil)
		require.NoError(t, a.Reset(context.Background()))
		assert.False(t, f.resetCalled)
		assert.Contains(t, out.String(), "Cancelled.")
	})

	t.Run("reload error", func(t *testing.T) {
		f := &fakeAuth{resetErr: errors.New("reload: boom")}
		a, _ := newAuthApp(f, "")
		stubInputs(t, []string{"y"}, nil)
		assert.EqualError(t, a.Reset(context.Background()), "reload: boom")
	})
}

func TestWatchAuth_NoticesLostSession(t *testing.T) {
	signedIn := services.State{Session: &models.Session{ID: "s1"}}
	notice := "Your session has ended"

	t.Run("session dropped outside a command", func(t *testing.T) {
		f := &fakeAuth{state: signedIn}
		a, out := newAuthApp(f, "")
		unsubscribe := a.watchAuth()

		require.NoError(t, f.VerifySession(context.Background()))
		assert.Contains(t, out.String(), notice)

		unsubscribe()
		assert.Nil(t, f.listener)
	})

	t.Run("explicit logout stays quiet", func(t *testing.T) {
		f := &fakeAuth{state: signedIn}
		a, out := newAuthApp(f, "")
		defer a.watchAuth()()

		require.NoError(t, a.Logout(context.Background()))
		assert.Contains(t, out.String(), "Signed out.")
		assert.NotContains(t, out.String(), notice)
	})

	t.Run("verify command stays quiet", func(t *testing.T) {
		f := &fakeAuth{state: signedIn}
		a, out := newAuthApp(f, "")
		defer a.watchAuth()()

		require.NoError(t, a.Verify(context.Background()))
		assert.Contains(t, out.String(), "No valid session.")
		assert.NotContains(t, out.String(), notice)
	})

	t.Run("reset stays quiet", func(t *testing.T) {
		f := &fakeAuth{state: signedIn}
		a, out := newAuthApp(f, "")
		stubInputs(t, []string{"yes"}, nil)
		defer a.watchAuth()()

		require.NoError(t, a.Reset(context.Background()))
		assert.Contains(t, out.String(), "Saved sign-in cleared.")
		assert.NotContains(t, out.String(), notice)
	})

	t.Run("signed out start then login", func(t *testing.T) {
		f := &fakeAuth{}
		a, out := newAuthApp(f, "")
		defer a.watchAuth()()

		require.NoError(t, f.Login(context.Background(), "a@b.c", "password1"))
		require.NoError(t, f.VerifySession(context.Background()))
		assert.Contains(t, out.String(), notice)
	})
}
