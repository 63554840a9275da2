// Package services contains application services for the TeamDeck client.
// This file defines the authentication store: the single holder of the
// client's auth state, kept in sync with the identity authority and
// persisted to local storage.
package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/teamdeck/internal/client/authority"
	"github.com/dmitrijs2005/teamdeck/internal/client/models"
	"github.com/dmitrijs2005/teamdeck/internal/client/persist"
	"github.com/dmitrijs2005/teamdeck/internal/client/storage"
	"github.com/dmitrijs2005/teamdeck/internal/common"
	"github.com/dmitrijs2005/teamdeck/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// AuthService is the client's auth state store.
//
// Contract:
//   - Hydrate: read the persisted state back once; Hydrated becomes true.
//   - VerifySession: confirm the held session with the authority; on any
//     failure the session, token and user are cleared together.
//   - Login: create a session, fetch the profile and mint a JWT; state is
//     either fully populated or left untouched.
//   - CreateAccount: register a new identity without signing in.
//   - Logout: invalidate all sessions; a failure leaves state untouched.
//   - Reset: wipe the persisted slot and reload.
//
// VerifySession, Login and Logout run one at a time; overlapping calls fail
// with ErrBusy. Remote failures in VerifySession and Logout are logged, not
// returned; callers observe the outcome through State.
type AuthService interface {
	Hydrate(ctx context.Context)
	VerifySession(ctx context.Context) error
	Login(ctx context.Context, email, password string) error
	CreateAccount(ctx context.Context, name, email, password string) error
	Logout(ctx context.Context) error
	Reset(ctx context.Context) error

	View() View
	State() State
	// Subscribe registers fn to receive a copy of the state after every
	// mutation. The returned func unregisters it.
	Subscribe(fn func(State)) (unsubscribe func())

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Reloader re-initializes the client after Reset.
type Reloader func(ctx context.Context) error

type Option func(*authService)

func WithLogger(l logging.Logger) Option {
	return func(a *authService) { a.logger = l }
}

// WithNotifier sets where user-facing warnings go. By default they are
// logged.
func WithNotifier(fn func(msg string)) Option {
	return func(a *authService) { a.notify = fn }
}

// WithReloader replaces the default reload (Hydrate) run by Reset.
func WithReloader(r Reloader) Option {
	return func(a *authService) { a.reloader = r }
}

type authService struct {
	authority authority.Authority
	store     storage.Storage
	slot      *persist.Slot[State]
	logger    logging.Logger
	notify    func(msg string)
	reloader  Reloader

	inflight atomic.Bool

	mu        sync.Mutex
	state     State
	gen       uint64 // bumped by Reset
	listeners map[int]func(State)
	nextID    int
}

// NewAuthService constructs the store over an authority client and a local
// storage. Call Hydrate before use.
func NewAuthService(auth authority.Authority, store storage.Storage, opts ...Option) AuthService {
	a := &authService{
		authority: auth,
		store:     store,
		logger:    logging.Discard(),
		listeners: make(map[int]func(State)),
	}
	for _, o := range opts {
		o(a)
	}
	a.logger = a.logger.With("module", "auth")
	a.slot = persist.NewSlot[State](store, StorageSlotName, StorageVersion, a.logger)
	if a.notify == nil {
		a.notify = func(msg string) { a.logger.Warn(context.Background(), msg) }
	}
	if a.reloader == nil {
		a.reloader = func(ctx context.Context) error {
			a.Hydrate(ctx)
			return nil
		}
	}
	return a
}

// update applies fn to the state, persists the result and notifies
// listeners. Every mutation goes through here.
func (a *authService) update(ctx context.Context, fn func(s *State)) {
	a.mu.Lock()
	fn(&a.state)
	snapshot := a.state.clone()
	a.slot.Save(ctx, snapshot)
	listeners := a.snapshotListeners()
	a.mu.Unlock()

	a.publish(snapshot, listeners)
}

// generation returns the current reset generation. Operations capture it
// after acquire and commit their results with updateIf.
func (a *authService) generation() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gen
}

// updateIf is update guarded by the reset generation: when Reset ran since
// gen was captured, nothing is written and false is returned.
func (a *authService) updateIf(ctx context.Context, gen uint64, fn func(s *State)) bool {
	a.mu.Lock()
	if a.gen != gen {
		a.mu.Unlock()
		return false
	}
	fn(&a.state)
	snapshot := a.state.clone()
	a.slot.Save(ctx, snapshot)
	listeners := a.snapshotListeners()
	a.mu.Unlock()

	a.publish(snapshot, listeners)
	return true
}

func (a *authService) snapshotListeners() []func(State) {
	ls := make([]func(State), 0, len(a.listeners))
	for _, fn := range a.listeners {
		ls = append(ls, fn)
	}
	return ls
}

func (a *authService) publish(s State, listeners []func(State)) {
	for _, fn := range listeners {
		fn(s.clone())
	}
}

func (a *authService) setLoading(ctx context.Context, gen uint64, v bool) {
	a.updateIf(ctx, gen, func(s *State) { s.Loading = v })
}

// acquire claims the single in-flight slot.
func (a *authService) acquire() (release func(), err error) {
	if !a.inflight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	return func() { a.inflight.Store(false) }, nil
}

// storageGuard refuses to continue when local storage cannot be written:
// the user is warned and the auth state is cleared.
func (a *authService) storageGuard(ctx context.Context) error {
	if storage.Available(ctx, a.store) {
		return nil
	}

	a.notify(StorageUnavailableMessage)
	a.update(ctx, func(s *State) {
		s.clearAuth()
		s.Loading = false
	})
	return ErrStorageUnavailable
}

func (a *authService) Hydrate(ctx context.Context) {
	a.mu.Lock()
	hydrated := a.state.Hydrated
	a.mu.Unlock()
	if hydrated {
		return
	}

	restored, ok := a.slot.Load(ctx)
	if !ok {
		restored = State{}
	}
	// nothing can be in flight at startup
	restored.Loading = false
	restored.Hydrated = true

	if restored.Session != nil {
		a.authority.SetSession(restored.Session.Secret)
	}

	a.update(ctx, func(s *State) { *s = restored })
	a.logger.Debug(ctx, "auth state hydrated", "restored", ok, "signed_in", restored.SignedIn())
}

func (a *authService) VerifySession(ctx context.Context) error {
	release, err := a.acquire()
	if err != nil {
		return err
	}
	defer release()

	gen := a.generation()
	if err := a.storageGuard(ctx); err != nil {
		return err
	}

	a.setLoading(ctx, gen, true)

	sess, err := a.authority.GetSession(ctx, common.CurrentSessionID)
	if err != nil {
		a.logger.Info(ctx, "session verification failed", "error", err)
		a.authority.SetSession("")
		a.updateIf(ctx, gen, func(s *State) {
			s.clearAuth()
			s.Loading = false
		})
		return nil
	}

	if !a.updateIf(ctx, gen, func(s *State) {
		s.Session = sess
		s.Loading = false
	}) {
		a.logger.Info(ctx, "session verification discarded after reset")
	}
	return nil
}

func (a *authService) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrEmptyCredentials
	}

	release, err := a.acquire()
	if err != nil {
		return err
	}
	defer release()

	gen := a.generation()
	if err := a.storageGuard(ctx); err != nil {
		return err
	}

	a.setLoading(ctx, gen, true)

	prior := a.authority.Session()
	sess, user, jwt, err := a.signIn(ctx, email, password)
	if err != nil {
		a.restoreSession(gen, prior)
		a.logger.Warn(ctx, "login failed", "error", err)
		a.setLoading(ctx, gen, false)
		return failure("login", err)
	}

	committed := a.updateIf(ctx, gen, func(s *State) {
		s.Session = sess
		s.User = user
		s.JWT = jwt
		s.Loading = false
	})
	if !committed {
		a.restoreSession(gen, prior)
		a.logger.Warn(ctx, "login discarded after reset", "user_id", user.ID)
		return ErrReset
	}
	a.logger.Info(ctx, "logged in", "user_id", user.ID)
	return nil
}

// restoreSession hands prior back to the authority client, or clears it
// when Reset ran in the meantime.
func (a *authService) restoreSession(gen uint64, prior string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen != gen {
		prior = ""
	}
	a.authority.SetSession(prior)
}

// signIn runs the remote half of Login without touching state.
func (a *authService) signIn(ctx context.Context, email, password string) (*models.Session, *models.User, string, error) {
	sess, err := a.authority.CreateSession(ctx, email, password)
	if err != nil {
		return nil, nil, "", fmt.Errorf("create session: %w", err)
	}

	var (
		user *models.User
		jwt  string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := a.authority.GetAccount(gctx)
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}
		user = u
		return nil
	})
	g.Go(func() error {
		t, err := a.authority.CreateJWT(gctx)
		if err != nil {
			return fmt.Errorf("create jwt: %w", err)
		}
		jwt = t
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, "", err
	}

	if _, ok := user.Prefs[models.PrefReputation]; !ok {
		u, err := a.authority.UpdatePrefs(ctx, user.Prefs.WithReputation(0))
		if err != nil {
			return nil, nil, "", fmt.Errorf("update prefs: %w", err)
		}
		user = u
	}

	return sess, user, jwt, nil
}

func (a *authService) CreateAccount(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return ErrEmptyCredentials
	}
	if err := a.storageGuard(ctx); err != nil {
		return err
	}

	user, err := a.authority.CreateUser(ctx, uuid.NewString(), email, password, name)
	if err != nil {
		a.logger.Warn(ctx, "account creation failed", "error", err)
		return failure("create account", err)
	}

	a.logger.Info(ctx, "account created", "user_id", user.ID)
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	release, err := a.acquire()
	if err != nil {
		return err
	}
	defer release()

	gen := a.generation()
	a.setLoading(ctx, gen, true)

	if err := a.authority.DeleteSessions(ctx); err != nil {
		a.logger.Error(ctx, "logout failed", "error", err)
		a.setLoading(ctx, gen, false)
		return nil
	}

	a.updateIf(ctx, gen, func(s *State) {
		s.clearAuth()
		s.Loading = false
	})
	return nil
}

// Reset removes the persisted slot, drops the in-memory state and runs the
// reloader. It is never rejected with ErrBusy; an operation still in flight
// finishes without writing its result.
func (a *authService) Reset(ctx context.Context) error {
	a.mu.Lock()
	a.gen++
	a.slot.Clear(ctx)
	a.authority.SetSession("")
	a.state = State{}
	snapshot := a.state.clone()
	listeners := a.snapshotListeners()
	a.mu.Unlock()
	a.publish(snapshot, listeners)

	a.logger.Warn(ctx, "auth state reset")
	if err := a.reloader(ctx); err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	return nil
}

func (a *authService) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.state.Hydrated {
		return pendingView
	}
	return View{User: a.state.User.Clone(), Hydrated: true, Loading: a.state.Loading}
}

func (a *authService) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.clone()
}

func (a *authService) Subscribe(fn func(State)) func() {
	a.mu.Lock()
	id := a.nextID
	a.nextID++
	a.listeners[id] = fn
	a.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			a.mu.Lock()
			delete(a.listeners, id)
			a.mu.Unlock()
		})
	}
}

// Ping proxies a liveness check to the authority.
func (a *authService) Ping(ctx context.Context) error {
	return a.authority.Ping(ctx)
}

// Close drops listeners and releases the authority client.
func (a *authService) Close(ctx context.Context) error {
	a.mu.Lock()
	clear(a.listeners)
	a.mu.Unlock()
	return a.authority.Close()
}

// failure keeps authority-originated errors as they are and wraps the rest
// in ErrFailed.
func failure(op string, err error) error {
	if aerr, ok := authority.AsError(err); ok {
		return aerr
	}
	return fmt.Errorf("%s: %w: %w", op, ErrFailed, err)
}
