package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/client/authority"
	"github.com/dmitrijs2005/teamdeck/internal/client/config"
	"github.com/dmitrijs2005/teamdeck/internal/client/roster"
	"github.com/dmitrijs2005/teamdeck/internal/client/services"
	"github.com/dmitrijs2005/teamdeck/internal/client/storage"
	"github.com/dmitrijs2005/teamdeck/internal/logging"
	"github.com/dmitrijs2005/teamdeck/internal/timex"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const onlineCheckInterval = 30 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	authService services.AuthService
	store       storage.Storage
	carousel    *roster.Carousel
	images      *roster.ImagePool
	sched       timex.Scheduler
	reader      *bufio.Reader
	out         io.Writer

	modeMu sync.Mutex
	Mode   Mode

	signedIn atomic.Bool
	// set while a command that reports its own outcome is running
	quiet atomic.Bool
}

// NewApp wires local storage, the authority client, the auth store and the
// roster carousel. A storage that cannot be opened is replaced by
// storage.Disabled; the store then refuses auth operations with a warning.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	a := &App{
		config: c,
		logger: logger.With("module", "cli"),
		sched:  timex.RealScheduler{},
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	store, err := storage.Open(ctx, c.StoragePath)
	if err != nil {
		a.logger.Warn(ctx, "local storage unavailable", "path", c.StoragePath, "error", err)
		a.store = storage.Disabled{}
	} else {
		a.store = store
	}

	client, err := authority.NewGRPCClient(c.ServerEndpointAddr, authority.WithTimeout(c.RequestTimeout))
	if err != nil {
		a.closeStore()
		return nil, fmt.Errorf("authority client: %w", err)
	}

	a.authService = services.NewAuthService(client, a.store,
		services.WithLogger(logger),
		services.WithNotifier(func(msg string) { fmt.Fprintln(a.out, "Warning:", msg) }),
	)

	r, err := loadRoster(c.RosterFile)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	fetchers := roster.DefaultFetchers(&http.Client{Timeout: c.RequestTimeout})
	s3f, err := roster.NewS3Fetcher(ctx, roster.S3Config{
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
	})
	if err != nil {
		a.logger.Warn(ctx, "s3 portraits disabled", "error", err)
	} else {
		fetchers["s3"] = s3f
	}

	a.images = roster.NewImagePool(fetchers,
		roster.WithMaxRetries(c.ImageMaxRetries),
		roster.WithRetryDelay(c.ImageRetryDelay),
		roster.WithLoaderLogger(logger),
	)

	a.carousel, err = roster.NewCarousel(r,
		roster.WithInterval(c.RotationInterval),
		roster.WithCarouselLogger(logger),
		roster.OnChange(func(_ int, m roster.Member) { a.prefetch(m) }),
	)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	return a, nil
}

func loadRoster(path string) (*roster.Roster, error) {
	if path == "" {
		return roster.Default(), nil
	}
	return roster.LoadFile(path)
}

// Run hydrates the auth store, verifies the held session, starts the
// carousel and blocks in the REPL until the user exits or ctx ends.
func (a *App) Run(ctx context.Context) {
	defer a.close(ctx)

	a.authService.Hydrate(ctx)
	unsubscribe := a.watchAuth()
	defer unsubscribe()

	if err := a.authService.VerifySession(ctx); err != nil {
		a.logger.Warn(ctx, "session verification skipped", "error", err)
	}

	a.prefetch(a.carousel.Current())
	a.carousel.Start()

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(wctx, onlineCheckInterval)

	fmt.Fprintln(a.out, "Welcome to TeamDeck (type 'help' for commands)")
	a.printCurrent()
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}

// prefetch starts loading a member's portrait.
func (a *App) prefetch(m roster.Member) {
	if m.Image != "" {
		a.images.Get(m.Image)
	}
}

func (a *App) close(ctx context.Context) {
	if a.carousel != nil {
		a.carousel.Stop()
	}
	if a.images != nil {
		a.images.Close()
	}
	if a.authService != nil {
		if err := a.authService.Close(ctx); err != nil {
			a.logger.Warn(ctx, "closing authority client", "error", err)
		}
	}
	a.closeStore()
}

func (a *App) closeStore() {
	if c, ok := a.store.(io.Closer); ok {
		_ = c.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.State().SignedIn()
}

func (a *App) getMode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.Mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.Mode != mode {
		a.Mode = mode
		a.logger.Info(ctx, "connectivity changed", "mode", mode)
	}
}

// getStatus renders the prompt status, e.g. "(alice online)".
func (a *App) getStatus() string {
	s := ""
	if v := a.authService.View(); v.User != nil {
		s = v.User.Name + " "
	}
	if m := a.getMode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// checkOnline pings the authority once and records the outcome in Mode.
func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.authService.Ping(pctx); err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// StartOnlineStatusWatcher pings the authority every interval until ctx is
// done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)
	t := a.sched.Every(interval, func() { a.checkOnline(ctx) })
	<-ctx.Done()
	t.Stop()
}

// watchAuth subscribes to the auth store and tells the user when the session
// is lost outside of an explicit logout, verify or reset.
func (a *App) watchAuth() (unsubscribe func()) {
	a.signedIn.Store(a.authService.State().SignedIn())
	return a.authService.Subscribe(func(s services.State) {
		was := a.signedIn.Swap(s.SignedIn())
		if was && !s.SignedIn() && !a.quiet.Load() {
			fmt.Fprintln(a.out, "Your session has ended, please log in again.")
		}
	})
}

// reporting marks the start of a command that prints its own auth outcome.
func (a *App) reporting() (done func()) {
	a.quiet.Store(true)
	return func() { a.quiet.Store(false) }
}
