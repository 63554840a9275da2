package roster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/dmitrijs2005/teamdeck/internal/logging"
	"github.com/dmitrijs2005/teamdeck/internal/timex"
)

const (
	DefaultMaxRetries = 2
	DefaultRetryDelay = time.Second
)

type LoadState int

const (
	StateLoading LoadState = iota
	StateLoaded
	StateError
)

func (s LoadState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("LoadState(%d)", int(s))
	}
}

// ImageInfo describes a decoded image.
type ImageInfo struct {
	Format string
	Width  int
	Height int
	Bytes  int
}

// ImageLoader fetches and decodes one image source. It starts in
// StateLoading. A successful fetch and decode moves it to StateLoaded; a
// failure schedules another attempt after the retry delay until MaxRetries
// retries have been spent, after which it stays in StateError.
type ImageLoader struct {
	src        string
	fetcher    Fetcher
	sched      timex.Scheduler
	maxRetries int
	retryDelay time.Duration
	logger     logging.Logger
	onState    func(src string, st LoadState)

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	started  bool
	state    LoadState
	attempts int
	info     ImageInfo
	err      error
	timer    timex.Timer
	closed   bool
}

type LoaderOption func(*ImageLoader)

// WithMaxRetries sets how many retries follow the first attempt.
func WithMaxRetries(n int) LoaderOption {
	return func(l *ImageLoader) {
		if n >= 0 {
			l.maxRetries = n
		}
	}
}

func WithRetryDelay(d time.Duration) LoaderOption {
	return func(l *ImageLoader) {
		if d > 0 {
			l.retryDelay = d
		}
	}
}

func WithLoaderScheduler(s timex.Scheduler) LoaderOption {
	return func(l *ImageLoader) { l.sched = s }
}

func WithLoaderLogger(lg logging.Logger) LoaderOption {
	return func(l *ImageLoader) { l.logger = lg }
}

// OnStateChange registers fn to run when the loader reaches a terminal
// state.
func OnStateChange(fn func(src string, st LoadState)) LoaderOption {
	return func(l *ImageLoader) { l.onState = fn }
}

func NewImageLoader(src string, fetcher Fetcher, opts ...LoaderOption) *ImageLoader {
	l := &ImageLoader{
		src:        src,
		fetcher:    fetcher,
		sched:      timex.RealScheduler{},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		logger:     logging.Discard(),
		done:       make(chan struct{}),
	}
	for _, o := range opts {
		o(l)
	}
	l.logger = l.logger.With("module", "image", "src", src)
	l.ctx, l.cancel = context.WithCancel(context.Background())
	return l
}

// Start schedules the first attempt. Later calls are no-ops.
func (l *ImageLoader) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started || l.closed {
		return
	}
	l.started = true
	l.timer = l.sched.AfterFunc(0, l.attempt)
}

func (l *ImageLoader) attempt() {
	l.mu.Lock()
	if l.closed || l.state != StateLoading {
		l.mu.Unlock()
		return
	}
	l.attempts++
	n := l.attempts
	l.mu.Unlock()

	info, err := l.load()

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	switch {
	case err == nil:
		l.state = StateLoaded
		l.info = info
		l.err = nil
	case n <= l.maxRetries:
		l.err = err
		l.timer = l.sched.AfterFunc(l.retryDelay, l.attempt)
		l.mu.Unlock()
		l.logger.Debug(l.ctx, "image load failed, retrying", "attempt", n, "error", err)
		return
	default:
		l.state = StateError
		l.err = err
	}
	st := l.state
	l.mu.Unlock()

	if st == StateError {
		l.logger.Warn(l.ctx, "image load failed", "attempts", n, "error", err)
	}
	close(l.done)
	if l.onState != nil {
		l.onState(l.src, st)
	}
}

func (l *ImageLoader) load() (ImageInfo, error) {
	data, err := l.fetcher.Fetch(l.ctx, l.src)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("fetch: %w", err)
	}
	return decodeInfo(data)
}

func decodeInfo(data []byte) (ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("decode: %w", err)
	}
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height, Bytes: len(data)}, nil
}

func (l *ImageLoader) Source() string { return l.src }

func (l *ImageLoader) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Attempts reports how many loads have been tried so far.
func (l *ImageLoader) Attempts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.attempts
}

func (l *ImageLoader) Info() (ImageInfo, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.info, l.state == StateLoaded
}

// Err returns the last load error.
func (l *ImageLoader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Done is closed once the loader reaches StateLoaded or StateError.
func (l *ImageLoader) Done() <-chan struct{} { return l.done }

// Close cancels a pending retry and any in-flight fetch.
func (l *ImageLoader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
	}
	l.cancel()
}
