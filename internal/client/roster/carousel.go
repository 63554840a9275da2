package roster

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/logging"
	"github.com/dmitrijs2005/teamdeck/internal/timex"
)

const DefaultRotationInterval = 8 * time.Second

// Carousel holds the index of the current member and advances it
// round-robin on a timer.
type Carousel struct {
	members  []Member
	interval time.Duration
	sched    timex.Scheduler
	logger   logging.Logger
	onChange func(index int, m Member)

	mu    sync.Mutex
	index int
	timer timex.Timer
	gen   int
}

type CarouselOption func(*Carousel)

func WithInterval(d time.Duration) CarouselOption {
	return func(c *Carousel) {
		if d > 0 {
			c.interval = d
		}
	}
}

func WithScheduler(s timex.Scheduler) CarouselOption {
	return func(c *Carousel) { c.sched = s }
}

func WithCarouselLogger(l logging.Logger) CarouselOption {
	return func(c *Carousel) { c.logger = l }
}

// OnChange registers fn to run after every index change. It runs outside
// the carousel's lock.
func OnChange(fn func(index int, m Member)) CarouselOption {
	return func(c *Carousel) { c.onChange = fn }
}

func NewCarousel(r *Roster, opts ...CarouselOption) (*Carousel, error) {
	if r == nil || len(r.Members) == 0 {
		return nil, ErrEmptyRoster
	}
	c := &Carousel{
		members:  append([]Member(nil), r.Members...),
		interval: DefaultRotationInterval,
		sched:    timex.RealScheduler{},
		logger:   logging.Discard(),
	}
	for _, o := range opts {
		o(c)
	}
	c.logger = c.logger.With("module", "carousel")
	return c, nil
}

// Start begins rotating. Calling Start on a running carousel is a no-op.
func (c *Carousel) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		return
	}
	c.gen++
	gen := c.gen
	c.timer = c.sched.Every(c.interval, func() { c.tick(gen) })
}

// Stop cancels the rotation; no tick runs after Stop returns. The index is
// kept.
func (c *Carousel) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer == nil {
		return
	}
	c.timer.Stop()
	c.timer = nil
	c.gen++
}

func (c *Carousel) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// tick advances unless the rotation that scheduled it has been stopped.
func (c *Carousel) tick(gen int) {
	c.mu.Lock()
	if c.gen != gen || c.timer == nil {
		c.mu.Unlock()
		return
	}
	i, m := c.advanceLocked()
	c.mu.Unlock()

	c.changed(i, m)
}

// Advance moves to the next member, wrapping at the end.
func (c *Carousel) Advance() {
	c.mu.Lock()
	i, m := c.advanceLocked()
	c.mu.Unlock()

	c.changed(i, m)
}

func (c *Carousel) advanceLocked() (int, Member) {
	c.index = (c.index + 1) % len(c.members)
	return c.index, c.members[c.index]
}

// SelectRole jumps to the first member whose role matches role, ignoring
// case. It reports false and leaves the index alone when nobody matches.
// A running rotation keeps its schedule.
func (c *Carousel) SelectRole(role string) bool {
	role = strings.TrimSpace(role)
	for i, m := range c.members {
		if strings.EqualFold(m.Role, role) {
			c.mu.Lock()
			c.index = i
			c.mu.Unlock()

			c.changed(i, m)
			return true
		}
	}
	c.logger.Debug(context.Background(), "no member with role", "role", role)
	return false
}

func (c *Carousel) changed(i int, m Member) {
	if c.onChange != nil {
		c.onChange(i, m)
	}
}

func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Carousel) Current() Member {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.members[c.index]
}

func (c *Carousel) Len() int { return len(c.members) }

func (c *Carousel) Members() []Member {
	return append([]Member(nil), c.members...)
}
