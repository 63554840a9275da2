// Package timextest provides a manually driven timex.Scheduler for tests.
package timextest

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/teamdeck/internal/timex"
)

// Scheduler is a virtual-clock timex.Scheduler. Nothing fires until Advance
// is called; due callbacks then run synchronously on the caller's goroutine
// in due-time order.
type Scheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*task
}

type task struct {
	s      *Scheduler
	due    time.Duration
	period time.Duration
	f      func()
	done   bool
}

func (t *task) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// New returns a scheduler whose clock starts at zero.
func New() *Scheduler {
	return &Scheduler{}
}

func (s *Scheduler) AfterFunc(d time.Duration, f func()) timex.Timer {
	return s.add(d, 0, f)
}

func (s *Scheduler) Every(d time.Duration, f func()) timex.Timer {
	return s.add(d, d, f)
}

func (s *Scheduler) add(d, period time.Duration, f func()) *task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &task{s: s, due: s.now + d, period: period, f: f}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the virtual clock forward by d, running every callback that
// falls due on the way. Callbacks scheduled by callbacks are honoured if they
// fall due before the target time.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var next *task
		for _, t := range s.tasks {
			if t.done || t.due > target {
				continue
			}
			if next == nil || t.due < next.due {
				next = t
			}
		}
		if next == nil {
			s.now = target
			s.prune()
			s.mu.Unlock()
			return
		}

		s.now = next.due
		if next.period > 0 {
			next.due += next.period
		} else {
			next.done = true
		}
		f := next.f
		s.mu.Unlock()

		f()
	}
}

// Pending reports how many tasks are still scheduled.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.done {
			n++
		}
	}
	return n
}

// Now reports the virtual time elapsed since New.
func (s *Scheduler) Now() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *Scheduler) prune() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.done {
			live = append(live, t)
		}
	}
	s.tasks = live
}
