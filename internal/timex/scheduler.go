package timex

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled task.
//
// Stop cancels the task. It reports whether the call stopped a pending run;
// for repeating tasks it reports whether the task was still active.
type Timer interface {
	Stop() bool
}

// Scheduler registers callbacks to run later. Callbacks run on goroutines
// owned by the scheduler and must do their own synchronisation.
type Scheduler interface {
	// AfterFunc runs f once after d.
	AfterFunc(d time.Duration, f func()) Timer
	// Every runs f every d until the returned Timer is stopped.
	Every(d time.Duration, f func()) Timer
}

// RealScheduler schedules against the wall clock.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (RealScheduler) Every(d time.Duration, f func()) Timer {
	t := &ticker{t: time.NewTicker(d), done: make(chan struct{})}
	go t.run(f)
	return t
}

type ticker struct {
	t    *time.Ticker
	done chan struct{}
	once sync.Once
}

func (t *ticker) run(f func()) {
	for {
		select {
		case <-t.t.C:
			select {
			case <-t.done:
				return
			default:
			}
			f()
		case <-t.done:
			return
		}
	}
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.t.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}
