// Package clock abstracts wall time and scheduling so session timing can be
// driven by a fake in tests.
package clock

import (
	"sync"
	"time"
)

// Stopper cancels a scheduled callback. Stop is idempotent.
type Stopper interface {
	Stop()
}

// Clock provides the current time and callback scheduling.
type Clock interface {
	Now() time.Time
	// AfterFunc runs f once after d.
	AfterFunc(d time.Duration, f func()) Stopper
	// Every runs f each time d elapses until stopped.
	Every(d time.Duration, f func()) Stopper
}

// Real is the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Stopper {
	return timerStopper{t: time.AfterFunc(d, f)}
}

func (Real) Every(d time.Duration, f func()) Stopper {
	t := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-t.C:
				f()
			}
		}
	}()
	return &tickerStopper{t: t, done: done}
}

type timerStopper struct{ t *time.Timer }

func (s timerStopper) Stop() { s.t.Stop() }

type tickerStopper struct {
	t    *time.Ticker
	done chan struct{}
	once sync.Once
}

func (s *tickerStopper) Stop() {
	s.once.Do(func() {
		s.t.Stop()
		close(s.done)
	})
}
