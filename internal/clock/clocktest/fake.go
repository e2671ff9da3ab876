// Package clocktest provides a manually advanced clock.
package clocktest

import (
	"sort"
	"sync"
	"time"

	"github.com/vytor/kukudrill/internal/clock"
)

// Fake is a clock.Clock whose time only moves on Advance. Callbacks run
// synchronously on the goroutine calling Advance, in due-time order.
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*task
}

type task struct {
	fake    *Fake
	at      time.Time
	period  time.Duration
	seq     int
	f       func()
	stopped bool
}

func (t *task) Stop() {
	t.fake.mu.Lock()
	defer t.fake.mu.Unlock()
	t.stopped = true
}

var _ clock.Clock = (*Fake)(nil)

func New(start time.Time) *Fake {
	return &Fake{now: start}
}

func (c *Fake) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Fake) AfterFunc(d time.Duration, f func()) clock.Stopper {
	return c.schedule(d, 0, f)
}

func (c *Fake) Every(d time.Duration, f func()) clock.Stopper {
	return c.schedule(d, d, f)
}

func (c *Fake) schedule(d, period time.Duration, f func()) *task {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &task{fake: c, at: c.now.Add(d), period: period, seq: c.seq, f: f}
	c.tasks = append(c.tasks, t)
	return t
}

// Advance moves time forward by d, firing every callback that comes due.
func (c *Fake) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		t := c.next(target)
		if t == nil {
			break
		}
		t.f()
	}

	c.mu.Lock()
	c.now = target
	c.mu.Unlock()
}

// Pending returns the number of live scheduled callbacks.
func (c *Fake) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tasks {
		if !t.stopped {
			n++
		}
	}
	return n
}

// next pops the earliest due task, moving the clock to its due time.
func (c *Fake) next(target time.Time) *task {
	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.tasks[:0]
	for _, t := range c.tasks {
		if !t.stopped {
			live = append(live, t)
		}
	}
	c.tasks = live
	if len(c.tasks) == 0 {
		return nil
	}

	sort.SliceStable(c.tasks, func(i, j int) bool {
		if c.tasks[i].at.Equal(c.tasks[j].at) {
			return c.tasks[i].seq < c.tasks[j].seq
		}
		return c.tasks[i].at.Before(c.tasks[j].at)
	})
	t := c.tasks[0]
	if t.at.After(target) {
		return nil
	}

	c.now = t.at
	if t.period > 0 {
		t.at = t.at.Add(t.period)
	} else {
		t.stopped = true
	}
	return t
}
