package testing

import (
	"sync"
	"time"

	"github.com/go-redul/redul/pkg/scheduler"
)

// Epoch is the time every FakeClock starts at.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// FakeClock is a scheduler.Clock that only moves when a test moves it.
// Loop timers may read it from other goroutines, so it is locked.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

var _ scheduler.Clock = (*FakeClock)(nil)

// NewFakeClock returns a clock at Epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: Epoch}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. A negative d is ignored.
func (c *FakeClock) Advance(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// AdvanceTo moves the clock to t when t is later than now and returns
// how far it moved. Task expiration and host timeouts are absolute times,
// so harnesses jump straight to them.
func (c *FakeClock) AdvanceTo(t time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !t.After(c.now) {
		return 0
	}
	d := t.Sub(c.now)
	c.now = t
	return d
}

// Set puts the clock at t, which may be in the past.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

// Elapsed reports the time since Epoch.
func (c *FakeClock) Elapsed() time.Duration {
	return c.Now().Sub(Epoch)
}
