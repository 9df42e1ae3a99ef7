package testing

import (
	"fmt"
	"time"

	"github.com/go-redul/redul/pkg/scheduler"
)

// maxFlushes bounds RunUntilIdle so a task that never finishes fails the
// test instead of hanging it.
const maxFlushes = 10000

// FakeHost is a scheduler.HostConfig driven by the test. Nothing runs
// until Flush, RunUntilIdle or Advance is called.
type FakeHost struct {
	clock *FakeClock

	callback      scheduler.HostCallback
	timeout       func(time.Time)
	timeoutAt     time.Time
	shouldYield   bool
	timeRemaining bool
	frameLength   time.Duration
	flushes       int
	paints        int
}

// NewFakeHost creates a host on clock. A nil clock creates a new FakeClock.
func NewFakeHost(clock *FakeClock) *FakeHost {
	if clock == nil {
		clock = NewFakeClock()
	}
	return &FakeHost{clock: clock, timeRemaining: true, frameLength: scheduler.DefaultFrameLength}
}

var _ scheduler.HostConfig = (*FakeHost)(nil)

// Clock returns the host clock.
func (h *FakeHost) Clock() *FakeClock { return h.clock }

func (h *FakeHost) Now() time.Time { return h.clock.Now() }

func (h *FakeHost) RequestCallback(cb scheduler.HostCallback) { h.callback = cb }

func (h *FakeHost) CancelCallback() { h.callback = nil }

func (h *FakeHost) RequestTimeout(cb func(time.Time), delay time.Duration) {
	h.timeout = cb
	h.timeoutAt = h.clock.Now().Add(delay)
}

func (h *FakeHost) CancelTimeout() { h.timeout = nil }

func (h *FakeHost) ShouldYield() bool { return h.shouldYield }

func (h *FakeHost) RequestPaint() { h.paints++ }

func (h *FakeHost) ForceFrameRate(fps int) error {
	d, err := scheduler.FrameLengthFor(fps)
	if err != nil {
		return err
	}
	h.frameLength = d
	return nil
}

// SetShouldYield sets the value ShouldYield reports.
func (h *FakeHost) SetShouldYield(yield bool) { h.shouldYield = yield }

// SetTimeRemaining sets the hasTimeRemaining argument of later flushes.
func (h *FakeHost) SetTimeRemaining(remaining bool) { h.timeRemaining = remaining }

// FrameLength returns the last accepted frame length.
func (h *FakeHost) FrameLength() time.Duration { return h.frameLength }

// Paints returns the number of paint requests.
func (h *FakeHost) Paints() int { return h.paints }

// Flushes returns the number of host callbacks run so far.
func (h *FakeHost) Flushes() int { return h.flushes }

// HasPendingCallback reports whether a host callback is waiting.
func (h *FakeHost) HasPendingCallback() bool { return h.callback != nil }

// HasPendingTimeout reports whether a host timeout is armed.
func (h *FakeHost) HasPendingTimeout() bool { return h.timeout != nil }

// TimeoutAt returns when the armed timeout fires.
func (h *FakeHost) TimeoutAt() time.Time { return h.timeoutAt }

// Flush runs the pending host callback once. The callback stays pending
// when it reports more work, and is re-queued if it panics. Flush reports
// whether a callback ran.
func (h *FakeHost) Flush() bool {
	cb := h.callback
	if cb == nil {
		return false
	}
	h.callback = nil
	h.flushes++

	completed := false
	defer func() {
		if !completed && h.callback == nil {
			h.callback = cb
		}
	}()
	hasMoreWork := cb(h.timeRemaining, h.clock.Now())
	completed = true

	if hasMoreWork && h.callback == nil {
		h.callback = cb
	}
	return true
}

// RunUntilIdle flushes until no callback is pending and returns the
// number of flushes. It panics if the work never settles.
func (h *FakeHost) RunUntilIdle() int {
	n := 0
	for h.Flush() {
		n++
		if n > maxFlushes {
			panic(fmt.Sprintf("testing: host callback still pending after %d flushes", maxFlushes))
		}
	}
	return n
}

// Advance moves the clock forward by d and fires the armed timeout if it
// is due.
func (h *FakeHost) Advance(d time.Duration) {
	h.clock.Advance(d)
	h.fireTimeout()
}

// AdvanceToTimeout moves the clock to the armed timeout and fires it. It
// reports false when no timeout is armed.
func (h *FakeHost) AdvanceToTimeout() bool {
	if h.timeout == nil {
		return false
	}
	h.clock.AdvanceTo(h.timeoutAt)
	h.fireTimeout()
	return true
}

func (h *FakeHost) fireTimeout() {
	if h.timeout == nil {
		return
	}
	now := h.clock.Now()
	if h.timeoutAt.After(now) {
		return
	}
	cb := h.timeout
	h.timeout = nil
	cb(now)
}
