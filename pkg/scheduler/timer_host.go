package scheduler

import "time"

// TimerHost runs the scheduler as plain loop tasks. It never asks the
// scheduler to yield, so every host callback drains the ready queue.
type TimerHost struct {
	loop  *Loop
	clock Clock

	callback  HostCallback
	flushing  bool
	scheduled bool

	timeoutGen    uint64
	cancelTimeout func()

	frameLength time.Duration
}

// NewTimerHost creates a TimerHost on loop. A nil clock uses SystemClock.
func NewTimerHost(loop *Loop, clock Clock) *TimerHost {
	if clock == nil {
		clock = SystemClock
	}
	return &TimerHost{loop: loop, clock: clock, frameLength: DefaultFrameLength}
}

func (h *TimerHost) Now() time.Time { return h.clock.Now() }

// RequestCallback stores cb and posts a flush. A request made while a
// flush is running is deferred to a later loop iteration.
func (h *TimerHost) RequestCallback(cb HostCallback) {
	if h.flushing {
		h.loop.Submit(func() { h.RequestCallback(cb) })
		return
	}
	h.callback = cb
	if !h.scheduled {
		h.scheduled = true
		h.loop.Submit(h.flush)
	}
}

func (h *TimerHost) flush() {
	h.scheduled = false
	cb := h.callback
	if cb == nil {
		return
	}

	h.flushing = true
	completed := false
	defer func() {
		h.flushing = false
		if !completed {
			// Retry on the next iteration, then let the loop report the panic.
			h.RequestCallback(cb)
		}
	}()
	hasMoreWork := cb(true, h.Now())
	completed = true

	h.callback = nil
	if hasMoreWork {
		h.flushing = false
		h.RequestCallback(cb)
	}
}

func (h *TimerHost) CancelCallback() { h.callback = nil }

// RequestTimeout replaces any pending timeout.
func (h *TimerHost) RequestTimeout(cb func(now time.Time), delay time.Duration) {
	h.CancelTimeout()
	gen := h.timeoutGen
	h.cancelTimeout = h.loop.AfterFunc(delay, func() {
		if gen != h.timeoutGen {
			return
		}
		h.cancelTimeout = nil
		cb(h.Now())
	})
}

func (h *TimerHost) CancelTimeout() {
	h.timeoutGen++
	if h.cancelTimeout != nil {
		h.cancelTimeout()
		h.cancelTimeout = nil
	}
}

func (h *TimerHost) ShouldYield() bool { return false }

func (h *TimerHost) RequestPaint() {}

// ForceFrameRate validates fps. The timer host has no frames, so a valid
// rate is only recorded.
func (h *TimerHost) ForceFrameRate(fps int) error {
	d, err := FrameLengthFor(fps)
	if err != nil {
		return err
	}
	h.frameLength = d
	return nil
}

// FrameLength returns the last accepted frame length.
func (h *TimerHost) FrameLength() time.Duration { return h.frameLength }
