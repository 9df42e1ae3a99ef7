package scheduler

import "time"

// FrameHost gives the scheduler a slice of half a frame per frame tick.
// Ticks keep coming while a callback is pending and stop when the
// scheduler reports no more work.
type FrameHost struct {
	loop  *Loop
	clock Clock

	callback     HostCallback
	frameRunning bool
	frameLength  time.Duration
	deadline     time.Time
	cancelFrame  func()

	timeoutGen    uint64
	cancelTimeout func()

	paints int
}

// NewFrameHost creates a FrameHost on loop. A nil clock uses SystemClock.
func NewFrameHost(loop *Loop, clock Clock) *FrameHost {
	if clock == nil {
		clock = SystemClock
	}
	return &FrameHost{loop: loop, clock: clock, frameLength: DefaultFrameLength}
}

func (h *FrameHost) Now() time.Time { return h.clock.Now() }

// RequestCallback stores cb and starts the frame ticks if they are idle.
func (h *FrameHost) RequestCallback(cb HostCallback) {
	h.callback = cb
	if !h.frameRunning {
		h.frameRunning = true
		h.loop.Submit(h.onFrame)
	}
}

func (h *FrameHost) onFrame() {
	h.cancelFrame = nil
	if h.callback == nil {
		h.frameRunning = false
		return
	}

	now := h.Now()
	h.deadline = now.Add(h.frameLength / 2)
	h.cancelFrame = h.loop.AfterFunc(h.frameLength, h.onFrame)

	cb := h.callback
	if !cb(h.deadline.After(now), now) {
		h.callback = nil
	}
}

func (h *FrameHost) CancelCallback() {
	h.callback = nil
}

// RequestTimeout replaces any pending timeout.
func (h *FrameHost) RequestTimeout(cb func(now time.Time), delay time.Duration) {
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

func (h *FrameHost) CancelTimeout() {
	h.timeoutGen++
	if h.cancelTimeout != nil {
		h.cancelTimeout()
		h.cancelTimeout = nil
	}
}

// ShouldYield reports whether the current frame's slice is used up.
func (h *FrameHost) ShouldYield() bool {
	return h.Now().After(h.deadline)
}

func (h *FrameHost) RequestPaint() { h.paints++ }

// Paints returns how many paints were requested.
func (h *FrameHost) Paints() int { return h.paints }

// ForceFrameRate sets the frame length to 1000/fps milliseconds. Rates
// outside 0..125 are rejected and 0 restores the default.
func (h *FrameHost) ForceFrameRate(fps int) error {
	d, err := FrameLengthFor(fps)
	if err != nil {
		return err
	}
	h.frameLength = d
	return nil
}

// FrameLength returns the current frame length.
func (h *FrameHost) FrameLength() time.Duration { return h.frameLength }

// Stop cancels the frame ticks and any pending timeout.
func (h *FrameHost) Stop() {
	h.callback = nil
	h.frameRunning = false
	if h.cancelFrame != nil {
		h.cancelFrame()
		h.cancelFrame = nil
	}
	h.CancelTimeout()
}
