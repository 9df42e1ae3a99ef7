package scheduler

import "time"

// HostCallback is invoked by a host when it grants the scheduler a time
// slice. It returns whether more work remains.
type HostCallback func(hasTimeRemaining bool, now time.Time) (hasMoreWork bool)

// HostConfig abstracts wall-clock time, the yield signal and the callback
// primitives of the environment the scheduler runs in.
type HostConfig interface {
	// Now returns the current host time.
	Now() time.Time
	// RequestCallback asks the host to invoke cb at its next opportunity.
	// Only one callback is outstanding at a time.
	RequestCallback(cb HostCallback)
	// CancelCallback drops a pending callback.
	CancelCallback()
	// RequestTimeout invokes cb after delay, replacing any pending timeout.
	RequestTimeout(cb func(now time.Time), delay time.Duration)
	// CancelTimeout drops a pending timeout.
	CancelTimeout()
	// ShouldYield reports whether the current time slice is exhausted.
	ShouldYield() bool
	// RequestPaint tells the host that a paint is due after this slice.
	RequestPaint()
	// ForceFrameRate overrides the frame length. Rates outside 0..125 are
	// rejected and the previous frame length is kept; 0 restores the default.
	ForceFrameRate(fps int) error
}

// DefaultFrameLength is the frame length used before ForceFrameRate is called.
const DefaultFrameLength = 16 * time.Millisecond

// MaxFrameRate is the highest frame rate ForceFrameRate accepts.
const MaxFrameRate = 125

// FrameLengthFor converts a frame rate into a frame length using the
// rules shared by all hosts.
func FrameLengthFor(fps int) (time.Duration, error) {
	if fps < 0 || fps > MaxFrameRate {
		return 0, errFrameRate(fps)
	}
	if fps == 0 {
		return DefaultFrameLength, nil
	}
	return time.Duration(1000/fps) * time.Millisecond, nil
}
