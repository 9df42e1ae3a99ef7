package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redul/redul/pkg/errors"
)

// Clock supplies the current time to a host.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Loop is a single-goroutine event loop. Functions submitted from any
// goroutine run one at a time on the goroutine that called Run, which is
// the only goroutine allowed to touch a Scheduler bound to a loop host.
//
// A panic in a submitted function is recovered and reported through
// errors.ReportRecovered; the loop keeps running.
type Loop struct {
	mu    sync.Mutex
	inbox []func()
	wake  chan struct{}

	// pending counts armed timers that have not yet been delivered.
	pending atomic.Int64
	running atomic.Bool
}

// NewLoop creates an idle loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Submit queues fn to run on the loop goroutine. It is safe to call from
// any goroutine, including from inside a running function.
func (l *Loop) Submit(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.inbox = append(l.inbox, fn)
	l.mu.Unlock()
	l.signal()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// AfterFunc submits fn once d has elapsed. The returned function cancels
// the timer if it has not fired yet.
func (l *Loop) AfterFunc(d time.Duration, fn func()) (cancel func()) {
	l.pending.Add(1)
	var once sync.Once
	release := func() { once.Do(func() { l.pending.Add(-1) }) }
	timer := time.AfterFunc(d, func() {
		l.Submit(func() {
			release()
			fn()
		})
	})
	return func() {
		if timer.Stop() {
			release()
			l.signal()
		}
	}
}

// Run processes submitted functions until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	return l.run(ctx, false)
}

// RunUntilIdle processes submitted functions until the inbox is empty and
// no timer is armed, or until ctx is done.
func (l *Loop) RunUntilIdle(ctx context.Context) error {
	return l.run(ctx, true)
}

func (l *Loop) run(ctx context.Context, stopWhenIdle bool) error {
	if !l.running.CompareAndSwap(false, true) {
		return errors.ErrLoopRunning
	}
	defer l.running.Store(false)

	for {
		for {
			batch := l.drain()
			if len(batch) == 0 {
				break
			}
			for _, fn := range batch {
				l.invoke(fn)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		if stopWhenIdle && l.pending.Load() == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) drain() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.inbox
	l.inbox = nil
	return batch
}

func (l *Loop) invoke(fn func()) {
	defer errors.Recover("scheduler.Loop")
	fn()
}
