package scheduler

import (
	"fmt"
	"time"

	"github.com/go-redul/redul/pkg/errors"
)

// Scheduler is a cooperative priority task queue bound to one host.
type Scheduler struct {
	host     HostConfig
	timeouts [IdlePriority + 1]time.Duration

	ready   taskRing
	delayed taskRing

	currentTask     *Task
	currentPriority Priority

	paused                bool
	performingWork        bool
	hostCallbackScheduled bool
	hostTimeoutScheduled  bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithPriorityTimeout overrides the relative expiration of one priority level.
func WithPriorityTimeout(p Priority, timeout time.Duration) Option {
	return func(s *Scheduler) {
		if p >= ImmediatePriority && p <= IdlePriority {
			s.timeouts[p] = timeout
		}
	}
}

// New creates a scheduler that runs on host.
func New(host HostConfig, opts ...Option) *Scheduler {
	s := &Scheduler{
		host:            host,
		ready:           newExpirationRing(),
		delayed:         newStartTimeRing(),
		currentPriority: NormalPriority,
	}
	for p := ImmediatePriority; p <= IdlePriority; p++ {
		s.timeouts[p] = p.Timeout()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TaskOption configures a single ScheduleCallback call.
type TaskOption func(*taskOptions)

type taskOptions struct {
	delay   time.Duration
	timeout time.Duration
}

// WithDelay postpones the task's start time.
func WithDelay(d time.Duration) TaskOption {
	return func(o *taskOptions) { o.delay = d }
}

// WithTimeout replaces the priority's default timeout for this task.
func WithTimeout(d time.Duration) TaskOption {
	return func(o *taskOptions) { o.timeout = d }
}

// Now returns the host time.
func (s *Scheduler) Now() time.Time {
	return s.host.Now()
}

// ScheduleCallback queues cb at priority p and returns its task handle.
func (s *Scheduler) ScheduleCallback(p Priority, cb Callback, opts ...TaskOption) *Task {
	var o taskOptions
	for _, opt := range opts {
		opt(&o)
	}

	now := s.host.Now()
	startTime := now
	if o.delay > 0 {
		startTime = now.Add(o.delay)
	}
	timeout := s.timeoutFor(p)
	if o.timeout != 0 {
		timeout = o.timeout
	}

	task := &Task{
		callback:       cb,
		priority:       p,
		startTime:      startTime,
		expirationTime: startTime.Add(timeout),
	}

	if startTime.After(now) {
		s.delayed.insert(task, false)
		if s.ready.peek() == nil && s.delayed.peek() == task {
			// The new task is the earliest delayed one.
			if s.hostTimeoutScheduled {
				s.host.CancelTimeout()
			} else {
				s.hostTimeoutScheduled = true
			}
			s.host.RequestTimeout(s.handleTimeout, startTime.Sub(now))
		}
	} else {
		s.ready.insert(task, false)
		s.requestHostCallback()
	}
	return task
}

func (s *Scheduler) timeoutFor(p Priority) time.Duration {
	if p < ImmediatePriority || p > IdlePriority {
		return s.timeouts[NormalPriority]
	}
	return s.timeouts[p]
}

func (s *Scheduler) requestHostCallback() {
	if s.hostCallbackScheduled || s.performingWork {
		return
	}
	s.hostCallbackScheduled = true
	s.host.RequestCallback(s.flushWork)
}

// CancelCallback removes the task from whichever ring holds it. A running
// task cannot be stopped, but its continuation is dropped.
func (s *Scheduler) CancelCallback(t *Task) {
	if t == nil {
		return
	}
	t.cancelled = true
	if !s.ready.remove(t) {
		s.delayed.remove(t)
	}
}

// advanceTimers promotes delayed tasks whose start time has passed.
func (s *Scheduler) advanceTimers(now time.Time) {
	for {
		t := s.delayed.peek()
		if t == nil || t.startTime.After(now) {
			return
		}
		s.delayed.pop()
		s.ready.insert(t, false)
	}
}

func (s *Scheduler) handleTimeout(now time.Time) {
	s.hostTimeoutScheduled = false
	s.advanceTimers(now)

	if s.hostCallbackScheduled {
		return
	}
	if s.ready.peek() != nil {
		s.requestHostCallback()
	} else if first := s.delayed.peek(); first != nil {
		s.hostTimeoutScheduled = true
		s.host.RequestTimeout(s.handleTimeout, first.startTime.Sub(now))
	}
}

// flushWork is the HostCallback handed to the host.
func (s *Scheduler) flushWork(hasTimeRemaining bool, initialTime time.Time) bool {
	s.hostCallbackScheduled = false
	if s.paused {
		return false
	}

	if s.hostTimeoutScheduled {
		s.hostTimeoutScheduled = false
		s.host.CancelTimeout()
	}

	now := initialTime
	s.advanceTimers(now)

	s.performingWork = true
	defer func() { s.performingWork = false }()

	if !hasTimeRemaining {
		// Out of time: only tasks that are already late run.
		for t := s.ready.peek(); t != nil && !t.expirationTime.After(now) && !s.paused; t = s.ready.peek() {
			s.flushTask(t, now)
			now = s.host.Now()
			s.advanceTimers(now)
		}
	} else if s.ready.peek() != nil {
		for {
			s.flushTask(s.ready.peek(), now)
			now = s.host.Now()
			s.advanceTimers(now)
			if s.ready.peek() == nil || s.host.ShouldYield() || s.paused {
				break
			}
		}
	}

	if s.ready.peek() != nil {
		return true
	}
	if first := s.delayed.peek(); first != nil {
		s.hostTimeoutScheduled = true
		s.host.RequestTimeout(s.handleTimeout, first.startTime.Sub(now))
	}
	return false
}

// flushTask pops t, runs it and re-queues its continuation.
func (s *Scheduler) flushTask(t *Task, now time.Time) {
	s.ready.remove(t)

	previousPriority, previousTask := s.currentPriority, s.currentTask
	s.currentPriority, s.currentTask = t.priority, t
	var continuation Callback
	func() {
		defer func() {
			s.currentPriority, s.currentTask = previousPriority, previousTask
		}()
		didTimeout := !t.expirationTime.After(now)
		continuation = t.callback(didTimeout)
	}()

	if continuation != nil && !t.cancelled {
		t.callback = continuation
		s.ready.insert(t, true)
	}
}

// ShouldYield reports whether the running task should hand control back:
// either a more urgent task became ready or the host's slice is exhausted.
func (s *Scheduler) ShouldYield() bool {
	now := s.host.Now()
	s.advanceTimers(now)
	first := s.ready.peek()
	if s.currentTask != nil && first != nil &&
		!first.startTime.After(now) &&
		first.expirationTime.Before(s.currentTask.expirationTime) {
		return true
	}
	return s.host.ShouldYield()
}

// CurrentPriority returns the priority of the running task, or the
// priority set by RunWithPriority.
func (s *Scheduler) CurrentPriority() Priority {
	return s.currentPriority
}

// RunWithPriority runs fn with the current priority set to p.
func (s *Scheduler) RunWithPriority(p Priority, fn func()) {
	previous := s.currentPriority
	s.currentPriority = p
	defer func() { s.currentPriority = previous }()
	fn()
}

// Next runs fn at a priority no more urgent than NormalPriority.
func (s *Scheduler) Next(fn func()) {
	p := s.currentPriority
	if p < NormalPriority {
		p = NormalPriority
	}
	s.RunWithPriority(p, fn)
}

// WrapCallback captures the current priority and restores it whenever the
// returned function runs.
func (s *Scheduler) WrapCallback(fn func()) func() {
	parent := s.currentPriority
	return func() {
		s.RunWithPriority(parent, fn)
	}
}

// PauseExecution stops flushing tasks until ContinueExecution is called.
func (s *Scheduler) PauseExecution() {
	s.paused = true
}

// ContinueExecution resumes flushing and requests a host callback.
func (s *Scheduler) ContinueExecution() {
	s.paused = false
	s.requestHostCallback()
}

// FirstTask returns the most urgent ready task, or nil.
func (s *Scheduler) FirstTask() *Task {
	return s.ready.peek()
}

// RequestPaint forwards a paint request to the host.
func (s *Scheduler) RequestPaint() {
	s.host.RequestPaint()
}

// ForceFrameRate changes the host frame rate. A rejected rate is reported
// as a non-fatal error and the host keeps its previous frame length.
func (s *Scheduler) ForceFrameRate(fps int) {
	if err := s.host.ForceFrameRate(fps); err != nil {
		errors.Report(&errors.Error{
			Op:   "scheduler.ForceFrameRate",
			Kind: errors.KindConfig,
			Err:  err,
		})
	}
}

func errFrameRate(fps int) error {
	return fmt.Errorf("forceFrameRate(%d): %w", fps, errors.ErrFrameRateOutOfRange)
}
