package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-redul/redul/pkg/errors"
)

type panicCapture struct {
	mu      sync.Mutex
	panics  []*errors.PanicError
	renders []*errors.RenderError
}

func (c *panicCapture) HandleError(*errors.Error) {}

func (c *panicCapture) HandlePanic(err *errors.PanicError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panics = append(c.panics, err)
}

func (c *panicCapture) HandleRenderError(err *errors.RenderError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renders = append(c.renders, err)
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestLoopRunsSubmittedFunctionsInOrder(t *testing.T) {
	loop := NewLoop()
	var got []int
	for i := 0; i < 5; i++ {
		loop.Submit(func() { got = append(got, i) })
	}
	if err := loop.RunUntilIdle(testContext(t)); err != nil {
		t.Fatal(err)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("got %v, want ascending order", got)
		}
	}
	if len(got) != 5 {
		t.Fatalf("ran %d functions, want 5", len(got))
	}
}

func TestLoopSubmitFromGoroutines(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()

	const n = 50
	var wg sync.WaitGroup
	count := 0
	done := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loop.Submit(func() {
				count++
				if count == n {
					close(done)
				}
			})
		}()
	}

	errc := make(chan error, 1)
	go func() { errc <- loop.Run(ctx) }()
	wg.Wait()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("submitted functions did not all run")
	}
	cancel()
	if err := <-errc; err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestLoopAfterFuncAndCancel(t *testing.T) {
	loop := NewLoop()
	fired := false
	cancelled := false
	loop.AfterFunc(time.Millisecond, func() { fired = true })
	stop := loop.AfterFunc(time.Hour, func() { cancelled = true })
	stop()

	if err := loop.RunUntilIdle(testContext(t)); err != nil {
		t.Fatal(err)
	}
	if !fired || cancelled {
		t.Errorf("fired = %v, cancelled callback ran = %v", fired, cancelled)
	}
}

func TestLoopRecoversPanics(t *testing.T) {
	capture := &panicCapture{}
	errors.SetHandler(capture)
	defer errors.SetHandler(nil)

	loop := NewLoop()
	after := false
	loop.Submit(func() { panic("boom") })
	loop.Submit(func() { panic(&errors.RenderError{Component: "App", Phase: "render", Recovered: "bad"}) })
	loop.Submit(func() { after = true })

	if err := loop.RunUntilIdle(testContext(t)); err != nil {
		t.Fatal(err)
	}
	if !after {
		t.Error("the loop should keep running after a panic")
	}
	if len(capture.panics) != 1 || capture.panics[0].Value != "boom" {
		t.Errorf("panics = %v", capture.panics)
	}
	if len(capture.renders) != 1 || capture.renders[0].Component != "App" {
		t.Errorf("render errors = %v", capture.renders)
	}
}

func TestLoopRejectsSecondRun(t *testing.T) {
	loop := NewLoop()
	var second error
	loop.Submit(func() { second = loop.RunUntilIdle(context.Background()) })
	if err := loop.RunUntilIdle(testContext(t)); err != nil {
		t.Fatal(err)
	}
	if second != errors.ErrLoopRunning {
		t.Errorf("nested run returned %v, want ErrLoopRunning", second)
	}
}

func TestTimerHostRunsScheduledWork(t *testing.T) {
	loop := NewLoop()
	s := New(NewTimerHost(loop, nil))
	var log []string

	s.ScheduleCallback(NormalPriority, func(bool) Callback {
		log = append(log, "normal")
		return func(bool) Callback {
			log = append(log, "continued")
			return nil
		}
	})
	s.ScheduleCallback(UserBlockingPriority, func(bool) Callback {
		log = append(log, "urgent")
		return nil
	})
	s.ScheduleCallback(LowPriority, func(bool) Callback {
		log = append(log, "delayed")
		return nil
	}, WithDelay(2*time.Millisecond))

	if err := loop.RunUntilIdle(testContext(t)); err != nil {
		t.Fatal(err)
	}
	want := []string{"urgent", "normal", "continued", "delayed"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("log = %v, want %v", log, want)
		}
	}
}

func TestTimerHostRequeuesAfterPanic(t *testing.T) {
	capture := &panicCapture{}
	errors.SetHandler(capture)
	defer errors.SetHandler(nil)

	loop := NewLoop()
	s := New(NewTimerHost(loop, nil))
	ran := false
	s.ScheduleCallback(NormalPriority, func(bool) Callback { panic("task failed") })
	s.ScheduleCallback(NormalPriority, func(bool) Callback {
		ran = true
		return nil
	})

	if err := loop.RunUntilIdle(testContext(t)); err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Error("work queued behind a panicking task should still run")
	}
	if len(capture.panics) != 1 {
		t.Errorf("panics = %d, want 1", len(capture.panics))
	}
}

func TestTimerHostCancelledTimeoutIsIgnored(t *testing.T) {
	loop := NewLoop()
	h := NewTimerHost(loop, nil)
	fired := 0
	h.RequestTimeout(func(time.Time) { fired++ }, time.Millisecond)
	h.RequestTimeout(func(time.Time) { fired += 10 }, time.Millisecond)

	if err := loop.RunUntilIdle(testContext(t)); err != nil {
		t.Fatal(err)
	}
	if fired != 10 {
		t.Errorf("fired = %d, want only the replacing timeout", fired)
	}
	if h.ShouldYield() {
		t.Error("timer host never yields")
	}
}

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func TestFrameHostDeadline(t *testing.T) {
	clock := &stepClock{now: time.Unix(0, 0)}
	loop := NewLoop()
	h := NewFrameHost(loop, clock)

	var remaining []bool
	h.RequestCallback(func(hasTimeRemaining bool, now time.Time) bool {
		remaining = append(remaining, hasTimeRemaining)
		if h.ShouldYield() {
			t.Error("should not yield at the start of a frame")
		}
		clock.now = clock.now.Add(DefaultFrameLength/2 + time.Millisecond)
		if !h.ShouldYield() {
			t.Error("should yield past half a frame")
		}
		return false
	})

	if err := loop.RunUntilIdle(testContext(t)); err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 || !remaining[0] {
		t.Errorf("callback runs = %v", remaining)
	}
	h.Stop()
}

func TestFrameHostForceFrameRate(t *testing.T) {
	h := NewFrameHost(NewLoop(), nil)
	if err := h.ForceFrameRate(126); err == nil {
		t.Error("126 fps should be rejected")
	}
	if h.FrameLength() != DefaultFrameLength {
		t.Errorf("frame length = %v", h.FrameLength())
	}
	if err := h.ForceFrameRate(50); err != nil || h.FrameLength() != 20*time.Millisecond {
		t.Errorf("ForceFrameRate(50) = %v, frame length %v", err, h.FrameLength())
	}
}

func TestFrameHostWithScheduler(t *testing.T) {
	loop := NewLoop()
	host := NewFrameHost(loop, nil)
	s := New(host)
	steps := 0
	var cb Callback
	cb = func(bool) Callback {
		steps++
		if steps < 5 {
			return cb
		}
		return nil
	}
	s.ScheduleCallback(NormalPriority, cb)
	if err := loop.RunUntilIdle(testContext(t)); err != nil {
		t.Fatal(err)
	}
	if steps != 5 {
		t.Errorf("steps = %d, want 5", steps)
	}
	host.Stop()
}
