// Package scheduler provides a host-agnostic, single-threaded cooperative
// task scheduler with priority levels and time-sliced execution.
//
// Tasks are kept in two sorted circular rings: delayed tasks ordered by
// start time and ready tasks ordered by expiration time. A flush pops ready
// tasks in expiration order until the host signals that the current time
// slice is exhausted. A task callback may return a continuation, which keeps
// the task's identity, priority and expiration:
//
//	var step scheduler.Callback
//	step = func(didTimeout bool) scheduler.Callback {
//	    if doChunk() {
//	        return nil // done
//	    }
//	    return step // resume later at the same priority
//	}
//	s.ScheduleCallback(scheduler.NormalPriority, step)
//
// # Hosts
//
// The scheduler talks to its environment through HostConfig. Two hosts are
// provided: FrameHost drives work from a frame ticker and yields past a frame
// deadline, TimerHost is a fallback that never yields. Both run callbacks on
// a Loop, a single goroutine that owns all scheduler and render state.
// Other goroutines enter the loop with Loop.Submit.
//
// The scheduler is NOT thread-safe. Every method must be called from the
// goroutine that runs the host loop.
package scheduler
