// Package core provides the element model, the fiber reconciler and hooks.
//
// Elements are immutable descriptions of a tree: a host tag or a component
// plus props and children. A Renderer expands elements into fibers, diffs
// every generation of fibers against the previous one and applies the
// resulting effect list to a host tree.
//
// # Components
//
// A component is a named render function. It reads its props, calls hooks
// through the Context it is given and returns what it wants rendered:
//
//	var Counter = core.NewComponent("Counter", func(ctx *core.Context, props core.Props) any {
//	    count, setCount := core.UseState(ctx, 0)
//	    return core.CreateElement("button", core.Props{
//	        "onClick": func() { setCount.Update(func(n int) int { return n + 1 }) },
//	    }, count)
//	})
//
// Component identity is pointer identity, so declare components once at
// package level rather than inside another render function.
//
// # Rendering
//
// Work is split into units of one fiber each and runs as a task of a
// scheduler.Scheduler. The task yields whenever the scheduler asks it to
// and resumes where it stopped. Host mutations are applied only when a
// generation completes with no further updates queued:
//
//	sched := scheduler.New(scheduler.NewTimerHost(loop, nil))
//	r := core.NewRenderer(sched, h)
//	r.Render(core.CreateElement(Counter, nil), container)
//
// # Hooks
//
// Hooks are positional. A component must call the same hooks in the same
// order on every render. The Context is valid only while the render
// function runs; state setters and dispatch functions may be kept and
// called later, from the goroutine that runs the scheduler.
//
// Effects run synchronously when their fiber completes, before the
// generation is committed. An effect's cleanup runs before the effect
// runs again and when the component is removed.
package core
