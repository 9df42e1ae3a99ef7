package core

import (
	"github.com/go-redul/redul/pkg/host"
	"github.com/go-redul/redul/pkg/scheduler"
)

// Renderer keeps host containers in sync with element trees. It holds no
// global state, so several renderers can share one scheduler.
//
// Renderer is NOT thread-safe. Render, state setters and the scheduler
// must all be driven from one goroutine, typically a scheduler.Loop.
type Renderer struct {
	sched    *scheduler.Scheduler
	host     host.Host
	priority scheduler.Priority
	onCommit func(container host.Node, records []CommitRecord)
	roots    map[host.Node]*Root
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithPriority sets the scheduler priority of render work. The default is
// scheduler.NormalPriority.
func WithPriority(p scheduler.Priority) RendererOption {
	return func(r *Renderer) { r.priority = p }
}

// WithOnCommit registers fn to receive the effects applied by every commit.
func WithOnCommit(fn func(container host.Node, records []CommitRecord)) RendererOption {
	return func(r *Renderer) { r.onCommit = fn }
}

// NewRenderer creates a renderer that runs its work on sched and mutates h.
func NewRenderer(sched *scheduler.Scheduler, h host.Host, opts ...RendererOption) *Renderer {
	r := &Renderer{
		sched:    sched,
		host:     h,
		priority: scheduler.NormalPriority,
		roots:    map[host.Node]*Root{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render schedules el to be rendered into container and returns container.
// The first render into a container clears it. Later renders diff against
// what the container shows. A nil el unmounts everything.
//
// Containers are used as map keys and must be comparable.
func (r *Renderer) Render(el *Element, container host.Node) host.Node {
	root, ok := r.roots[container]
	if !ok {
		root = newRoot(r, container)
		r.roots[container] = root
		r.host.ClearChildren(container)
	}

	var children []*Element
	if el != nil {
		children = []*Element{el}
	}
	root.enqueue(work{root: &Fiber{
		tag:      TagRoot,
		typ:      rootType,
		props:    Props{host.ChildrenKey: children},
		children: children,
	}})
	return container
}

// Root returns the root of container, or nil if nothing was rendered there.
func (r *Renderer) Root(container host.Node) *Root {
	return r.roots[container]
}

// Scheduler returns the scheduler the renderer runs on.
func (r *Renderer) Scheduler() *scheduler.Scheduler {
	return r.sched
}
