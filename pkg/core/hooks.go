package core

import (
	"fmt"

	"github.com/go-redul/redul/pkg/host"
)

type hookKind int

const (
	kindState hookKind = iota
	kindEffect
	kindMemo
	kindRef
)

func (k hookKind) String() string {
	switch k {
	case kindState:
		return "state"
	case kindEffect:
		return "effect"
	case kindMemo:
		return "memo"
	case kindRef:
		return "ref"
	}
	return "unknown"
}

// Hook is one persistent state slot of a component.
type Hook struct {
	kind     hookKind
	state    any
	dispatch any
	update   bool
	next     *Hook
}

// hookList is shared by every generation of one component position.
// owner is the newest fiber at that position.
type hookList struct {
	head      *Hook
	owner     *Fiber
	unmounted bool
}

// Context is the hook context of one component invocation.
type Context struct {
	root     *Root
	fiber    *Fiber
	list     *hookList
	mounting bool
	cursor   *Hook
	tail     *Hook
	done     bool
}

func newContext(root *Root, f *Fiber) *Context {
	if f.hooks == nil {
		f.hooks = &hookList{owner: f}
	} else {
		root.setOwner(f.hooks, f)
	}
	f.updateQueue = nil
	return &Context{root: root, fiber: f, list: f.hooks, mounting: !f.isMount}
}

func (c *Context) finish() {
	c.done = true
}

func (c *Context) nextHook(kind hookKind) (*Hook, bool) {
	if c == nil || c.done {
		panic("core: hooks can only be called while a component renders")
	}
	if c.mounting {
		h := &Hook{kind: kind}
		if c.tail == nil {
			c.list.head = h
		} else {
			c.tail.next = h
		}
		c.tail = h
		return h, true
	}

	var h *Hook
	if c.cursor == nil {
		h = c.list.head
	} else {
		h = c.cursor.next
	}
	if h == nil {
		panic(fmt.Sprintf("core: %s rendered more hooks than during its first render", c.fiber.Name()))
	}
	if h.kind != kind {
		panic(fmt.Sprintf("core: %s called a %s hook where a %s hook was called before", c.fiber.Name(), kind, h.kind))
	}
	c.cursor = h
	return h, false
}

func valueAs[T any](v any) T {
	t, _ := v.(T)
	return t
}

// UseReducer returns the current state and a dispatch function. Dispatch
// applies reducer right away and schedules the component to render again.
// Dispatches after the component is removed are ignored.
func UseReducer[S, A any](ctx *Context, reducer func(S, A) S, initial S) (S, func(A)) {
	h, mount := ctx.nextHook(kindState)
	if mount {
		h.state = initial
	}
	list, root := ctx.list, ctx.root
	dispatch := func(action A) {
		if list.unmounted {
			return
		}
		h.state = reducer(valueAs[S](h.state), action)
		h.update = true
		root.scheduleUpdate(list)
	}
	h.dispatch = dispatch
	return valueAs[S](h.state), dispatch
}

// Setter updates one UseState slot.
type Setter[S any] struct {
	dispatch func(any)
}

// Set replaces the state.
func (s *Setter[S]) Set(v S) { s.dispatch(v) }

// Update replaces the state with fn applied to it.
func (s *Setter[S]) Update(fn func(S) S) { s.dispatch(fn) }

func basicStateReducer[S any](state S, action any) S {
	if fn, ok := action.(func(S) S); ok {
		return fn(state)
	}
	return valueAs[S](action)
}

// UseState is UseReducer with a reducer that replaces the state. The
// returned Setter keeps its identity for the life of the component.
func UseState[S any](ctx *Context, initial S) (S, *Setter[S]) {
	return useState(ctx, func() S { return initial })
}

// UseLazyState is UseState with an initial value computed on mount only.
func UseLazyState[S any](ctx *Context, init func() S) (S, *Setter[S]) {
	return useState(ctx, init)
}

func useState[S any](ctx *Context, init func() S) (S, *Setter[S]) {
	h, mount := ctx.nextHook(kindState)
	if mount {
		h.state = init()
		list, root := ctx.list, ctx.root
		h.dispatch = &Setter[S]{dispatch: func(action any) {
			if list.unmounted {
				return
			}
			h.state = basicStateReducer(valueAs[S](h.state), action)
			h.update = true
			root.scheduleUpdate(list)
		}}
	}
	return valueAs[S](h.state), h.dispatch.(*Setter[S])
}

// EffectFunc is an effect body. The returned function, if not nil, is the
// cleanup run before the effect runs again or when the component is
// removed.
type EffectFunc func() func()

type effectState struct {
	create  EffectFunc
	destroy func()
	deps    []any
	owner   string
}

// UseEffect queues create to run when the component's fiber completes.
// With nil deps the effect runs on every render; otherwise it runs again
// only when a dependency changed.
func UseEffect(ctx *Context, create EffectFunc, deps []any) {
	h, mount := ctx.nextHook(kindEffect)
	if mount {
		st := &effectState{create: create, deps: deps, owner: ctx.fiber.Name()}
		h.state = st
		ctx.fiber.updateQueue = append(ctx.fiber.updateQueue, st)
		return
	}
	prev := h.state.(*effectState)
	if depsEqual(prev.deps, deps) {
		return
	}
	st := &effectState{create: create, destroy: prev.destroy, deps: deps, owner: prev.owner}
	h.state = st
	ctx.fiber.updateQueue = append(ctx.fiber.updateQueue, st)
}

type memoState struct {
	value any
	deps  []any
}

// UseMemo returns compute's result, recomputed only when deps change.
func UseMemo[T any](ctx *Context, compute func() T, deps []any) T {
	h, mount := ctx.nextHook(kindMemo)
	if mount {
		h.state = &memoState{value: compute(), deps: deps}
	} else if prev := h.state.(*memoState); !depsEqual(prev.deps, deps) {
		h.state = &memoState{value: compute(), deps: deps}
	}
	return valueAs[T](h.state.(*memoState).value)
}

// UseCallback returns fn as it was when deps last changed.
func UseCallback[F any](ctx *Context, fn F, deps []any) F {
	h, mount := ctx.nextHook(kindMemo)
	if mount {
		h.state = &memoState{value: fn, deps: deps}
	} else if prev := h.state.(*memoState); !depsEqual(prev.deps, deps) {
		h.state = &memoState{value: fn, deps: deps}
	}
	return valueAs[F](h.state.(*memoState).value)
}

// Ref is a mutable box whose identity is stable for the life of a
// component. Passed as the ref prop of a host element it receives the
// host node.
type Ref[T any] struct {
	Current T
}

// SetNode stores n when it is a T and resets Current when n is nil.
func (r *Ref[T]) SetNode(n host.Node) {
	if n == nil {
		var zero T
		r.Current = zero
		return
	}
	if v, ok := n.(T); ok {
		r.Current = v
	}
}

// UseRef returns the same Ref on every render.
func UseRef[T any](ctx *Context, initial T) *Ref[T] {
	h, mount := ctx.nextHook(kindRef)
	if mount {
		h.state = &Ref[T]{Current: initial}
	}
	return h.state.(*Ref[T])
}
