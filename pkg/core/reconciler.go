package core

import (
	"github.com/go-redul/redul/pkg/errors"
	"github.com/go-redul/redul/pkg/host"
	"github.com/go-redul/redul/pkg/scheduler"
)

const rootType = HostTag("#root")

// work is one queued request: a new root element or a component update.
type work struct {
	root  *Fiber
	hooks *hookList
}

// Root reconciles one host container.
type Root struct {
	renderer  *Renderer
	container host.Node

	queue  []work
	queued map[*hookList]bool

	// current is the last committed generation, latest the last completed
	// one. They differ while updates keep arriving before a commit.
	current *Fiber
	latest  *Fiber
	wip     *Fiber
	next    *Fiber
	task    *scheduler.Task

	// undo reverts what the generation in progress changed on fibers of
	// earlier generations, so an aborted pass leaves them as they were.
	undo []func()

	phase     string
	component string
	commits   int
}

func newRoot(r *Renderer, container host.Node) *Root {
	return &Root{renderer: r, container: container, queued: map[*hookList]bool{}}
}

// Container returns the host node the root renders into.
func (r *Root) Container() host.Node { return r.container }

// Current returns the root fiber of the last committed generation.
func (r *Root) Current() *Fiber { return r.current }

// Pending reports whether work is queued or in progress.
func (r *Root) Pending() bool { return r.next != nil || len(r.queue) > 0 }

// Commits returns how many generations have been committed.
func (r *Root) Commits() int { return r.commits }

func (r *Root) enqueue(w work) {
	r.queue = append(r.queue, w)
	r.ensureScheduled()
}

func (r *Root) scheduleUpdate(list *hookList) {
	if list.unmounted || r.queued[list] {
		return
	}
	r.queued[list] = true
	r.enqueue(work{hooks: list})
}

func (r *Root) ensureScheduled() {
	if r.task != nil {
		return
	}
	r.task = r.renderer.sched.ScheduleCallback(r.renderer.priority, r.performWork)
}

// performWork is the scheduler task of the root. It runs units of work
// until the scheduler asks it to yield and returns itself to resume.
func (r *Root) performWork(didTimeout bool) (continuation scheduler.Callback) {
	defer func() {
		if rec := recover(); rec != nil {
			err := r.renderError(rec)
			r.abort()
			panic(err)
		}
	}()

	r.resolveNextUnit()
	for r.next != nil {
		r.next = r.performUnit(r.next)
		if r.next == nil {
			r.finishGeneration()
			r.resolveNextUnit()
		}
		if r.next != nil && !didTimeout && r.renderer.sched.ShouldYield() {
			return r.performWork
		}
	}
	r.task = nil
	return nil
}

// resolveNextUnit turns the head of the queue into a new work-in-progress
// root when no generation is in progress.
func (r *Root) resolveNextUnit() {
	for r.next == nil && len(r.queue) > 0 {
		item := r.queue[0]
		r.queue = r.queue[1:]
		base := r.latest

		var wip *Fiber
		if item.root != nil {
			wip = item.root
		} else {
			delete(r.queued, item.hooks)
			if base == nil {
				continue
			}
			r.markChanged(item.hooks)
			// Fold the component updates queued right behind this one.
			for len(r.queue) > 0 && r.queue[0].hooks != nil {
				delete(r.queued, r.queue[0].hooks)
				r.markChanged(r.queue[0].hooks)
				r.queue = r.queue[1:]
			}
			wip = &Fiber{
				tag:      TagRoot,
				typ:      base.typ,
				props:    base.props,
				children: base.children,
			}
		}
		wip.statNode = r.container
		if base != nil {
			wip.alternate = base
			base.alternate = nil
			for _, f := range base.effects {
				if f.effectTag == EffectRemove {
					wip.effects = append(wip.effects, f)
				}
			}
			carried := base.effects
			base.effects = nil
			r.undo = append(r.undo, func() { base.effects = carried })
		}
		r.wip = wip
		r.next = wip
	}
}

func (r *Root) markChanged(list *hookList) {
	if list.owner != nil && !list.unmounted {
		list.owner.isPartialStateChanged = true
	}
}

// performUnit begins f and returns the next unit, completing fibers on
// the way up when f has no children.
func (r *Root) performUnit(f *Fiber) *Fiber {
	r.begin(f)
	if f.child != nil {
		return f.child
	}
	for node := f; node != nil; node = node.parent {
		r.complete(node)
		if node == r.wip {
			return nil
		}
		if node.sibling != nil {
			return node.sibling
		}
	}
	return nil
}

func (r *Root) begin(f *Fiber) {
	if f.tag != TagComponent {
		r.reconcileChildren(f, f.children)
		return
	}

	alt := f.alternate
	if alt != nil && sameProps(alt.props, f.props) && !alt.isPartialStateChanged {
		r.setOwner(f.hooks, f)
		f.children = alt.children
		r.reconcileChildren(f, f.children)
		return
	}

	comp := f.typ.(*Component)
	r.phase, r.component = "render", comp.String()
	ctx := newContext(r, f)
	out := comp.Render(ctx, f.props)
	ctx.finish()
	f.isMount = true
	r.phase, r.component = "", ""

	f.children = Children(out)
	r.reconcileChildren(f, f.children)
}

// reconcileChildren matches elements to the alternate's children by
// position.
func (r *Root) reconcileChildren(parent *Fiber, elements []*Element) {
	var old *Fiber
	if parent.alternate != nil {
		old = parent.alternate.child
	}

	var prev *Fiber
	for _, el := range elements {
		f := newFiber(el, parent)
		r.adopt(f, old)
		if prev == nil {
			parent.child = f
		} else {
			prev.sibling = f
		}
		prev = f
		if old != nil {
			old = old.sibling
		}
	}
	if prev == nil {
		parent.child = nil
	}

	for ; old != nil; old = old.sibling {
		removed, pending := old, old.effectTag
		old.effectTag = EffectRemove
		r.undo = append(r.undo, func() { removed.effectTag = pending })
		parent.effects = append(parent.effects, old)
	}
}

// adopt resolves f's effect tag against the fiber previously at its
// position and inherits what survives the change.
func (r *Root) adopt(f, old *Fiber) {
	if old == nil {
		f.effectTag = EffectAdd
		return
	}

	pending := old.effectTag
	var tag EffectTag
	if old.typ == f.typ {
		f.alternate = old
		old.alternate = nil
		if sameProps(old.props, f.props) {
			tag = EffectNothing
		} else {
			tag = EffectUpdate
		}
		f.hooks, f.isMount = old.hooks, old.isMount
		r.setOwner(f.hooks, f)
		if f.tag == TagHost {
			f.statNode, f.appliedProps = old.statNode, old.appliedProps
		}
		if pending == EffectReplace || pending == EffectAdd {
			f.replaced = old.replaced
		}
	} else {
		tag = EffectReplace
		f.replaced = old
	}

	f.effectTag = maxEffect(tag, pending)
	if pending != EffectNothing {
		old.effectTag = EffectNothing
		r.undo = append(r.undo, func() { old.effectTag = pending })
	}
}

func (r *Root) setOwner(list *hookList, f *Fiber) {
	if list == nil || list.owner == f {
		return
	}
	prev := list.owner
	list.owner = f
	r.undo = append(r.undo, func() { list.owner = prev })
}

// complete runs the fiber's queued effects and moves its effects, itself
// first, onto its parent.
func (r *Root) complete(f *Fiber) {
	if len(f.updateQueue) > 0 {
		r.runEffects(f)
	}
	if f.parent == nil || f == r.wip {
		return
	}
	p := f.parent
	if f.effectTag != EffectNothing {
		p.effects = append(p.effects, f)
	}
	p.effects = append(p.effects, f.effects...)
	f.effects = nil
}

func (r *Root) runEffects(f *Fiber) {
	queue := f.updateQueue
	f.updateQueue = nil
	r.phase, r.component = "effect", f.Name()
	for _, st := range queue {
		if st.destroy != nil {
			destroy := st.destroy
			st.destroy = nil
			destroy()
		}
		st.destroy = st.create()
	}
	r.phase, r.component = "", ""
}

func (r *Root) finishGeneration() {
	r.latest = r.wip
	r.wip = nil
	r.undo = nil
	if len(r.queue) > 0 {
		return
	}
	r.current = r.latest
	r.commit(r.latest)
}

// abort drops the generation in progress. Host mutations already applied
// stay applied.
func (r *Root) abort() {
	for i := len(r.undo) - 1; i >= 0; i-- {
		r.undo[i]()
	}
	r.undo = nil
	r.next = nil
	r.wip = nil
	r.task = nil
	r.phase, r.component = "", ""
	if len(r.queue) > 0 {
		r.ensureScheduled()
	}
}

func (r *Root) renderError(rec any) *errors.RenderError {
	if re, ok := rec.(*errors.RenderError); ok {
		return re
	}
	component, phase := r.component, r.phase
	if component == "" {
		component = "root"
	}
	if phase == "" {
		phase = "reconcile"
	}
	re := &errors.RenderError{
		Component:  component,
		Phase:      phase,
		Recovered:  rec,
		StackTrace: errors.CaptureStack(),
	}
	if err, ok := rec.(error); ok {
		re.Err = err
	}
	return re
}
