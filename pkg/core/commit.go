package core

import (
	"github.com/go-redul/redul/pkg/host"
)

// CommitRecord describes one applied effect.
type CommitRecord struct {
	Effect EffectTag
	Type   string
	Node   host.Node
}

// commitState tracks host nodes detached during one commit.
type commitState struct {
	h       host.Host
	removed map[host.Node]bool
	records []CommitRecord
}

// commit applies the root's effect list in order and resets every tag.
func (r *Root) commit(root *Fiber) {
	effects := root.effects
	root.effects = nil

	cs := &commitState{h: r.renderer.host, removed: map[host.Node]bool{}}
	for _, f := range effects {
		tag := f.effectTag
		if tag == EffectNothing {
			continue
		}
		r.phase, r.component = "commit", f.Name()
		switch tag {
		case EffectAdd, EffectReplace:
			cs.place(f)
		case EffectUpdate:
			if f.tag == TagHost && f.statNode != nil {
				host.Update(cs.h, f.statNode, f.hostTag(), f.appliedProps, f.props)
				f.appliedProps = f.props
			}
		case EffectRemove:
			cs.teardown(f)
		}
		f.effectTag = EffectNothing
		f.replaced = nil
		cs.records = append(cs.records, CommitRecord{Effect: tag, Type: f.Name(), Node: f.statNode})
	}
	r.phase, r.component = "", ""
	r.commits++

	if fn := r.renderer.onCommit; fn != nil {
		fn(r.container, cs.records)
	}
}

// place puts f's host node into the tree, first tearing down whatever
// f replaces. A host replacing a placed host node is swapped in place.
func (cs *commitState) place(f *Fiber) {
	old := f.replaced
	if old != nil && f.tag == TagHost && old.tag == TagHost && old.statNode != nil && !cs.removed[old.statNode] {
		cs.unmount(old)
		if old.replaced != nil {
			cs.teardown(old.replaced)
		}
		parent := hostParent(f)
		node := host.Create(cs.h, f.hostTag(), f.props)
		if parent != nil {
			cs.h.ReplaceChild(parent, node, old.statNode)
		}
		cs.removed[old.statNode] = true
		f.statNode, f.appliedProps = node, f.props
		return
	}

	if old != nil {
		cs.teardown(old)
	}
	if f.tag != TagHost {
		return
	}
	node := host.Create(cs.h, f.hostTag(), f.props)
	f.statNode, f.appliedProps = node, f.props
	if parent := hostParent(f); parent != nil {
		cs.h.InsertBefore(parent, node, hostSibling(f))
	}
}

// teardown detaches the top-level host nodes of f's subtree and runs the
// cleanup of every effect in it, including what f itself still replaces.
func (cs *commitState) teardown(f *Fiber) {
	parent := hostParent(f)
	for _, n := range topHostNodes(f, nil) {
		if cs.removed[n] {
			continue
		}
		cs.removed[n] = true
		if parent != nil {
			cs.h.RemoveChild(parent, n)
		}
	}
	cs.unmount(f)
	if f.replaced != nil {
		cs.teardown(f.replaced)
	}
}

func (cs *commitState) unmount(f *Fiber) {
	if f.tag == TagHost {
		host.Release(f.appliedProps)
	}
	if f.tag == TagComponent && f.hooks != nil && !f.hooks.unmounted {
		f.hooks.unmounted = true
		for h := f.hooks.head; h != nil; h = h.next {
			if st, ok := h.state.(*effectState); ok && st.destroy != nil {
				destroy := st.destroy
				st.destroy = nil
				destroy()
			}
		}
	}
	cs.unmountChildren(f)
}

func (cs *commitState) unmountChildren(f *Fiber) {
	for c := f.child; c != nil; c = c.sibling {
		cs.unmount(c)
	}
}

// topHostNodes collects the outermost placed host nodes under f.
func topHostNodes(f *Fiber, out []host.Node) []host.Node {
	if f.tag == TagHost {
		if f.statNode != nil {
			out = append(out, f.statNode)
		}
		return out
	}
	for c := f.child; c != nil; c = c.sibling {
		out = topHostNodes(c, out)
	}
	return out
}

// hostParent returns the host node of the nearest host or root ancestor.
func hostParent(f *Fiber) host.Node {
	for p := f.parent; p != nil; p = p.parent {
		if p.isHostParent() {
			return p.statNode
		}
	}
	return nil
}

// hostSibling finds the host node f must be inserted before: the first
// placed host node that follows f under the same host parent.
func hostSibling(f *Fiber) host.Node {
	node := f
siblings:
	for {
		for node.sibling == nil {
			if node.parent == nil || node.parent.isHostParent() {
				return nil
			}
			node = node.parent
		}
		node = node.sibling

		for node.tag == TagComponent {
			if node.effectTag == EffectAdd || node.effectTag == EffectReplace || node.child == nil {
				continue siblings
			}
			node = node.child
		}

		if node.effectTag == EffectAdd || node.effectTag == EffectReplace {
			if old := node.replaced; old != nil && old.tag == TagHost && old.statNode != nil {
				return old.statNode
			}
			continue
		}
		if node.statNode != nil {
			return node.statNode
		}
	}
}
