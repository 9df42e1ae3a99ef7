package core

import (
	"fmt"

	"github.com/go-redul/redul/pkg/host"
)

// Tag is the variant of a fiber.
type Tag int

const (
	// TagRoot is the fiber of a render container.
	TagRoot Tag = iota
	// TagHost is a fiber backed by a host node.
	TagHost
	// TagComponent is a fiber running a component.
	TagComponent
)

func (t Tag) String() string {
	switch t {
	case TagRoot:
		return "root"
	case TagHost:
		return "host"
	case TagComponent:
		return "component"
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// EffectTag classifies the host mutation a fiber needs. The order of the
// values matters: when a fiber accumulates several pending tags the
// greatest one wins.
type EffectTag int

const (
	EffectNothing EffectTag = iota
	EffectUpdate
	EffectReplace
	EffectAdd
	EffectRemove
)

func (e EffectTag) String() string {
	switch e {
	case EffectNothing:
		return "NOTHING"
	case EffectUpdate:
		return "UPDATE"
	case EffectReplace:
		return "REPLACE"
	case EffectAdd:
		return "ADD"
	case EffectRemove:
		return "REMOVE"
	}
	return fmt.Sprintf("EffectTag(%d)", int(e))
}

// Fiber is one element position in one generation of the work tree.
type Fiber struct {
	tag      Tag
	typ      ElementType
	props    Props
	children []*Element

	parent, child, sibling *Fiber
	// alternate is the fiber at the same position in the previous
	// generation. It is cleared on the alternate itself when adopted, so at
	// most two generations are linked.
	alternate *Fiber

	effectTag EffectTag
	effects   []*Fiber
	// replaced is the fiber whose host nodes a pending REPLACE or ADD must
	// tear down first.
	replaced *Fiber

	hooks       *hookList
	updateQueue []*effectState

	statNode     host.Node
	appliedProps Props

	isMount               bool
	isPartialStateChanged bool
}

func newFiber(el *Element, parent *Fiber) *Fiber {
	f := &Fiber{typ: el.Type, props: el.Props, parent: parent}
	if _, ok := el.Type.(*Component); ok {
		f.tag = TagComponent
	} else {
		f.tag = TagHost
		f.children = el.Children
	}
	return f
}

func (f *Fiber) Tag() Tag { return f.tag }
func (f *Fiber) Type() ElementType { return f.typ }
func (f *Fiber) Props() Props { return f.props }
func (f *Fiber) Parent() *Fiber { return f.parent }
func (f *Fiber) Child() *Fiber { return f.child }
func (f *Fiber) Sibling() *Fiber { return f.sibling }
func (f *Fiber) Alternate() *Fiber { return f.alternate }
func (f *Fiber) EffectTag() EffectTag { return f.effectTag }
func (f *Fiber) StatNode() host.Node { return f.statNode }
func (f *Fiber) IsMount() bool { return f.isMount }
func (f *Fiber) Name() string { return typeName(f.typ) }
func (f *Fiber) isHostParent() bool { return f.tag != TagComponent }
func (f *Fiber) hostTag() string { return string(f.typ.(HostTag)) }
func (f *Fiber) String() string { return fmt.Sprintf("%s<%s>", f.tag, f.Name()) }

// Children returns the fiber's child fibers in order.
func (f *Fiber) Children() []*Fiber {
	var out []*Fiber
	for c := f.child; c != nil; c = c.sibling {
		out = append(out, c)
	}
	return out
}

func maxEffect(a, b EffectTag) EffectTag {
	if a > b {
		return a
	}
	return b
}
