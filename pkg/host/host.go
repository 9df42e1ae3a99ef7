// Package host defines the boundary between the reconciler and the
// concrete display tree it keeps in sync.
//
// A Host owns the display nodes. The reconciler never inspects a node; it
// creates, links and mutates them through the Host methods. Create and
// Update translate element props into those calls, handling the reserved
// keys (class, style, ref, event handlers and children).
package host

// Node is an opaque handle to a host display node.
type Node any

// TextTag is the element type of synthetic text elements.
const TextTag = "#text"

// Reserved prop keys.
const (
	ChildrenKey  = "children"
	NodeValueKey = "nodeValue"
	RefKey       = "ref"
	ClassNameKey = "className"
	HTMLForKey   = "htmlFor"
	StyleKey     = "style"
)

// Host mutates a display tree.
type Host interface {
	CreateNode(tag string) Node
	CreateTextNode(text string) Node
	SetText(n Node, text string)

	SetAttribute(n Node, name, value string)
	RemoveAttribute(n Node, name string)

	// AddEventListener binds h as the listener for event, replacing any
	// listener already bound to that event.
	AddEventListener(n Node, event string, h EventHandler)
	RemoveEventListener(n Node, event string)

	AppendChild(parent, child Node)
	// InsertBefore inserts child before the existing child before. A nil
	// before appends.
	InsertBefore(parent, child, before Node)
	RemoveChild(parent, child Node)
	ReplaceChild(parent, newChild, oldChild Node)
	ClearChildren(n Node)
}

// Event is delivered to event listeners.
type Event struct {
	Type   string
	Target Node
	Data   any
}

// EventHandler handles a host event.
type EventHandler func(Event)

// RefSetter receives the host node created for an element carrying it
// under the ref key. A nil node means the element no longer carries it.
type RefSetter interface {
	SetNode(n Node)
}
