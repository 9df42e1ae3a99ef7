// Package memhost is an in-memory host tree. Every mutation made through
// the Host methods is appended to a log, which makes it the host of
// choice for tests and for the command line driver.
package memhost

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/go-redul/redul/pkg/host"
)

// Node is an in-memory display node.
type Node struct {
	ID        int
	Tag       string
	Text      string
	Attrs     map[string]string
	Parent    *Node
	Children  []*Node
	listeners map[string]host.EventHandler
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.Tag == host.TextTag }

// Label identifies n in mutation logs, e.g. "div#3".
func (n *Node) Label() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d", n.Tag, n.ID)
}

// HasListener reports whether a listener is bound for event.
func (n *Node) HasListener(event string) bool {
	_, ok := n.listeners[event]
	return ok
}

// Dispatch delivers an event to the listener bound on n. It reports
// whether a listener ran.
func (n *Node) Dispatch(event string, data any) bool {
	h, ok := n.listeners[event]
	if !ok {
		return false
	}
	h(host.Event{Type: event, Target: n, Data: data})
	return true
}

// TextContent concatenates the text of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// Find returns the first node in pre-order for which match is true.
func (n *Node) Find(match func(*Node) bool) *Node {
	if match(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node in pre-order for which match is true.
func (n *Node) FindAll(match func(*Node) bool) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(c *Node) {
		if match(c) {
			out = append(out, c)
		}
		for _, child := range c.Children {
			walk(child)
		}
	}
	walk(n)
	return out
}

// String renders the children of n as HTML-like markup.
func (n *Node) String() string {
	var sb strings.Builder
	for _, c := range n.Children {
		c.write(&sb)
	}
	return sb.String()
}

// OuterString renders n itself and its subtree.
func (n *Node) OuterString() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n.IsText() {
		sb.WriteString(n.Text)
		return
	}
	sb.WriteString("<")
	sb.WriteString(n.Tag)
	names := make([]string, 0, len(n.Attrs))
	for name := range n.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(sb, " %s=%q", name, n.Attrs[name])
	}
	sb.WriteString(">")
	for _, c := range n.Children {
		c.write(sb)
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteString(">")
}

func (n *Node) indexOf(child *Node) int {
	return slices.Index(n.Children, child)
}

func (n *Node) detach(child *Node) {
	if i := n.indexOf(child); i >= 0 {
		n.Children = slices.Delete(n.Children, i, i+1)
	}
	child.Parent = nil
}

// Mutation is one logged host operation.
type Mutation struct {
	Op     string
	Target string
	Args   []string
}

func (m Mutation) String() string {
	if len(m.Args) == 0 {
		return m.Op + " " + m.Target
	}
	return m.Op + " " + m.Target + " " + strings.Join(m.Args, " ")
}

// Host implements host.Host over Node trees.
type Host struct {
	nextID int
	log    []Mutation
}

// New creates an empty host.
func New() *Host {
	return &Host{}
}

var _ host.Host = (*Host)(nil)

// NewContainer creates a detached node to render into. Containers are not
// logged.
func (h *Host) NewContainer(tag string) *Node {
	return h.newNode(tag)
}

func (h *Host) newNode(tag string) *Node {
	h.nextID++
	return &Node{ID: h.nextID, Tag: tag, Attrs: map[string]string{}}
}

func (h *Host) record(op string, target *Node, args ...string) {
	h.log = append(h.log, Mutation{Op: op, Target: target.Label(), Args: args})
}

// Mutations returns the log since the last Reset.
func (h *Host) Mutations() []Mutation {
	return slices.Clone(h.log)
}

// MutationStrings returns the log as strings.
func (h *Host) MutationStrings() []string {
	out := make([]string, len(h.log))
	for i, m := range h.log {
		out[i] = m.String()
	}
	return out
}

// Reset clears the mutation log.
func (h *Host) Reset() {
	h.log = nil
}

func (h *Host) CreateNode(tag string) host.Node {
	n := h.newNode(tag)
	h.record("create", n)
	return n
}

func (h *Host) CreateTextNode(text string) host.Node {
	n := h.newNode(host.TextTag)
	n.Text = text
	h.record("create", n)
	return n
}

func (h *Host) SetText(node host.Node, text string) {
	n := node.(*Node)
	n.Text = text
	h.record("setText", n, fmt.Sprintf("%q", text))
}

func (h *Host) SetAttribute(node host.Node, name, value string) {
	n := node.(*Node)
	n.Attrs[name] = value
	h.record("setAttribute", n, name+"="+fmt.Sprintf("%q", value))
}

func (h *Host) RemoveAttribute(node host.Node, name string) {
	n := node.(*Node)
	delete(n.Attrs, name)
	h.record("removeAttribute", n, name)
}

func (h *Host) AddEventListener(node host.Node, event string, handler host.EventHandler) {
	n := node.(*Node)
	if n.listeners == nil {
		n.listeners = map[string]host.EventHandler{}
	}
	n.listeners[event] = handler
	h.record("addEventListener", n, event)
}

func (h *Host) RemoveEventListener(node host.Node, event string) {
	n := node.(*Node)
	delete(n.listeners, event)
	h.record("removeEventListener", n, event)
}

func (h *Host) AppendChild(parent, child host.Node) {
	p, c := parent.(*Node), child.(*Node)
	if c.Parent != nil {
		c.Parent.detach(c)
	}
	p.Children = append(p.Children, c)
	c.Parent = p
	h.record("appendChild", p, c.Label())
}

func (h *Host) InsertBefore(parent, child, before host.Node) {
	p, c := parent.(*Node), child.(*Node)
	ref, _ := before.(*Node)
	if ref == nil || p.indexOf(ref) < 0 {
		h.AppendChild(parent, child)
		return
	}
	if c.Parent != nil {
		c.Parent.detach(c)
	}
	i := p.indexOf(ref)
	p.Children = slices.Insert(p.Children, i, c)
	c.Parent = p
	h.record("insertBefore", p, c.Label(), ref.Label())
}

func (h *Host) RemoveChild(parent, child host.Node) {
	p, c := parent.(*Node), child.(*Node)
	p.detach(c)
	h.record("removeChild", p, c.Label())
}

func (h *Host) ReplaceChild(parent, newChild, oldChild host.Node) {
	p, nc, oc := parent.(*Node), newChild.(*Node), oldChild.(*Node)
	i := p.indexOf(oc)
	if i < 0 {
		h.AppendChild(parent, newChild)
		return
	}
	if nc.Parent != nil {
		nc.Parent.detach(nc)
		i = p.indexOf(oc)
	}
	p.Children[i] = nc
	nc.Parent = p
	oc.Parent = nil
	h.record("replaceChild", p, nc.Label(), oc.Label())
}

func (h *Host) ClearChildren(node host.Node) {
	n := node.(*Node)
	for _, c := range n.Children {
		c.Parent = nil
	}
	n.Children = nil
	h.record("clearChildren", n)
}
