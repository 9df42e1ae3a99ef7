package testing

import (
	"fmt"
	"strings"

	"github.com/go-redul/redul/pkg/host/memhost"
)

// Finder locates nodes in the host tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *memhost.Node) []*memhost.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*memhost.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *memhost.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.description()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *memhost.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *memhost.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.description()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*memhost.Node { return r.nodes }

// Count returns the number of matches.
func (r FinderResult) Count() int { return len(r.nodes) }

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool { return len(r.nodes) > 0 }

func (r FinderResult) description() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// Find evaluates finder against the container's subtree.
func (t *Tester) Find(finder Finder) FinderResult {
	var nodes []*memhost.Node
	for _, c := range t.container.Children {
		nodes = append(nodes, finder.Evaluate(c)...)
	}
	return FinderResult{nodes: nodes, finder: finder}
}

type predicateFinder struct {
	match func(*memhost.Node) bool
	desc  string
}

func (f *predicateFinder) Evaluate(root *memhost.Node) []*memhost.Node {
	return root.FindAll(f.match)
}

func (f *predicateFinder) Description() string { return f.desc }

// ByTag matches element nodes with the given tag.
func ByTag(tag string) Finder {
	return &predicateFinder{
		match: func(n *memhost.Node) bool { return n.Tag == tag },
		desc:  fmt.Sprintf("ByTag(%q)", tag),
	}
}

// ByText matches element nodes whose text content equals text exactly.
func ByText(text string) Finder {
	return &predicateFinder{
		match: func(n *memhost.Node) bool { return !n.IsText() && n.TextContent() == text },
		desc:  fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining matches element nodes whose text content contains substr.
func ByTextContaining(substr string) Finder {
	return &predicateFinder{
		match: func(n *memhost.Node) bool { return !n.IsText() && strings.Contains(n.TextContent(), substr) },
		desc:  fmt.Sprintf("ByTextContaining(%q)", substr),
	}
}

// ByAttr matches nodes whose attribute name has value.
func ByAttr(name, value string) Finder {
	return &predicateFinder{
		match: func(n *memhost.Node) bool {
			v, ok := n.Attrs[name]
			return ok && v == value
		},
		desc: fmt.Sprintf("ByAttr(%s=%q)", name, value),
	}
}

// ByID matches nodes whose id attribute is id.
func ByID(id string) Finder {
	f := ByAttr("id", id).(*predicateFinder)
	f.desc = fmt.Sprintf("ByID(%q)", id)
	return f
}

// ByPredicate matches nodes satisfying fn.
func ByPredicate(desc string, fn func(*memhost.Node) bool) Finder {
	return &predicateFinder{match: fn, desc: desc}
}
