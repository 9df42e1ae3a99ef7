// Package showcase holds small redul apps used by the command line driver
// and as end-to-end tests of the runtime.
package showcase

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-redul/redul/pkg/core"
	"github.com/go-redul/redul/pkg/host/memhost"
)

// Env is what a demo gets from its driver.
type Env struct {
	// After runs fn once d has passed, on the goroutine driving the
	// renderer. The returned func cancels it.
	After func(d time.Duration, fn func()) (cancel func())
	// Interval is the tick period of timed demos.
	Interval time.Duration
	// Limit bounds how many times timed demos tick.
	Limit int
}

// Demo is a runnable showcase app.
type Demo struct {
	Name        string
	Description string
	// Element builds the root element.
	Element func(env Env) *core.Element
	// Interact simulates the step-th user interaction against the
	// rendered tree. Nil for demos that run on their own.
	Interact func(root *memhost.Node, step int) error
}

// demos is the registry of showcase apps.
var demos = []Demo{
	{"counter", "Increment and decrement a counter", counterElement, clickCounter},
	{"todo", "Add and complete todo items", todoElement, addTodo},
	{"ticker", "Tick on a timer and clean up when done", tickerElement, nil},
}

// Lookup returns the demo called name.
func Lookup(name string) (Demo, error) {
	for _, d := range demos {
		if d.Name == name {
			return d, nil
		}
	}
	return Demo{}, fmt.Errorf("unknown app %q (available: %v)", name, Names())
}

// Names lists the registered demos in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(demos))
	for _, d := range demos {
		names = append(names, d.Name)
	}
	sort.Strings(names)
	return names
}

func dispatch(root *memhost.Node, match func(*memhost.Node) bool, event string, data any) error {
	n := root.Find(match)
	if n == nil {
		return fmt.Errorf("no node to receive %q", event)
	}
	if !n.Dispatch(event, data) {
		return fmt.Errorf("%s has no %q listener", n.Label(), event)
	}
	return nil
}

func byClass(class string) func(*memhost.Node) bool {
	return func(n *memhost.Node) bool { return n.Attrs["class"] == class }
}
