package testing

import "fmt"

// Dispatch delivers event to the first node matched by finder, then pumps.
func (t *Tester) Dispatch(finder Finder, event string, data any) error {
	result := t.Find(finder)
	if !result.Exists() {
		return fmt.Errorf("Dispatch: finder matched no nodes: %s", finder.Description())
	}
	node := result.First()
	if !node.Dispatch(event, data) {
		return fmt.Errorf("Dispatch: %s has no %q listener: %s", node.Label(), event, finder.Description())
	}
	t.Pump()
	return nil
}

// Click dispatches a click event to the first node matched by finder.
func (t *Tester) Click(finder Finder) error {
	return t.Dispatch(finder, "click", nil)
}

// Input dispatches an input event carrying value.
func (t *Tester) Input(finder Finder, value string) error {
	return t.Dispatch(finder, "input", value)
}
