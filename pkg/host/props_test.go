package host_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-redul/redul/pkg/host"
	"github.com/go-redul/redul/pkg/host/memhost"
)

type nodeRef struct{ node host.Node }

func (r *nodeRef) SetNode(n host.Node) { r.node = n }

func TestEventName(t *testing.T) {
	tests := []struct {
		key    string
		want   string
		wantOK bool
	}{
		{"onClick", "click", true},
		{"onMouseDown", "mousedown", true},
		{"one", "", false},
		{"on", "", false},
		{"online", "", false},
		{"className", "", false},
		{"buttonOnClick", "", false},
	}
	for _, tt := range tests {
		got, ok := host.EventName(tt.key)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("EventName(%q) = %q, %v; want %q, %v", tt.key, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFormatAttribute(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		want  string
	}{
		{"string", "id", "main", "main"},
		{"number", "tabIndex", 3, "3"},
		{"bool", "disabled", true, "true"},
		{"style any", "style", map[string]any{"width": "10px", "color": "red"}, "color: red;width: 10px"},
		{"style string", "style", map[string]string{"margin": "0"}, "margin: 0"},
		{"style text", "style", "color: blue", "color: blue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := host.FormatAttribute(tt.key, tt.value); got != tt.want {
				t.Errorf("FormatAttribute(%q, %v) = %q, want %q", tt.key, tt.value, got, tt.want)
			}
		})
	}
}

func TestCreateMapsReservedKeys(t *testing.T) {
	h := memhost.New()
	ref := &nodeRef{}
	clicks := 0

	n := host.Create(h, "label", map[string]any{
		"className":     "field",
		"htmlFor":       "name",
		"style":         map[string]any{"color": "red"},
		"ref":           ref,
		"onClick":       func() { clicks++ },
		host.ChildrenKey: []any{"ignored"},
	}).(*memhost.Node)

	want := map[string]string{"class": "field", "for": "name", "style": "color: red"}
	if diff := cmp.Diff(want, n.Attrs); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}
	if ref.node != n {
		t.Error("expected ref to receive the created node")
	}
	if !n.Dispatch("click", nil) || clicks != 1 {
		t.Errorf("expected click listener to run once, clicks = %d", clicks)
	}
}

func TestCreateTextNode(t *testing.T) {
	h := memhost.New()
	n := host.Create(h, host.TextTag, map[string]any{host.NodeValueKey: 42, host.ChildrenKey: nil}).(*memhost.Node)
	if !n.IsText() || n.Text != "42" {
		t.Errorf("text node = %q (%s), want text 42", n.Text, n.Tag)
	}
	if len(n.Attrs) != 0 {
		t.Errorf("text node should carry no attributes, got %v", n.Attrs)
	}
}

func TestUpdateAppliesOnlyTheDelta(t *testing.T) {
	h := memhost.New()
	first := func(host.Event) {}
	prev := map[string]any{
		"className": "a",
		"id":        "x",
		"title":     "keep",
		"onClick":   first,
		"children":  []any{1},
	}
	n := host.Create(h, "div", prev)
	h.Reset()

	next := map[string]any{
		"className": "b",
		"title":     "keep",
		"onInput":   first,
		"children":  []any{2},
	}
	host.Update(h, n, "div", prev, next)

	want := []string{
		`removeAttribute div#1 id`,
		`removeEventListener div#1 click`,
		`setAttribute div#1 class="b"`,
		`addEventListener div#1 input`,
	}
	if diff := cmp.Diff(want, h.MutationStrings()); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateRebindsChangedHandler(t *testing.T) {
	h := memhost.New()
	var got []string
	prev := map[string]any{"onClick": func() { got = append(got, "old") }}
	n := host.Create(h, "button", prev).(*memhost.Node)

	next := map[string]any{"onClick": func() { got = append(got, "new") }}
	host.Update(h, n, "button", prev, next)
	n.Dispatch("click", nil)

	if diff := cmp.Diff([]string{"new"}, got); diff != "" {
		t.Errorf("handlers mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateTextAndRef(t *testing.T) {
	h := memhost.New()
	text := host.Create(h, host.TextTag, map[string]any{host.NodeValueKey: "1"})
	host.Update(h, text, host.TextTag, map[string]any{host.NodeValueKey: "1"}, map[string]any{host.NodeValueKey: "2"})
	if got := text.(*memhost.Node).Text; got != "2" {
		t.Errorf("text = %q, want 2", got)
	}

	ref := &nodeRef{}
	n := host.Create(h, "input", map[string]any{"ref": ref})
	host.Update(h, n, "input", map[string]any{"ref": ref}, map[string]any{})
	if ref.node != nil {
		t.Error("expected a dropped ref to be cleared")
	}
}
