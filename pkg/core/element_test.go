package core

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-redul/redul/pkg/host"
)

type label string

func nodeValues(els []*Element) []any {
	var out []any
	for _, el := range els {
		if el.Type != TextTag {
			out = append(out, typeName(el.Type))
			continue
		}
		out = append(out, el.Props[host.NodeValueKey])
	}
	return out
}

func TestChildrenNormalization(t *testing.T) {
	span := CreateElement("span", nil)
	got := Children(
		"a",
		nil,
		false,
		[]any{"b", nil, true, span},
		[]string{"c", "d"},
		3,
		label("x"),
	)
	want := []any{"a", "b", "span", "c", "d", 3, "x"}
	if diff := cmp.Diff(want, nodeValues(got)); diff != "" {
		t.Errorf("Children mismatch (-want +got):\n%s", diff)
	}
	if got[2] != span {
		t.Error("element children should be kept as is")
	}
}

func TestChildrenEmpty(t *testing.T) {
	if got := Children(nil, true, []any{}); len(got) != 0 {
		t.Errorf("expected no children, got %d", len(got))
	}
	var nilElement *Element
	if got := Children(nilElement); len(got) != 0 {
		t.Errorf("expected a nil *Element to be dropped, got %d", len(got))
	}
}

func TestCreateElement(t *testing.T) {
	props := Props{"id": "main"}
	el := CreateElement("div", props, "hello", CreateElement("b", nil))

	if el.Type != HostTag("div") {
		t.Errorf("Type = %v, want div", el.Type)
	}
	if _, ok := props[host.ChildrenKey]; ok {
		t.Error("CreateElement must not modify the caller's props")
	}
	if el.Props["id"] != "main" {
		t.Errorf("id = %v, want main", el.Props["id"])
	}
	children := el.Props.Children()
	if len(children) != 2 || len(el.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}
	if children[0].Type != TextTag || children[0].Props[host.NodeValueKey] != "hello" {
		t.Errorf("first child should be the text hello, got %v", children[0].Props)
	}

	comp := NewComponent("App", func(*Context, Props) any { return nil })
	if el := CreateElement(comp, nil); el.Type != comp {
		t.Errorf("component element has type %v", el.Type)
	}
}

func TestCreateElementInvalidType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an invalid element type")
		}
	}()
	CreateElement(42, nil)
}

func TestComponentName(t *testing.T) {
	if got := NewComponent("", nil).String(); got != "Anonymous" {
		t.Errorf("String() = %q, want Anonymous", got)
	}
	if got := typeName(NewComponent("Counter", nil)); got != "Counter" {
		t.Errorf("typeName = %q, want Counter", got)
	}
}

func TestDepsEqual(t *testing.T) {
	obj := &struct{}{}
	tests := []struct {
		name       string
		prev, next []any
		want       bool
	}{
		{"both nil", nil, nil, false},
		{"prev nil", nil, Deps(), false},
		{"next nil", Deps(), nil, false},
		{"both empty", Deps(), Deps(), true},
		{"same values", Deps(1, "a", obj), Deps(1, "a", obj), true},
		{"changed value", Deps(1, "a"), Deps(1, "b"), false},
		{"NaN", Deps(math.NaN()), Deps(math.NaN()), true},
		{"signed zero", Deps(0.0), Deps(math.Copysign(0, -1)), false},
		{"other pointer", Deps(obj), Deps(&struct{}{}), false},
		// Only the shorter prefix is compared.
		{"grown", Deps(1), Deps(1, 2), true},
		{"shrunk", Deps(1, 2), Deps(1), true},
		{"grown from empty", Deps(), Deps(1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := depsEqual(tt.prev, tt.next); got != tt.want {
				t.Errorf("depsEqual(%v, %v) = %v, want %v", tt.prev, tt.next, got, tt.want)
			}
		})
	}
}

func TestMaxEffect(t *testing.T) {
	order := []EffectTag{EffectNothing, EffectUpdate, EffectReplace, EffectAdd, EffectRemove}
	for i, a := range order {
		for j, b := range order {
			want := order[max(i, j)]
			if got := maxEffect(a, b); got != want {
				t.Errorf("maxEffect(%v, %v) = %v, want %v", a, b, got, want)
			}
		}
	}
}

func TestAdoptMergesPendingTag(t *testing.T) {
	props := Props{"id": "a"}
	old := &Fiber{tag: TagHost, typ: HostTag("div"), props: props, effectTag: EffectAdd, statNode: "node"}
	f := newFiber(&Element{Type: HostTag("div"), Props: props}, nil)

	r := &Root{}
	r.adopt(f, old)

	if f.effectTag != EffectAdd {
		t.Errorf("effectTag = %v, want ADD", f.effectTag)
	}
	if old.effectTag != EffectNothing {
		t.Errorf("old effectTag = %v, want NOTHING", old.effectTag)
	}
	if f.alternate != old || f.statNode != "node" {
		t.Error("same-type fiber should link its alternate and inherit the host node")
	}

	r.abort()
	if old.effectTag != EffectAdd {
		t.Errorf("abort should restore the pending tag, got %v", old.effectTag)
	}
}

func TestAdoptTypeChange(t *testing.T) {
	old := &Fiber{tag: TagHost, typ: HostTag("span"), props: Props{}, statNode: "node"}
	f := newFiber(&Element{Type: HostTag("p"), Props: Props{}}, nil)

	r := &Root{}
	r.adopt(f, old)

	if f.effectTag != EffectReplace {
		t.Errorf("effectTag = %v, want REPLACE", f.effectTag)
	}
	if f.replaced != old {
		t.Error("REPLACE should remember the fiber it replaces")
	}
	if f.alternate != nil || f.statNode != nil {
		t.Error("a fiber of another type must not inherit from the old one")
	}
}

func TestAdoptUpdate(t *testing.T) {
	old := &Fiber{tag: TagHost, typ: HostTag("p"), props: Props{"id": "a"}}
	f := newFiber(&Element{Type: HostTag("p"), Props: Props{"id": "a"}}, nil)

	(&Root{}).adopt(f, old)
	if f.effectTag != EffectUpdate {
		t.Errorf("new props should give UPDATE, got %v", f.effectTag)
	}

	g := newFiber(&Element{Type: HostTag("p")}, nil)
	(&Root{}).adopt(g, nil)
	if g.effectTag != EffectAdd {
		t.Errorf("a fiber without predecessor should be ADD, got %v", g.effectTag)
	}
}

func TestEffectTagString(t *testing.T) {
	if got := EffectReplace.String(); got != "REPLACE" {
		t.Errorf("String() = %q", got)
	}
	if got := EffectTag(9).String(); got != "EffectTag(9)" {
		t.Errorf("String() = %q", got)
	}
	if got := TagComponent.String(); got != "component" {
		t.Errorf("String() = %q", got)
	}
}
