package core

import (
	"fmt"
	"reflect"

	"github.com/go-redul/redul/pkg/host"
)

// ElementType is the type of an element: a HostTag or a *Component.
type ElementType interface {
	elementType()
}

// HostTag is the type of elements rendered directly as host nodes.
type HostTag string

func (HostTag) elementType() {}

func (t HostTag) String() string { return string(t) }

// TextTag is the type of synthetic text elements.
const TextTag = HostTag(host.TextTag)

// RenderFunc renders a component.
type RenderFunc func(ctx *Context, props Props) any

// Component is a named render function. Two elements have the same type
// only if they point to the same Component.
type Component struct {
	Name   string
	Render RenderFunc
}

func (*Component) elementType() {}

func (c *Component) String() string {
	if c.Name == "" {
		return "Anonymous"
	}
	return c.Name
}

// NewComponent declares a component.
func NewComponent(name string, render RenderFunc) *Component {
	return &Component{Name: name, Render: render}
}

// Props are element properties. The reconciler compares whole Props
// values by identity only.
type Props map[string]any

// Children returns the children stored under the children key.
func (p Props) Children() []*Element {
	children, _ := p[host.ChildrenKey].([]*Element)
	return children
}

// Element describes one node of the tree to render. Elements are never
// mutated after creation.
type Element struct {
	Type     ElementType
	Props    Props
	Children []*Element
}

// CreateElement builds an element. typ is a string, HostTag or
// *Component. props is copied into a fresh map that also holds the
// normalized children under the children key.
func CreateElement(typ any, props Props, children ...any) *Element {
	var et ElementType
	switch t := typ.(type) {
	case string:
		et = HostTag(t)
	case HostTag:
		et = t
	case *Component:
		et = t
	default:
		panic(fmt.Sprintf("core: invalid element type %T", typ))
	}

	merged := make(Props, len(props)+1)
	for k, v := range props {
		merged[k] = v
	}
	normalized := Children(children...)
	merged[host.ChildrenKey] = normalized
	return &Element{Type: et, Props: merged, Children: normalized}
}

// Text creates a text element for v.
func Text(v any) *Element {
	return &Element{Type: TextTag, Props: Props{host.NodeValueKey: v}}
}

// Children normalizes render output into a flat list of elements. Nested
// slices are flattened, nil and bool values are dropped and anything else
// that is not an element becomes a text element.
func Children(values ...any) []*Element {
	var out []*Element
	for _, v := range values {
		out = appendChild(out, v)
	}
	return out
}

func appendChild(out []*Element, v any) []*Element {
	switch c := v.(type) {
	case nil, bool:
		return out
	case *Element:
		if c == nil {
			return out
		}
		return append(out, c)
	case []*Element:
		for _, e := range c {
			out = appendChild(out, e)
		}
		return out
	case []any:
		for _, e := range c {
			out = appendChild(out, e)
		}
		return out
	case string, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return append(out, Text(c))
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			out = appendChild(out, rv.Index(i).Interface())
		}
		return out
	}
	return append(out, Text(fmt.Sprint(v)))
}

func typeName(t ElementType) string {
	switch tt := t.(type) {
	case HostTag:
		return string(tt)
	case *Component:
		return tt.String()
	}
	return "<nil>"
}
