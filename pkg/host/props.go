package host

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-redul/redul/internal/same"
)

// Create makes the host node for tag and applies props to it.
func Create(h Host, tag string, props map[string]any) Node {
	var n Node
	if tag == TextTag {
		n = h.CreateTextNode("")
	} else {
		n = h.CreateNode(tag)
	}
	for _, key := range sortedKeys(props) {
		apply(h, n, tag, key, props[key])
	}
	return n
}

// Update brings n from prev to next. Added or changed keys are applied,
// keys missing from next are removed.
func Update(h Host, n Node, tag string, prev, next map[string]any) {
	for _, key := range sortedKeys(prev) {
		if _, ok := next[key]; !ok {
			remove(h, n, tag, key, prev[key])
		}
	}
	for _, key := range sortedKeys(next) {
		old, had := prev[key]
		value := next[key]
		if had && same.Value(old, value) {
			continue
		}
		if had {
			if event, isEvent := EventName(key); isEvent {
				h.RemoveEventListener(n, event)
			} else if key == RefKey {
				setRef(old, nil)
			}
		}
		apply(h, n, tag, key, value)
	}
}

// EventName reports whether key is an event handler key ("on" followed
// by an upper-case letter) and returns the derived event name.
func EventName(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, "on")
	if !ok || rest == "" {
		return "", false
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", false
	}
	return strings.ToLower(rest), true
}

// AttributeName maps a prop key to the host attribute it sets.
func AttributeName(key string) string {
	switch key {
	case ClassNameKey:
		return "class"
	case HTMLForKey:
		return "for"
	}
	return key
}

func apply(h Host, n Node, tag, key string, value any) {
	if key == ChildrenKey {
		return
	}
	if key == RefKey {
		setRef(value, n)
		return
	}
	if event, ok := EventName(key); ok {
		if handler := toHandler(value); handler != nil {
			h.AddEventListener(n, event, handler)
		}
		return
	}
	if tag == TextTag {
		if key == NodeValueKey {
			h.SetText(n, formatText(value))
		}
		return
	}
	if value == nil {
		h.RemoveAttribute(n, AttributeName(key))
		return
	}
	h.SetAttribute(n, AttributeName(key), FormatAttribute(key, value))
}

func remove(h Host, n Node, tag, key string, old any) {
	if key == ChildrenKey {
		return
	}
	if key == RefKey {
		setRef(old, nil)
		return
	}
	if event, ok := EventName(key); ok {
		h.RemoveEventListener(n, event)
		return
	}
	if tag == TextTag {
		if key == NodeValueKey {
			h.SetText(n, "")
		}
		return
	}
	h.RemoveAttribute(n, AttributeName(key))
}

func setRef(ref any, n Node) {
	switch r := ref.(type) {
	case RefSetter:
		r.SetNode(n)
	case func(Node):
		r(n)
	case func(any):
		r(n)
	}
}

// Release clears the ref carried by props, if any.
func Release(props map[string]any) {
	if ref, ok := props[RefKey]; ok {
		setRef(ref, nil)
	}
}

func toHandler(v any) EventHandler {
	switch fn := v.(type) {
	case EventHandler:
		return fn
	case func(Event):
		return fn
	case func():
		return func(Event) { fn() }
	}
	return nil
}

func formatText(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// FormatAttribute renders a prop value as an attribute string. Style maps
// become "property: value" pairs joined by ";" in key order.
func FormatAttribute(key string, value any) string {
	if key == StyleKey {
		switch style := value.(type) {
		case map[string]string:
			parts := make([]string, 0, len(style))
			for _, k := range sortedKeys(style) {
				parts = append(parts, k+": "+style[k])
			}
			return strings.Join(parts, ";")
		case map[string]any:
			parts := make([]string, 0, len(style))
			for _, k := range sortedKeys(style) {
				parts = append(parts, fmt.Sprintf("%s: %v", k, style[k]))
			}
			return strings.Join(parts, ";")
		}
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
