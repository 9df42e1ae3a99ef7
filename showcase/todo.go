package showcase

import (
	"fmt"

	"github.com/go-redul/redul/pkg/core"
	"github.com/go-redul/redul/pkg/host"
	"github.com/go-redul/redul/pkg/host/memhost"
)

// Todo is one item of a TodoList.
type Todo struct {
	ID   int
	Text string
	Done bool
}

type todoAction struct {
	add    string
	toggle int
	id     int
}

func todoReducer(items []Todo, a todoAction) []Todo {
	if a.add != "" {
		return append(items[:len(items):len(items)], Todo{ID: a.id, Text: a.add})
	}
	next := make([]Todo, len(items))
	for i, it := range items {
		if it.ID == a.toggle {
			it.Done = !it.Done
		}
		next[i] = it
	}
	return next
}

// TodoList keeps a list of todo items. Typing into the input and clicking
// add appends an item; clicking an item toggles it.
var TodoList = core.NewComponent("TodoList", func(ctx *core.Context, props core.Props) any {
	items, dispatch := core.UseReducer(ctx, todoReducer, nil)
	draft, setDraft := core.UseState(ctx, "")
	// Handlers read the latest draft from the ref; the state only drives
	// the rendered value.
	latest := core.UseRef(ctx, "")
	nextID := core.UseRef(ctx, 0)

	remaining := core.UseMemo(ctx, func() int {
		n := 0
		for _, it := range items {
			if !it.Done {
				n++
			}
		}
		return n
	}, core.Deps(items))

	onInput := func(e host.Event) {
		text, _ := e.Data.(string)
		latest.Current = text
		setDraft.Set(text)
	}
	onAdd := func() {
		if latest.Current == "" {
			return
		}
		nextID.Current++
		dispatch(todoAction{add: latest.Current, id: nextID.Current})
		latest.Current = ""
		setDraft.Set("")
	}

	rows := make([]any, len(items))
	for i, it := range items {
		class := "item"
		if it.Done {
			class = "item done"
		}
		id := it.ID
		rows[i] = core.CreateElement("li", core.Props{
			"className": class,
			"onClick":   func() { dispatch(todoAction{toggle: id}) },
		}, it.Text)
	}

	return core.CreateElement("div", core.Props{"className": "todo"},
		core.CreateElement("input", core.Props{"className": "draft", "value": draft, "onInput": onInput}),
		core.CreateElement("button", core.Props{"className": "add", "onClick": onAdd}, "add"),
		core.CreateElement("ul", nil, rows...),
		core.CreateElement("p", core.Props{"className": "remaining"}, fmt.Sprintf("%d left", remaining)),
	)
})

func todoElement(Env) *core.Element {
	return core.CreateElement(TodoList, nil)
}

// addTodo types and adds an item, and on odd steps also completes the
// first open item.
func addTodo(root *memhost.Node, step int) error {
	if step%2 == 1 {
		if err := dispatch(root, byClass("item"), "click", nil); err != nil {
			return err
		}
	}
	if err := dispatch(root, byClass("draft"), "input", fmt.Sprintf("task %d", step+1)); err != nil {
		return err
	}
	return dispatch(root, byClass("add"), "click", nil)
}
