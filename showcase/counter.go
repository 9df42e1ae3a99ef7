package showcase

import (
	"github.com/go-redul/redul/pkg/core"
	"github.com/go-redul/redul/pkg/host/memhost"
)

// Counter shows a count with buttons to change it. The optional "initial"
// prop sets the starting count.
var Counter = core.NewComponent("Counter", func(ctx *core.Context, props core.Props) any {
	initial, _ := props["initial"].(int)
	count, set := core.UseState(ctx, initial)

	step := core.UseCallback(ctx, func(delta int) func() {
		return func() { set.Update(func(n int) int { return n + delta }) }
	}, core.Deps(set))

	return core.CreateElement("div", core.Props{"className": "counter"},
		core.CreateElement("button", core.Props{"className": "dec", "onClick": step(-1)}, "-"),
		core.CreateElement("span", core.Props{"className": "count"}, count),
		core.CreateElement("button", core.Props{"className": "inc", "onClick": step(1)}, "+"),
	)
})

func counterElement(Env) *core.Element {
	return core.CreateElement(Counter, nil)
}

func clickCounter(root *memhost.Node, step int) error {
	return dispatch(root, byClass("inc"), "click", nil)
}
