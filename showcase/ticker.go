package showcase

import (
	"fmt"
	"time"

	"github.com/go-redul/redul/pkg/core"
)

const (
	defaultInterval = 100 * time.Millisecond
	defaultLimit    = 5
)

// Ticker counts up every "interval" until it reaches "limit". Each tick is
// armed by an effect whose cleanup cancels the pending timer, so
// unmounting stops it.
var Ticker = core.NewComponent("Ticker", func(ctx *core.Context, props core.Props) any {
	after, _ := props["after"].(func(time.Duration, func()) func())
	interval, _ := props["interval"].(time.Duration)
	limit, _ := props["limit"].(int)

	n, set := core.UseState(ctx, 0)
	core.UseEffect(ctx, func() func() {
		if after == nil || n >= limit {
			return nil
		}
		return after(interval, func() { set.Update(func(n int) int { return n + 1 }) })
	}, core.Deps(n))

	label := fmt.Sprintf("tick %d", n)
	if n >= limit {
		label = "done"
	}
	return core.CreateElement("p", core.Props{"className": "ticker"}, label)
})

func tickerElement(env Env) *core.Element {
	interval, limit := env.Interval, env.Limit
	if interval <= 0 {
		interval = defaultInterval
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return core.CreateElement(Ticker, core.Props{
		"after":    env.After,
		"interval": interval,
		"limit":    limit,
	})
}
