package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-redul/redul/pkg/core"
	"github.com/go-redul/redul/pkg/host"
	"github.com/go-redul/redul/pkg/scheduler"
)

// counter renders a labelled count and a button incrementing it.
var counter = core.NewComponent("Counter", func(ctx *core.Context, props core.Props) any {
	initial, _ := props["initial"].(int)
	n, set := core.UseState(ctx, initial)
	return core.CreateElement("div", core.Props{"id": "counter"},
		core.CreateElement("span", core.Props{"className": "count"}, n),
		core.CreateElement("button", core.Props{
			"onClick": func() { set.Update(func(n int) int { return n + 1 }) },
		}, "+"),
	)
})

func TestNewTester_Defaults(t *testing.T) {
	tester := NewTesterWithT(t)

	if tester.Host() == nil || tester.Clock() == nil || tester.Scheduler() == nil {
		t.Fatal("expected host, clock and scheduler to be set")
	}
	if tester.Root() != nil {
		t.Error("no root should exist before the first render")
	}
	if tester.Host().FrameLength() != scheduler.DefaultFrameLength {
		t.Errorf("frame length = %v, want %v", tester.Host().FrameLength(), scheduler.DefaultFrameLength)
	}
}

func TestRender_MountsTree(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.Render(core.CreateElement(counter, core.Props{"initial": 4}))

	want := `<div id="counter"><span class="count">4</span><button>+</button></div>`
	if got := tester.HTML(); got != want {
		t.Errorf("HTML = %s, want %s", got, want)
	}
	if tester.Root() == nil || tester.Root().Current() == nil {
		t.Fatal("expected a committed root after Render")
	}
	if tester.Host().HasPendingCallback() {
		t.Error("Render should pump until idle")
	}
	if len(tester.Commits()) != 1 {
		t.Errorf("commits = %d, want 1", len(tester.Commits()))
	}
}

func TestCleanup_Unmounts(t *testing.T) {
	tester := NewTester()
	cleaned := false
	App := core.NewComponent("App", func(ctx *core.Context, props core.Props) any {
		core.UseEffect(ctx, func() func() {
			return func() { cleaned = true }
		}, core.Deps())
		return "app"
	})
	tester.Render(core.CreateElement(App, nil))

	tester.Cleanup()
	if !cleaned {
		t.Error("Cleanup should run effect cleanups")
	}
	if got := tester.HTML(); got != "" {
		t.Errorf("HTML after cleanup = %q, want empty", got)
	}
}

func TestPumpAndSettle_DelayedWork(t *testing.T) {
	tester := NewTesterWithT(t)
	var set *core.Setter[string]
	App := core.NewComponent("App", func(ctx *core.Context, props core.Props) any {
		s, setter := core.UseState(ctx, "waiting")
		set = setter
		return s
	})
	tester.Render(core.CreateElement(App, nil))

	tester.Scheduler().ScheduleCallback(scheduler.NormalPriority, func(bool) scheduler.Callback {
		set.Set("done")
		return nil
	}, scheduler.WithDelay(100*time.Millisecond))

	tester.Pump()
	if got := tester.HTML(); got != "waiting" {
		t.Errorf("delayed work should not run on Pump, got %s", got)
	}
	start := tester.Clock().Now()
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Fatal(err)
	}
	if got := tester.HTML(); got != "done" {
		t.Errorf("HTML = %s, want done", got)
	}
	if elapsed := tester.Clock().Now().Sub(start); elapsed != 100*time.Millisecond {
		t.Errorf("clock advanced %v, want 100ms", elapsed)
	}
}

func TestPumpAndSettle_Timeout(t *testing.T) {
	tester := NewTesterWithT(t)
	var tick func(bool) scheduler.Callback
	tick = func(bool) scheduler.Callback {
		tester.Scheduler().ScheduleCallback(scheduler.NormalPriority, tick, scheduler.WithDelay(time.Second))
		return nil
	}
	tester.Scheduler().ScheduleCallback(scheduler.NormalPriority, tick)

	err := tester.PumpAndSettle(5 * time.Second)
	if !errors.Is(err, ErrSettleTimeout) {
		t.Errorf("expected ErrSettleTimeout, got %v", err)
	}
}

func TestMutationsAndReset(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.Render(core.CreateElement("p", nil, "a"))
	if len(tester.Mutations()) == 0 {
		t.Fatal("expected mutations from the first render")
	}

	tester.ResetMutations()
	if len(tester.Mutations()) != 0 {
		t.Error("ResetMutations should clear the log")
	}
	tester.Render(core.CreateElement("p", nil, "b"))
	if got := tester.Mutations(); len(got) != 1 || got[0] != `setText #text#3 "b"` {
		t.Errorf("mutations = %v", got)
	}
}

func TestLastCommitEmpty(t *testing.T) {
	tester := NewTesterWithT(t)
	if tester.LastCommit() != nil {
		t.Error("LastCommit should be nil before any commit")
	}
}

func TestDispatch(t *testing.T) {
	tester := NewTesterWithT(t)
	var got []string
	App := core.NewComponent("App", func(ctx *core.Context, props core.Props) any {
		return core.CreateElement("input", core.Props{
			"onInput": func(e host.Event) { got = append(got, e.Data.(string)) },
		})
	})
	tester.Render(core.CreateElement(App, nil))

	if err := tester.Input(ByTag("input"), "hello"); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "hello" {
		t.Errorf("input handler received %v", got)
	}
	if err := tester.Click(ByTag("input")); err == nil {
		t.Error("expected an error for a node without a click listener")
	}
	if err := tester.Click(ByTag("select")); err == nil {
		t.Error("expected an error when nothing matches")
	}
}

func TestClickCounter(t *testing.T) {
	tester := NewTesterWithT(t)
	tester.Render(core.CreateElement(counter, nil))

	for range 2 {
		if err := tester.Click(ByTag("button")); err != nil {
			t.Fatal(err)
		}
	}
	if got := tester.Find(ByAttr("class", "count")).First().TextContent(); got != "2" {
		t.Errorf("count = %s, want 2", got)
	}
}
