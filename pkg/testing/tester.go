package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-redul/redul/pkg/core"
	"github.com/go-redul/redul/pkg/host"
	"github.com/go-redul/redul/pkg/host/memhost"
	"github.com/go-redul/redul/pkg/scheduler"
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: scheduler did not settle")

// Tester renders components into an in-memory host tree on a fake host,
// so tests decide exactly when scheduled work runs.
type Tester struct {
	host      *FakeHost
	sched     *scheduler.Scheduler
	dom       *memhost.Host
	container *memhost.Node
	renderer  *core.Renderer
	commits   [][]core.CommitRecord
}

// NewTester creates a tester with a fresh clock, host, scheduler and
// container.
func NewTester(opts ...core.RendererOption) *Tester {
	t := &Tester{
		host: NewFakeHost(nil),
		dom:  memhost.New(),
	}
	t.sched = scheduler.New(t.host)
	t.container = t.dom.NewContainer("root")
	opts = append([]core.RendererOption{core.WithOnCommit(t.recordCommit)}, opts...)
	t.renderer = core.NewRenderer(t.sched, t.dom, opts...)
	return t
}

// NewTesterWithT creates a tester that unmounts its tree via t.Cleanup().
// This is the recommended constructor for tests.
func NewTesterWithT(t *testing.T, opts ...core.RendererOption) *Tester {
	tester := NewTester(opts...)
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the rendered tree so effect cleanups run.
func (t *Tester) Cleanup() {
	if t.renderer.Root(t.container) == nil {
		return
	}
	defer func() { _ = recover() }()
	t.renderer.Render(nil, t.container)
	t.host.RunUntilIdle()
}

func (t *Tester) recordCommit(_ host.Node, records []core.CommitRecord) {
	t.commits = append(t.commits, records)
}

// Host returns the fake scheduler host.
func (t *Tester) Host() *FakeHost { return t.host }

// Clock returns the fake clock.
func (t *Tester) Clock() *FakeClock { return t.host.Clock() }

// Scheduler returns the scheduler render work runs on.
func (t *Tester) Scheduler() *scheduler.Scheduler { return t.sched }

// Renderer returns the renderer.
func (t *Tester) Renderer() *core.Renderer { return t.renderer }

// DOM returns the in-memory host.
func (t *Tester) DOM() *memhost.Host { return t.dom }

// Container returns the node the tester renders into.
func (t *Tester) Container() *memhost.Node { return t.container }

// Root returns the reconciler root of the container.
func (t *Tester) Root() *core.Root { return t.renderer.Root(t.container) }

// Render schedules el into the container and pumps until idle.
func (t *Tester) Render(el *core.Element) {
	t.renderer.Render(el, t.container)
	t.Pump()
}

// Pump runs scheduled work until the host has no callback pending.
// Delayed tasks are not promoted; use PumpAndSettle for those.
func (t *Tester) Pump() {
	t.host.RunUntilIdle()
}

// PumpAndSettle pumps, then keeps advancing the clock to the next armed
// timeout and pumping again, until nothing is scheduled or timeout of fake
// time has passed.
func (t *Tester) PumpAndSettle(timeout time.Duration) error {
	deadline := t.Clock().Now().Add(timeout)
	for {
		t.Pump()
		if !t.host.HasPendingTimeout() {
			return nil
		}
		if t.host.TimeoutAt().After(deadline) {
			return ErrSettleTimeout
		}
		t.host.AdvanceToTimeout()
	}
}

// HTML renders the container's children as markup.
func (t *Tester) HTML() string { return t.container.String() }

// Mutations returns the host mutations logged since the last
// ResetMutations.
func (t *Tester) Mutations() []string { return t.dom.MutationStrings() }

// ResetMutations clears the mutation log.
func (t *Tester) ResetMutations() { t.dom.Reset() }

// Commits returns the records of every commit so far.
func (t *Tester) Commits() [][]core.CommitRecord { return t.commits }

// LastCommit returns the records of the latest commit.
func (t *Tester) LastCommit() []core.CommitRecord {
	if len(t.commits) == 0 {
		return nil
	}
	return t.commits[len(t.commits)-1]
}
