package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-redul/redul/pkg/config"
	"github.com/go-redul/redul/pkg/core"
	"github.com/go-redul/redul/pkg/errors"
	"github.com/go-redul/redul/pkg/host"
	"github.com/go-redul/redul/pkg/host/memhost"
	"github.com/go-redul/redul/pkg/scheduler"
	"github.com/go-redul/redul/showcase"
)

var (
	runApp      string
	runClicks   int
	runTrace    bool
	runInterval time.Duration
	runTicks    int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a showcase app against an in-memory host",
	Long: `Run a showcase app on the configured host loop.

The app renders into an in-memory host tree. After every commit the tree
is printed; with --trace the applied effects are listed below it.
Interactive apps receive --clicks simulated interactions once the first
render has settled.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runApp, "app", "counter", "showcase app to run")
	runCmd.Flags().IntVar(&runClicks, "clicks", 3, "number of simulated interactions")
	runCmd.Flags().BoolVar(&runTrace, "trace", false, "list the effects applied by each commit")
	runCmd.Flags().DurationVar(&runInterval, "interval", 100*time.Millisecond, "tick period of timed apps")
	runCmd.Flags().IntVar(&runTicks, "ticks", 5, "number of ticks of timed apps")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if runClicks < 0 {
		return fmt.Errorf("--clicks must not be negative, got %d", runClicks)
	}
	demo, err := showcase.Lookup(runApp)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	defer errors.Swap(&errors.LogHandler{Out: cmd.ErrOrStderr()})()

	app := newAppRun(cfg, cmd.OutOrStdout(), runTrace)
	return app.run(ctx, demo, showcase.Env{Interval: runInterval, Limit: runTicks}, runClicks)
}

// appRun wires one showcase app to a loop host and a memhost container.
type appRun struct {
	cfg   *config.Config
	out   io.Writer
	trace bool

	loop      *scheduler.Loop
	dom       *memhost.Host
	container *memhost.Node
	commits   int
}

func newAppRun(cfg *config.Config, out io.Writer, trace bool) *appRun {
	dom := memhost.New()
	return &appRun{
		cfg:       cfg,
		out:       out,
		trace:     trace,
		loop:      scheduler.NewLoop(),
		dom:       dom,
		container: dom.NewContainer("root"),
	}
}

func (a *appRun) run(ctx context.Context, demo showcase.Demo, env showcase.Env, clicks int) error {
	hostCfg, err := a.cfg.NewHost(a.loop, scheduler.SystemClock)
	if err != nil {
		return err
	}
	sched := scheduler.New(hostCfg, a.cfg.SchedulerOptions()...)
	renderer := core.NewRenderer(sched, a.dom,
		core.WithPriority(a.cfg.RenderPriority()),
		core.WithOnCommit(a.printCommit),
	)
	env.After = a.loop.AfterFunc

	fmt.Fprintf(a.out, "running %s on the %s host\n", demo.Name, a.cfg.Scheduler.Host)
	a.loop.Submit(func() { renderer.Render(demo.Element(env), a.container) })
	if err := a.loop.RunUntilIdle(ctx); err != nil {
		return err
	}

	if demo.Interact != nil {
		for step := range clicks {
			var interactErr error
			a.loop.Submit(func() { interactErr = demo.Interact(a.container, step) })
			if err := a.loop.RunUntilIdle(ctx); err != nil {
				return err
			}
			if interactErr != nil {
				return fmt.Errorf("interaction %d: %w", step+1, interactErr)
			}
		}
	}

	a.loop.Submit(func() { renderer.Render(nil, a.container) })
	if err := a.loop.RunUntilIdle(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d commits, %d host mutations\n", a.commits, len(a.dom.Mutations()))
	return nil
}

func (a *appRun) printCommit(_ host.Node, records []core.CommitRecord) {
	a.commits++
	fmt.Fprintf(a.out, "commit %d: %s\n", a.commits, a.container)
	if !a.trace {
		return
	}
	for _, r := range records {
		if n, ok := r.Node.(*memhost.Node); ok && n != nil {
			fmt.Fprintf(a.out, "  %-7s %s %s\n", r.Effect, r.Type, n.Label())
			continue
		}
		fmt.Fprintf(a.out, "  %-7s %s\n", r.Effect, r.Type)
	}
}
