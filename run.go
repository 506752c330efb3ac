package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/simonbystrom/opsim/internal/agent"
	"github.com/simonbystrom/opsim/internal/config"
	"github.com/simonbystrom/opsim/internal/engine"
	"github.com/simonbystrom/opsim/internal/scheduler"
)

var (
	runTicks    int
	runSeed     uint64
	runFormat   string
	runRealtime bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation headless and print the result",
	Long: `Run a fixed number of ticks without the dashboard.

By default ticks run back to back. With --realtime they fire at the
configured tick interval. Text output lists alerts and booked revenue as
they happen, then a summary. json and yaml print only the final snapshot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("seed") {
			cfg.Engine.Seed = runSeed
		}
		closeLog, err := setupLogging(cfg.Log)
		if err != nil {
			return err
		}
		defer closeLog()

		return runHeadless(cmd.Context(), cmd.OutOrStdout(), cfg, runOptions{
			ticks:    runTicks,
			format:   runFormat,
			realtime: runRealtime,
		})
	},
}

func init() {
	runCmd.Flags().IntVarP(&runTicks, "ticks", "n", 20, "number of ticks to run")
	runCmd.Flags().Uint64Var(&runSeed, "seed", 0, "random seed (0 seeds from the clock)")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "text", "output format: text, json or yaml")
	runCmd.Flags().BoolVar(&runRealtime, "realtime", false, "tick at the configured interval instead of back to back")
}

type runOptions struct {
	ticks    int
	format   string
	realtime bool
}

func (o runOptions) validate() error {
	if o.ticks < 1 {
		return fmt.Errorf("--ticks must be at least 1, got %d", o.ticks)
	}
	switch o.format {
	case "text", "json", "yaml":
		return nil
	}
	return fmt.Errorf("unknown --format %q (want text, json or yaml)", o.format)
}

func runHeadless(ctx context.Context, w io.Writer, cfg config.Config, opts runOptions) error {
	if err := opts.validate(); err != nil {
		return err
	}

	eng, seed := newEngine(cfg.Engine, cfg.Engine.Seed)
	logStart(seed, cfg)

	var events func(engine.TickResult)
	if opts.format == "text" {
		events = func(res engine.TickResult) { printEvents(w, res) }
	}

	var err error
	if opts.realtime {
		err = tickRealtime(ctx, eng, cfg, opts.ticks, events)
	} else {
		for i := 0; i < opts.ticks; i++ {
			res := eng.Tick()
			if events != nil {
				events(res)
			}
		}
	}
	if err != nil {
		return err
	}

	return writeSnapshot(w, eng.Snapshot(), opts.format, seed)
}

// tickRealtime drives eng through a scheduler until n ticks have been
// published, then stops it.
func tickRealtime(ctx context.Context, eng *engine.Engine, cfg config.Config, n int, events func(engine.TickResult)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	published := make(chan engine.Snapshot)
	sched, err := scheduler.New(eng, cfg.Engine.TickInterval.Duration, scheduler.WithPublish(func(s engine.Snapshot) {
		select {
		case published <- s:
		case <-ctx.Done():
		}
	}))
	if err != nil {
		return err
	}
	if err := sched.Start(ctx); err != nil {
		return err
	}

	last := eng.Snapshot()
	for seen := 0; seen < n; {
		select {
		case s := <-published:
			seen++
			if events != nil {
				events(resultBetween(last, s))
			}
			last = s
		case <-ctx.Done():
			_ = sched.Stop()
			return ctx.Err()
		}
	}

	cancel()
	if err := sched.Stop(); err != nil && !errors.Is(err, scheduler.ErrNotRunning) {
		return err
	}
	return sched.Err()
}

// resultBetween reconstructs the visible effects of one tick from two
// consecutive snapshots.
func resultBetween(prev, cur engine.Snapshot) engine.TickResult {
	res := engine.TickResult{
		Tick:      cur.Tick,
		Completed: cur.Completed - prev.Completed,
	}
	res.Delta.Revenue = cur.Totals.Revenue - prev.Totals.Revenue
	res.Delta.Leads = cur.Totals.Leads - prev.Totals.Leads
	if len(cur.Alerts) > 0 && (len(prev.Alerts) == 0 || cur.Alerts[0].ID != prev.Alerts[0].ID) {
		a := cur.Alerts[0]
		res.Alert = &a
	}
	return res
}

var (
	tickLabel    = color.New(color.FgHiBlack)
	alertColor   = color.New(color.FgGreen, color.Bold)
	revenueColor = color.New(color.FgYellow)
	headerColor  = color.New(color.FgCyan, color.Bold)
)

func printEvents(w io.Writer, res engine.TickResult) {
	if res.Alert != nil {
		fmt.Fprintf(w, "%s %s %s\n", tickLabel.Sprintf("[%04d]", res.Tick), alertColor.Sprint(res.Alert.Severity), res.Alert.Message)
	}
	if !res.Delta.IsZero() {
		fmt.Fprintf(w, "%s %s +$%d from %d lead(s)\n", tickLabel.Sprintf("[%04d]", res.Tick), revenueColor.Sprint("REVENUE"), res.Delta.Revenue, res.Delta.Leads)
	}
}

type runReport struct {
	Seed     uint64          `json:"seed" yaml:"seed"`
	Snapshot engine.Snapshot `json:"snapshot" yaml:"snapshot"`
}

func writeSnapshot(w io.Writer, s engine.Snapshot, format string, seed uint64) error {
	report := runReport{Seed: seed, Snapshot: s}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}

	printSummary(w, s, seed)
	return nil
}

func printSummary(w io.Writer, s engine.Snapshot, seed uint64) {
	fmt.Fprintln(w)
	headerColor.Fprintf(w, "After %d ticks (seed %d)\n", s.Tick, seed)
	fmt.Fprintf(w, "  revenue  $%d\n", s.Totals.Revenue)
	fmt.Fprintf(w, "  leads    %d\n", s.Totals.Leads)
	fmt.Fprintf(w, "  tasks    %d in flight, %d completed\n", len(s.Tasks), s.Completed)
	fmt.Fprintf(w, "  alerts   %d\n", len(s.Alerts))

	fmt.Fprintln(w)
	headerColor.Fprintln(w, "Agents")
	for _, a := range s.Agents {
		fmt.Fprintf(w, "  %-24s %s  %6.0f tok/s  %5.1f%%  %4.0fms\n",
			a.Name, healthColor(a.Health).Sprintf("%-8s", a.Health),
			a.Metrics.TokensPerSec, a.Metrics.SuccessRate, a.Metrics.LatencyMs)
	}

	if len(s.Tasks) > 0 {
		fmt.Fprintln(w)
		headerColor.Fprintln(w, "Tasks")
		for _, t := range s.Tasks {
			fmt.Fprintf(w, "  %-11s %3.0f%%  %s (%s)\n", t.Stage, t.Progress, t.Name, t.AgentName)
		}
	}
}

func healthColor(h agent.Health) *color.Color {
	switch h {
	case agent.HealthCritical:
		return color.New(color.FgRed, color.Bold)
	case agent.HealthWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}
