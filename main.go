package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/simonbystrom/opsim/internal/config"
	"github.com/simonbystrom/opsim/internal/engine"
	"github.com/simonbystrom/opsim/internal/generate"
	"github.com/simonbystrom/opsim/internal/rng"
	"github.com/simonbystrom/opsim/internal/scheduler"
	"github.com/simonbystrom/opsim/internal/ui"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "opsim",
	Short: "Operations simulation dashboard",
	Long: `opsim simulates a small company run by AI worker agents. Tasks flow
through QUEUE, PROCESSING and VALIDATING, agent metrics drift every tick,
health is derived from those metrics and growth agents book revenue.

With no arguments, opens the live dashboard.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runTUI(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.Path()+")")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// newEngine builds an engine from cfg. A zero seed is replaced by a
// clock-derived one, which is returned so runs can be replayed.
func newEngine(cfg config.Engine, seed uint64) (*engine.Engine, uint64) {
	var src rng.Source
	if seed == 0 {
		src, seed = rng.NewFromTime()
	} else {
		src = rng.New(seed)
	}
	return engine.New(engine.WithRand(src), engine.WithCapacity(cfg.PoolCapacity)), seed
}

func generatorFor(cfg config.Generation) generate.Generator {
	return generate.New(generate.Config{
		Model:      cfg.Model,
		APIKey:     cfg.APIKey,
		UseBedrock: cfg.UseBedrock,
		AWSRegion:  cfg.AWSRegion,
		AWSProfile: cfg.AWSProfile,
		Timeout:    cfg.Timeout.Duration,
	})
}

func runTUI(ctx context.Context, cfg config.Config) error {
	closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	eng, seed := newEngine(cfg.Engine, cfg.Engine.Seed)
	logStart(seed, cfg)

	var p *tea.Program
	sched, err := scheduler.New(eng, cfg.Engine.TickInterval.Duration,
		scheduler.WithPublish(func(s engine.Snapshot) {
			p.Send(ui.SnapshotMsg(s))
		}),
		scheduler.WithOnHalt(func(err error) {
			p.Send(ui.SchedulerHaltedMsg{Err: err})
		}),
	)
	if err != nil {
		return err
	}

	model := ui.NewApp(ctx, cfg, eng, sched, generatorFor(cfg.Generation))
	p = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
