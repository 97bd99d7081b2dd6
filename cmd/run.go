package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/govac/internal/agent"
	"github.com/nextlevelbuilder/govac/internal/config"
	"github.com/nextlevelbuilder/govac/internal/environment"
	"github.com/nextlevelbuilder/govac/internal/input"
	"github.com/nextlevelbuilder/govac/internal/render"
	"github.com/nextlevelbuilder/govac/internal/scenario"
	"github.com/nextlevelbuilder/govac/internal/tracing"
)

type runOptions struct {
	size        string
	dirt        string
	start       string
	scenario    string
	delay       time.Duration
	seed        uint64
	renderer    string
	marker      string
	yes         bool
	watchConfig bool
}

func runCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the vacuum until the grid is clean",
		Long: "Run the simulation. Grid size, dirt rows and start cell come from " +
			"--scenario, the individual flags, or interactive prompts for whatever is missing.",
		Example: `  govac run
  govac run --size 3x2 --dirt "1 0 1/0 1 1" --start "0 0" --delay 500ms
  govac run --scenario room.yaml --renderer plain --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.size, "size", "", `grid size as "WxH"`)
	f.StringVar(&opts.dirt, "dirt", "", `dirt rows separated by "/", e.g. "1 0/0 1"`)
	f.StringVar(&opts.start, "start", "", `start cell as "x y"`)
	f.StringVar(&opts.scenario, "scenario", "", "load size, dirt and start from a YAML or JSON5 file")
	f.DurationVar(&opts.delay, "delay", agent.DefaultStepDelay, "pause between moves (overrides sim.stepDelay)")
	f.Uint64Var(&opts.seed, "seed", 0, "random seed for move choice (0 = from clock)")
	f.StringVar(&opts.renderer, "renderer", "", "auto, console, plain, tui or none (overrides render.mode)")
	f.StringVar(&opts.marker, "marker", "", "text shown on the vacuum's cell (overrides render.marker)")
	f.BoolVarP(&opts.yes, "yes", "y", false, "start cleaning without asking")
	f.BoolVar(&opts.watchConfig, "watch-config", false, "reload sim.stepDelay when the config file changes")
	return cmd
}

func runSimulation(cmd *cobra.Command, opts runOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfgPath := resolveConfigPath()
	cfg, err := loadRunConfig(cmd, cfgPath, opts)
	if err != nil {
		return err
	}
	interactive := isTerminal(cmd.InOrStdin()) && isTerminal(out)

	setup, err := initialSetup(opts)
	if err != nil {
		return err
	}
	var prompter input.Prompter = huhPrompter{}
	if !interactive {
		prompter = input.NewLinePrompter(cmd.InOrStdin(), out)
	}
	setup, err = input.Collect(ctx, prompter, setup)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	grid, err := environment.New(setup.Dirt)
	if err != nil {
		return err
	}

	delay, _ := cfg.Sim.Delay()
	var stepDelay atomic.Int64
	stepDelay.Store(int64(delay))
	if opts.watchConfig {
		stopWatch, err := watchStepDelay(ctx, cfgPath, &stepDelay)
		if err != nil {
			slog.Warn("config watch disabled", "path", cfgPath, "error", err)
		} else {
			defer stopWatch()
		}
	}

	collector := tracing.NewCollector()
	initSpanExporter(ctx, cfg, collector)
	collector.Start()
	defer collector.Stop(context.WithoutCancel(ctx))

	display, tui := newDisplay(cfg.Render, interactive, cmd.InOrStdin(), out)

	vac, err := agent.New(grid, *setup.Start, agent.Config{
		Chooser:  agent.NewRandomChooser(cfg.Sim.Seed),
		Delay:    agent.SleepDynamic(func() time.Duration { return time.Duration(stepDelay.Load()) }),
		Observer: agent.Multi{display, collector},
	})
	if err != nil {
		return err
	}

	if tui == nil {
		// Show the room before the start gate, like the window before Clean.
		if err := display.Render(ctx, vac.Frame(0)); err != nil {
			return err
		}
	}
	if interactive && !opts.yes {
		ok, err := promptConfirm(ctx, "Clean?", true)
		if errors.Is(err, huh.ErrUserAborted) || (err == nil && !ok) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	slog.Info("run started", "run_id", collector.RunID(), "width", grid.Width(), "height", grid.Height(),
		"start", setup.Start.String(), "dirty", grid.DirtCount(), "step_delay", time.Duration(stepDelay.Load()))

	runCtx := ctx
	if tui != nil {
		tui.Start()
		defer tui.Close()
		var cancelRun context.CancelFunc
		runCtx, cancelRun = cancelOnClose(ctx, tui.Done())
		defer cancelRun()
	}
	res, runErr := vac.Run(runCtx)
	if tui != nil && runErr == nil {
		runErr = tui.Wait(ctx)
	}

	switch {
	case errors.Is(runErr, render.ErrClosed), errors.Is(runErr, context.Canceled):
		fmt.Fprintf(out, "Stopped after %d moves; %d cells still dirty.\n", res.Moves, grid.DirtCount())
		return nil
	case runErr != nil:
		return runErr
	}
	fmt.Fprintf(out, "Cleaned %d cells in %d moves (%d steps).\n", res.Cleans, res.Moves, res.Steps)
	return nil
}

// loadRunConfig loads the config file and applies flag overrides.
func loadRunConfig(cmd *cobra.Command, path string, opts runOptions) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	flags := cmd.Flags()
	if flags.Changed("delay") {
		cfg.Sim.StepDelay = opts.delay.String()
	}
	if flags.Changed("seed") {
		cfg.Sim.Seed = opts.seed
	}
	if flags.Changed("renderer") {
		cfg.Render.Mode = opts.renderer
	}
	if flags.Changed("marker") {
		cfg.Render.Marker = opts.marker
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initialSetup builds the parts of the setup given on the command line.
func initialSetup(opts runOptions) (input.Setup, error) {
	if opts.scenario != "" {
		if opts.size != "" || opts.dirt != "" || opts.start != "" {
			return input.Setup{}, errors.New("--scenario cannot be combined with --size, --dirt or --start")
		}
		return scenario.Load(opts.scenario)
	}

	var s input.Setup
	if opts.size != "" {
		w, h, err := input.ParseDimensions(opts.size)
		if err != nil {
			return s, fmt.Errorf("--size: %w", err)
		}
		s.Width, s.Height = w, h
	}
	if (opts.dirt != "" || opts.start != "") && s.Width == 0 {
		return s, errors.New("--dirt and --start need --size")
	}
	if opts.dirt != "" {
		rows, err := input.ParseDirtRows(opts.dirt, s.Width, s.Height)
		if err != nil {
			return s, fmt.Errorf("--dirt: %w", err)
		}
		s.Dirt = rows
	}
	if opts.start != "" {
		pos, err := input.ParseStart(opts.start, s.Width, s.Height)
		if err != nil {
			return s, fmt.Errorf("--start: %w", err)
		}
		s.Start = &pos
	}
	return s, nil
}

// newDisplay picks the renderer. The returned *render.TUI is non-nil when
// the bubbletea display was chosen and must be started by the caller.
func newDisplay(rc config.RenderConfig, interactive bool, in io.Reader, out io.Writer) (agent.Observer, *render.TUI) {
	mode := rc.Mode
	if mode == config.ModeAuto {
		mode = config.ModePlain
		if interactive {
			mode = config.ModeTUI
		}
	}
	switch mode {
	case config.ModeTUI:
		t := render.NewTUI(in, out, rc.Marker)
		return t, t
	case config.ModeConsole:
		return render.NewConsole(out, rc.Marker, isTerminal(out)), nil
	case config.ModeNone:
		return agent.NopObserver{}, nil
	default:
		return render.NewPlain(out, rc.Marker), nil
	}
}

// cancelOnClose returns a context that is cancelled when closed is closed,
// so quitting the display interrupts a pending step delay.
func cancelOnClose(ctx context.Context, closed <-chan struct{}) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-closed:
			cancel()
		case <-runCtx.Done():
		}
	}()
	return runCtx, cancel
}

// watchStepDelay keeps stepDelay in sync with the config file.
func watchStepDelay(ctx context.Context, path string, stepDelay *atomic.Int64) (func(), error) {
	w, err := config.NewWatcher(path)
	if err != nil {
		return nil, err
	}
	w.OnChange(func(cfg *config.Config) {
		d, err := cfg.Sim.Delay()
		if err != nil {
			return
		}
		stepDelay.Store(int64(d))
	})
	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(watchCtx); err != nil {
			slog.Warn("config watcher failed", "error", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}, nil
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
