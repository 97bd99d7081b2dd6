package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/nextlevelbuilder/govac/internal/config"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the terminal and configuration",
		Run: func(cmd *cobra.Command, args []string) {
			runDoctor(cmd.OutOrStdout())
		},
	}
}

func runDoctor(w io.Writer) {
	fmt.Fprintln(w, "govac doctor")
	fmt.Fprintf(w, "  Version:  %s\n", Version)
	fmt.Fprintf(w, "  OS:       %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "  Go:       %s\n", runtime.Version())
	fmt.Fprintln(w)

	cfgPath := resolveConfigPath()
	fmt.Fprintf(w, "  Config:   %s", cfgPath)
	if _, err := os.Stat(cfgPath); err != nil {
		fmt.Fprintln(w, " (not found, using defaults)")
	} else {
		fmt.Fprintln(w, " (OK)")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(w, "  Config load error: %s\n", err)
		return
	}
	delay, _ := cfg.Sim.Delay()
	fmt.Fprintf(w, "  Step delay: %s\n", delay)
	fmt.Fprintf(w, "  Renderer:   %s (marker %q)\n", cfg.Render.Mode, cfg.Render.Marker)
	if cfg.Sim.Seed != 0 {
		fmt.Fprintf(w, "  Seed:       %d\n", cfg.Sim.Seed)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Terminal:")
	checkTTY(w, "stdin", os.Stdin)
	checkTTY(w, "stdout", os.Stdout)

	fmt.Fprintln(w)
	if cfg.Telemetry.Enabled {
		fmt.Fprintf(w, "  Telemetry: %s via %s\n", cfg.Telemetry.Endpoint, cfg.Telemetry.Protocol)
	} else {
		fmt.Fprintln(w, "  Telemetry: disabled")
	}
}

func checkTTY(w io.Writer, name string, f *os.File) {
	status := "not a terminal (line prompts, plain output)"
	if isTerminal(f) {
		status = "terminal"
	}
	fmt.Fprintf(w, "    %-8s %s\n", name+":", status)
}
