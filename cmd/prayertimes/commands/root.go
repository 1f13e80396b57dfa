package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"prayertimes/cmd/prayertimes/globals"
	"prayertimes/cmd/prayertimes/utils"
	"prayertimes/internal/components/diagnostics"
	"prayertimes/internal/components/telemetry"
	"prayertimes/internal/config"
	"prayertimes/internal/sources"

	"github.com/mazen160/go-random"
	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "", "The config file to read, by default prayertimes.json5 is searched for from the cwd upwards.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enables debug logs and http message dumps.")
}

var rootCmd = &cobra.Command{
	Use:   "prayertimes",
	Short: "prayertimes extracts today's prayer times for a single town from unreliable sources.",

	// errors are printed once by ExecuteContext
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		g := globals.Get(cmd.Context())

		cfg, err := config.Load(*configPath)
		if err != nil {
			telemetry.InitSlog(*verbose)
			utils.Fatal("failed to load config", err)
		}
		if *verbose {
			cfg.Verbose = true
		}
		telemetry.InitSlog(cfg.Verbose)

		runID, err := random.String(8)
		if err != nil {
			utils.Fatal("failed to generate run id", err)
		}

		t, err := telemetry.Setup(cmd.Context(), "prayertimes", cfg.Otlp)
		if err != nil {
			utils.Fatal("failed to setup telemetry", err)
		}

		g.Config = cfg
		g.RunID = runID
		g.Tel = telemetry.NewSlogAPI("run_id", runID)
		g.Telemetry = t
		g.Ready = true
	},
}

// ExecuteContext runs the cli, flushing telemetry on the way out whether
// or not the command succeeded.
func ExecuteContext(ctx context.Context) {
	g := &globals.Value{}
	ctx = globals.Set(ctx, g)

	err := rootCmd.ExecuteContext(ctx)
	if g.Ready {
		telemetry.RecordPerfStats(ctx, g.Tel)
		shutdownErr := g.Telemetry.Shutdown(context.Background())
		if shutdownErr != nil {
			fmt.Fprintln(os.Stderr, "failed to shutdown telemetry:", shutdownErr)
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newDeps wires the diagnostics outputs of a run, http dumps are only
// written in verbose mode.
func newDeps(g *globals.Value) sources.Deps {
	deps := sources.Deps{Tel: g.Tel}

	output, err := diagnostics.NewFilesystemOutput(g.Config.DiagnosticsDir, false)
	if err != nil {
		g.Tel.ReportWarning("commands.diagnostics", err)
		return deps
	}
	deps.Diagnostics = output

	if g.Config.Verbose {
		deps.HttpDumps = func(strategy string) telemetry.MessageOutput {
			dumps, err := diagnostics.NewFilesystemOutput(
				filepath.Join(g.Config.DiagnosticsDir, "resty", strategy),
				true,
			)
			if err != nil {
				g.Tel.ReportWarning("commands.diagnostics", err)
				return nil
			}
			return dumps
		}
	}
	return deps
}
