package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"prayertimes/cmd/prayertimes/globals"
	"prayertimes/cmd/prayertimes/utils"
	"prayertimes/internal/components/chrono"
	"prayertimes/internal/config"
	"prayertimes/internal/pipeline"
	"prayertimes/internal/prayer"
	"prayertimes/internal/sources"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var (
	scrapeOut        *string
	scrapeStrategies *[]string
)

func init() {
	scrapeOut = scrapeCmd.Flags().String("out", "", "The file to write the schedule to, defaults to the configured output.")
	scrapeStrategies = scrapeCmd.Flags().StringSlice("strategies", nil, "Overrides the strategy order, ex. static_html,json_api.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--out <path/to/output.json>] [--strategies a,b,c]",
	Short: "Runs the strategies in order and writes the first valid schedule.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		cfg := g.Config

		if len(*scrapeStrategies) > 0 {
			cfg.Strategies = config.StepsFromNames(*scrapeStrategies)
			err := cfg.Validate()
			if err != nil {
				return err
			}
		}
		out := cfg.Output
		if *scrapeOut != "" {
			out = *scrapeOut
		}

		ctx, span := otel.Tracer("prayertimes/commands").Start(cmd.Context(), "scrape")
		defer span.End()
		span.SetAttributes(
			attribute.String("run_id", g.RunID),
			attribute.Int("town_id", cfg.Town.ID),
		)

		deps := newDeps(g)
		plan, err := pipeline.PlanFromConfig(cfg, func(name string) (sources.Strategy, error) {
			return sources.New(name, cfg, deps)
		})
		if err != nil {
			return err
		}
		clock, err := chrono.NewStandardImpl(cfg.Town.Timezone)
		if err != nil {
			return fmt.Errorf("load timezone: %w", err)
		}

		locality := prayer.Locality{Key: cfg.Town.ID, Name: cfg.Town.Name}
		orchestrator := pipeline.New(plan, locality, clock, g.Tel)

		t1 := time.Now()
		schedule, err := orchestrator.Run(ctx)
		t2 := time.Now()
		if err != nil {
			var agg *pipeline.AggregateFailure
			if errors.As(err, &agg) {
				printFailures(agg)
			}
			return err
		}

		data, err := json.MarshalIndent(schedule, "", "  ")
		if err != nil {
			return err
		}
		err = os.WriteFile(out, append(data, '\n'), 0644)
		if err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}

		utils.PrintSchedule(schedule)
		slog.Info(
			"wrote schedule",
			"path", out,
			"source", schedule.Source(),
			"seconds", t2.Sub(t1).Seconds(),
			"run_id", g.RunID,
		)
		return nil
	},
}

func printFailures(agg *pipeline.AggregateFailure) {
	t := utils.NewTable()
	t.SetTitle("All strategies failed")
	t.AppendHeader(table.Row{"#", "Strategy", "Stage", "Error"})
	for i, f := range agg.Failures {
		t.AppendRow(table.Row{i + 1, f.Strategy, string(f.Stage), f.Err.Error()})
	}
	t.Render()
}
