package commands

import (
	"prayertimes/cmd/prayertimes/globals"
	"prayertimes/cmd/prayertimes/utils"
	"prayertimes/internal/pipeline"
	"prayertimes/internal/sources"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(strategiesCmd)
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "Lists the configured strategy order with the timeout of each step.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		deps := sources.Deps{Tel: g.Tel}
		plan, err := pipeline.PlanFromConfig(g.Config, func(name string) (sources.Strategy, error) {
			return sources.New(name, g.Config, deps)
		})
		if err != nil {
			return err
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"#", "Strategy", "Timeout", "URL"})
		for i, step := range plan {
			t.AppendRow(table.Row{
				i + 1,
				step.Strategy.Name(),
				step.Timeout.String(),
				step.Strategy.URL(),
			})
		}
		t.Render()
		return nil
	},
}
