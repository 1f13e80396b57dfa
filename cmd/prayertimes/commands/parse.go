package commands

import (
	"fmt"
	"os"

	"prayertimes/cmd/prayertimes/globals"
	"prayertimes/cmd/prayertimes/utils"
	"prayertimes/internal/pipeline"
	"prayertimes/internal/sources"

	"github.com/spf13/cobra"
)

var parseStrategy *string

func init() {
	parseStrategy = parseCmd.Flags().String("strategy", "", "The strategy whose parser should read the file.")
	parseCmd.MarkFlagRequired("strategy")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse --strategy <name> <path/to/body>",
	Short: "Parses and validates a saved response body offline, ex. a debug_body.txt.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		strategy, err := sources.New(*parseStrategy, g.Config, sources.Deps{Tel: g.Tel})
		if err != nil {
			return err
		}

		outcome := pipeline.Evaluate(cmd.Context(), strategy, string(raw))
		if !outcome.Ok() {
			if outcome.Failure.Stage == sources.StageValidate {
				utils.PrintTimes(strategy.Name()+" (partial)", outcome.Partial.Get)
			}
			return outcome.Failure
		}

		title := strategy.Name()
		if outcome.Partial.Locality != "" {
			title = fmt.Sprintf("%s | %s", title, outcome.Partial.Locality)
		}
		if outcome.Partial.DateLabel != "" {
			title = fmt.Sprintf("%s | %s", title, outcome.Partial.DateLabel)
		}
		utils.PrintTimes(title, outcome.Partial.Get)
		return nil
	},
}
