package commands

import (
	"os"

	"prayertimes/cmd/prayertimes/utils"
	"prayertimes/internal/prayer"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <path/to/output.json>",
	Short: "Pretty prints a schedule written by scrape.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		schedule, err := prayer.DecodeSchedule(data)
		if err != nil {
			return err
		}
		utils.PrintSchedule(schedule)
		return nil
	},
}
