package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thesyncim/shopflow/pkg/shopflow/journey"
)

var journeysCmd = &cobra.Command{
	Use:   "journeys",
	Short: "List the available journeys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, j := range journey.All() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-22s %s\n", j.Name, j.Description)
		}
	},
}

func init() {
	rootCmd.AddCommand(journeysCmd)
}
