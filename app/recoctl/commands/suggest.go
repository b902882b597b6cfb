package commands

import (
	"smartCatalog/business/recommend"

	"github.com/spf13/cobra"
)

var suggestBudget float64

var suggestCmd = &cobra.Command{
	Use:   "suggest USE_CASE",
	Short: "Print the constraints a use case expands to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var budget *float64
		if cmd.Flags().Changed("budget-max") {
			budget = &suggestBudget
		}
		res, err := recommend.SuggestConstraints(args[0], budget)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	suggestCmd.Flags().Float64Var(&suggestBudget, "budget-max", 0, "budget used to pick memory and storage tiers")
	rootCmd.AddCommand(suggestCmd)
}
