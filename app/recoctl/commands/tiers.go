package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var tiersCmd = &cobra.Command{
	Use:   "tiers",
	Short: "Show the top business picks of each budget tier",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		tiers, err := svc.BudgetTiers(ctx)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), tiers)
	},
}

func init() {
	rootCmd.AddCommand(tiersCmd)
}
