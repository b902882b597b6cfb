package commands

import (
	"context"
	"time"

	"smartCatalog/business/recommend"

	"github.com/spf13/cobra"
)

var smartCmd = &cobra.Command{
	Use:       "smart [budget_best|performance_best|value_best|all]",
	Short:     "Show the curated pick of each category",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{recommend.CategoryBudgetBest, recommend.CategoryPerformanceBest, recommend.CategoryValueBest, recommend.CategoryAll},
	RunE:      runSmart,
}

func init() {
	rootCmd.AddCommand(smartCmd)
}

func runSmart(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	category := recommend.CategoryAll
	if len(args) == 1 {
		category = args[0]
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	recs, err := svc.Smart(ctx, category)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), recs)
}
