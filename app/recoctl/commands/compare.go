package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

var compareAspects []string

var compareCmd = &cobra.Command{
	Use:     "compare ID ID [ID...]",
	Short:   "Compare two to five products aspect by aspect",
	Example: "  recoctl compare hp-pb-450-g10-i5 lenovo-tp-e14-g5-r5 --aspect price --aspect memory",
	Args:    cobra.RangeArgs(2, 5),
	RunE:    runCompare,
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareAspects, "aspect", nil, "aspects to compare (default: specs plus every feature)")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	res, err := svc.Compare(ctx, args, compareAspects)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), res)
}
