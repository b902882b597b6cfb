package commands

import (
	"context"
	"time"

	"smartCatalog/domain"

	"github.com/spf13/cobra"
)

var (
	recBudgetMin    float64
	recBudgetMax    float64
	recMustHave     []string
	recNiceHave     []string
	recUseCase      string
	recBrands       []string
	recMinRating    float64
	recProcessor    string
	recLimit        int
	recAlternatives bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank the catalog against a set of constraints",
	Example: `  recoctl recommend --budget-max 1000 --must ssd --nice backlit
  recoctl recommend --use-case business --limit 3`,
	RunE: runRecommend,
}

func init() {
	f := recommendCmd.Flags()
	f.Float64Var(&recBudgetMin, "budget-min", 0, "minimum price")
	f.Float64Var(&recBudgetMax, "budget-max", 0, "maximum price")
	f.StringSliceVar(&recMustHave, "must", nil, "required features")
	f.StringSliceVar(&recNiceHave, "nice", nil, "preferred features")
	f.StringVar(&recUseCase, "use-case", "", "use case preset (business, programming, design, ...)")
	f.StringSliceVar(&recBrands, "brand", nil, "only these brands")
	f.Float64Var(&recMinRating, "min-rating", 0, "minimum customer rating")
	f.StringVar(&recProcessor, "processor", "", "processor preference (intel, amd, apple)")
	f.IntVarP(&recLimit, "limit", "n", 5, "number of results")
	f.BoolVar(&recAlternatives, "alternatives", false, "include alternatives")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	req := domain.RecommendRequest{
		MustHave:            recMustHave,
		NiceHave:            recNiceHave,
		UseCase:             recUseCase,
		BrandAllowlist:      recBrands,
		ProcessorPreference: recProcessor,
		Limit:               recLimit,
		IncludeAlternatives: recAlternatives,
	}
	if cmd.Flags().Changed("budget-min") {
		req.BudgetMin = &recBudgetMin
	}
	if cmd.Flags().Changed("budget-max") {
		req.BudgetMax = &recBudgetMax
	}
	if cmd.Flags().Changed("min-rating") {
		req.MinRating = &recMinRating
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	resp, err := svc.Recommend(ctx, "", req)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), resp)
}
