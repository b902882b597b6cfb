package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"smartCatalog/business/catalog"
	"smartCatalog/business/recommend"
	"smartCatalog/pkg/config"
	"smartCatalog/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	catalogFile string
	engineFile  string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "recoctl",
	Short: "Run the laptop recommendation engine against a catalog file",
	Long: `recoctl loads a JSON catalog into an in-memory snapshot and runs
recommend, compare, smart and suggest queries against it without the HTTP server.
It is meant for tuning engine weights and checking catalog files.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		env := "production"
		if verbose {
			env = "development"
		}
		logger.Init(env)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&catalogFile, "catalog", "f", "data/laptops.json", "catalog JSON file")
	rootCmd.PersistentFlags().StringVarP(&engineFile, "engine-config", "e", "", "engine tuning YAML file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newService builds an engine over a fixed snapshot; there is no personalization
// outside the server.
func newService() (*recommend.Service, error) {
	ec, err := config.LoadEngine(engineFile)
	if err != nil {
		return nil, err
	}
	cfg, err := recommend.ConfigFromEngine(ec)
	if err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	idx, err := catalog.LoadJSONFile(catalogFile)
	if err != nil {
		return nil, err
	}
	holder := catalog.NewHolder()
	holder.Swap(idx)

	logger.Debug("catalog_loaded", "file", catalogFile, "candidates", idx.Len())

	return recommend.NewService(holder, nil, cfg), nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
