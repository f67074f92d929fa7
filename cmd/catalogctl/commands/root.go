package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"bookreview-backend/internal/config"
	"bookreview-backend/pkg/logger"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Operator tooling for the book catalog",
	Long: `catalogctl runs maintenance tasks against the catalog database and cache.

Commands:
  migrate  - Apply or roll back schema migrations
  cache    - Flush cached views
  sales    - Recompute book sales totals
  token    - Issue an admin bearer token`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		level := "warn"
		if verbose {
			level = "debug"
		}
		logger.Init("development", level)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", os.Getenv("CONFIG_FILE"), "YAML config file (CATALOG_* variables still apply)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
