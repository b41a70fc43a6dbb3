package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/munistats/internal/config"
	"github.com/sells-group/munistats/internal/dataset"
	"github.com/sells-group/munistats/internal/fetch"
	"github.com/sells-group/munistats/internal/runlog"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "munistats",
	Short: "County municipal data scraper",
	Long:  "Scrapes municipal profiles, millage rates, and real-estate values from the county web application into versioned CSV datasets.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newEngine wires the fetch client, run log, and dataset registry from the
// loaded config. The caller owns the returned run log.
func newEngine() (*dataset.Engine, *runlog.Log, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create data dir %s: %w", cfg.DataDir, err)
	}

	client := fetch.NewClient(fetch.Options{
		UserAgent:  cfg.Fetch.UserAgent,
		Timeout:    cfg.Fetch.Timeout(),
		MaxRetries: cfg.Fetch.MaxRetries,
		Delay:      cfg.Fetch.Delay(),
	})

	log, err := runlog.Open(cfg.RunLogPath())
	if err != nil {
		return nil, nil, err
	}

	reg := dataset.NewRegistry(
		cfg.BaseURL,
		dataset.MillageYears{Start: cfg.Millage.StartYear, End: cfg.Millage.EndYear},
		dataset.ParseTimeSeriesPolicy(cfg.RealEstate.Policy),
	)

	return dataset.NewEngine(client, log, reg, cfg.DataDir), log, nil
}

// testIDs is the small identifier subset used by --test runs.
func testIDs() []int {
	return []int{1, 2, 3}
}
