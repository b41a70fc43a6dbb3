package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/munistats/internal/dataset"
)

var millageOpts struct {
	kind      string
	startYear int
	endYear   int
	test      bool
	force     bool
}

// millageDatasets maps the --kind flag to registry names. The county rows
// ride along with the municipal table scrape, which splits them into their
// own file, so "county" runs the municipal sync.
func millageDatasets(kind string) ([]string, error) {
	switch kind {
	case "all":
		return []string{"millage_muni", "millage_school"}, nil
	case "muni", "county":
		return []string{"millage_muni"}, nil
	case "school":
		return []string{"millage_school"}, nil
	}
	return nil, fmt.Errorf("unknown millage kind %q, want all, muni, school, or county", kind)
}

var millageCmd = &cobra.Command{
	Use:   "millage",
	Short: "Collect municipal, school district, and county millage rate tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := millageDatasets(millageOpts.kind)
		if err != nil {
			return err
		}

		engine, log, err := newEngine()
		if err != nil {
			return err
		}
		defer log.Close()

		opts := dataset.RunOpts{
			StartYear: millageOpts.startYear,
			EndYear:   millageOpts.endYear,
			Force:     millageOpts.force,
		}
		if millageOpts.test {
			year := time.Now().Year()
			opts.StartYear = year
			opts.EndYear = year
			opts.Force = true
		}

		return engine.Run(cmd.Context(), names, opts)
	},
}

func init() {
	millageCmd.Flags().StringVar(&millageOpts.kind, "kind", "all", "which tables to collect: all, muni, school, or county")
	millageCmd.Flags().IntVar(&millageOpts.startYear, "start-year", 0, "first tax year to collect (0 = config default)")
	millageCmd.Flags().IntVar(&millageOpts.endYear, "end-year", 0, "last tax year to collect (0 = current year)")
	millageCmd.Flags().BoolVar(&millageOpts.test, "test", false, "collect only the current tax year")
	millageCmd.Flags().BoolVar(&millageOpts.force, "force", false, "run even if the cadence says the dataset is current")
	rootCmd.AddCommand(millageCmd)
}
