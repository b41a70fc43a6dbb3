package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/munistats/internal/dataset"
)

var realEstateOpts struct {
	test  bool
	force bool
}

var realEstateCmd = &cobra.Command{
	Use:   "realestate",
	Short: "Collect the weekly certified real-estate value snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, log, err := newEngine()
		if err != nil {
			return err
		}
		defer log.Close()

		opts := dataset.RunOpts{Force: realEstateOpts.force}
		if realEstateOpts.test {
			opts.IDs = testIDs()
			opts.Force = true
		}

		return engine.Run(cmd.Context(), []string{"realestate"}, opts)
	},
}

func init() {
	realEstateCmd.Flags().BoolVar(&realEstateOpts.test, "test", false, "collect a small subset of municipalities")
	realEstateCmd.Flags().BoolVar(&realEstateOpts.force, "force", false, "run even if the cadence says the dataset is current")
	rootCmd.AddCommand(realEstateCmd)
}
