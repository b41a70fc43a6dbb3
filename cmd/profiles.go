package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/munistats/internal/dataset"
)

var profilesOpts struct {
	test  bool
	force bool
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Collect municipal profile pages into muni_profiles.csv",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, log, err := newEngine()
		if err != nil {
			return err
		}
		defer log.Close()

		opts := dataset.RunOpts{Force: profilesOpts.force}
		if profilesOpts.test {
			opts.IDs = testIDs()
			opts.Force = true
		}

		return engine.Run(cmd.Context(), []string{"profiles"}, opts)
	},
}

func init() {
	profilesCmd.Flags().BoolVar(&profilesOpts.test, "test", false, "collect a small subset of municipalities")
	profilesCmd.Flags().BoolVar(&profilesOpts.force, "force", false, "run even if the cadence says the dataset is current")
	rootCmd.AddCommand(profilesCmd)
}
