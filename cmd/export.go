package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sells-group/munistats/internal/export"
)

// exportFiles maps dataset names to their CSV files under the data dir.
var exportFiles = map[string]string{
	"profiles":       "muni_profiles.csv",
	"millage_muni":   "millage_muni.csv",
	"millage_county": "millage_county.csv",
	"millage_school": "millage_school.csv",
	"realestate":     "real_estate_weekly.csv",
}

var exportOpts struct {
	dataset string
	out     string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a collected dataset to an XLSX workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, ok := exportFiles[exportOpts.dataset]
		if !ok {
			return fmt.Errorf("unknown dataset %q, want one of: %s", exportOpts.dataset, strings.Join(exportNames(), ", "))
		}

		out := exportOpts.out
		if out == "" {
			out = strings.TrimSuffix(file, ".csv") + ".xlsx"
		}

		return export.ToXLSX(filepath.Join(cfg.DataDir, file), out, exportOpts.dataset)
	},
}

func exportNames() []string {
	names := make([]string, 0, len(exportFiles))
	for name := range exportFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	exportCmd.Flags().StringVar(&exportOpts.dataset, "dataset", "", "dataset to export")
	exportCmd.Flags().StringVar(&exportOpts.out, "out", "", "output path (default <dataset file>.xlsx)")
	_ = exportCmd.MarkFlagRequired("dataset")
	rootCmd.AddCommand(exportCmd)
}
